package recordings

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/client/models"
	"github.com/TravisBumgarner/just-recordings/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE recordings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  payload BLOB NOT NULL,
  mime_type TEXT NOT NULL,
  duration_ms INTEGER NOT NULL,
  byte_size INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  upload_status TEXT NOT NULL DEFAULT 'pending',
  upload_progress INTEGER NOT NULL DEFAULT 0,
  upload_error TEXT NOT NULL DEFAULT '',
  server_id TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)

	return db
}

func insertRecording(t *testing.T, r *SQLiteRepository, name string, payload []byte) int64 {
	t.Helper()
	id, err := r.Insert(context.Background(), &models.Recording{
		Name:       name,
		Payload:    payload,
		MimeType:   "video/webm",
		DurationMs: 1500,
		ByteSize:   int64(len(payload)),
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func TestInsert_AssignsIDAndDefaults(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id1 := insertRecording(t, r, "one", []byte{1, 2, 3})
	id2 := insertRecording(t, r, "two", []byte{4})
	assert.Greater(t, id2, id1)

	rec, err := r.GetByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, id1, rec.ID)
	assert.Equal(t, "one", rec.Name)
	assert.Equal(t, []byte{1, 2, 3}, rec.Payload)
	assert.Equal(t, models.StatusPending, rec.UploadStatus)
	assert.Equal(t, 0, rec.UploadProgress)
	assert.Empty(t, rec.UploadError)
	assert.Empty(t, rec.ServerID)
}

func TestInsert_IDsNotReusedAfterDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id1 := insertRecording(t, r, "one", []byte{1})
	require.NoError(t, r.Delete(ctx, id1))

	id2 := insertRecording(t, r, "two", []byte{2})
	assert.Greater(t, id2, id1)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetAll_OrderAndNoPayload(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	insertRecording(t, r, "first", []byte{1, 1, 1})
	insertRecording(t, r, "second", []byte{2})
	insertRecording(t, r, "third", []byte{3, 3})

	all, err := r.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, []string{"first", "second", "third"},
		[]string{all[0].Name, all[1].Name, all[2].Name})
	for _, rec := range all {
		assert.Nil(t, rec.Payload)
		assert.NotZero(t, rec.ByteSize)
	}
}

func TestNextPending(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.NextPending(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	id1 := insertRecording(t, r, "one", []byte{1})
	insertRecording(t, r, "two", []byte{2})

	next, err := r.NextPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, id1, next)

	// once claimed, the next-oldest pending takes its place
	claimed, err := r.MarkUploading(ctx, id1)
	require.NoError(t, err)
	require.True(t, claimed)

	next, err = r.NextPending(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, id1, next)
}

func TestMarkUploading_ClaimIsExclusive(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := insertRecording(t, r, "one", []byte{1})

	claimed, err := r.MarkUploading(ctx, id)
	require.NoError(t, err)
	assert.True(t, claimed)

	// already uploading: second claim loses
	claimed, err = r.MarkUploading(ctx, id)
	require.NoError(t, err)
	assert.False(t, claimed)

	// failed is eligible again, and the claim wipes the old error
	require.NoError(t, r.MarkFailed(ctx, id, "boom"))
	claimed, err = r.MarkUploading(ctx, id)
	require.NoError(t, err)
	assert.True(t, claimed)

	rec, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUploading, rec.UploadStatus)
	assert.Empty(t, rec.UploadError)
	assert.Equal(t, 0, rec.UploadProgress)
}

func TestMarkFailed_OnlyWhileUploading(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := insertRecording(t, r, "one", []byte{1})

	// pending recording is not touched
	require.NoError(t, r.MarkFailed(ctx, id, "boom"))
	rec, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, rec.UploadStatus)
	assert.Empty(t, rec.UploadError)

	claimed, err := r.MarkUploading(ctx, id)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, r.MarkFailed(ctx, id, "network down"))
	rec, err = r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, rec.UploadStatus)
	assert.Equal(t, "network down", rec.UploadError)
}

func TestMarkFailed_DeletedIDIsNoOp(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := insertRecording(t, r, "one", []byte{1})
	claimed, err := r.MarkUploading(ctx, id)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, r.Delete(ctx, id))

	// a late failure from the in-flight attempt must not re-add the row
	require.NoError(t, r.MarkFailed(ctx, id, "late failure"))
	_, err = r.GetByID(ctx, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetProgress(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := insertRecording(t, r, "one", []byte{1})
	claimed, err := r.MarkUploading(ctx, id)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, r.SetProgress(ctx, id, 50))
	rec, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50, rec.UploadProgress)
}

func TestRename_OnlyBeforeUploadStarts(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := insertRecording(t, r, "one", []byte{1})
	require.NoError(t, r.Rename(ctx, id, "renamed"))

	rec, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", rec.Name)

	claimed, err := r.MarkUploading(ctx, id)
	require.NoError(t, err)
	require.True(t, claimed)

	assert.ErrorIs(t, r.Rename(ctx, id, "too late"), common.ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := insertRecording(t, r, "one", []byte{1})
	require.NoError(t, r.Delete(ctx, id))
	require.NoError(t, r.Delete(ctx, id))
	require.NoError(t, r.Delete(ctx, 999))
}

func TestResetInterrupted(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	idUploading := insertRecording(t, r, "interrupted", []byte{1})
	claimed, err := r.MarkUploading(ctx, idUploading)
	require.NoError(t, err)
	require.True(t, claimed)

	idFailed := insertRecording(t, r, "failed", []byte{2})
	claimed, err = r.MarkUploading(ctx, idFailed)
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, r.MarkFailed(ctx, idFailed, "boom"))

	insertRecording(t, r, "pending", []byte{3})

	n, err := r.ResetInterrupted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec, err := r.GetByID(ctx, idUploading)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, rec.UploadStatus)

	// failed stays failed: recovery never masks an attempted-and-rejected upload
	rec, err = r.GetByID(ctx, idFailed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, rec.UploadStatus)
}
