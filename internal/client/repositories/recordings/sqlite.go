package recordings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/client/models"
	"github.com/TravisBumgarner/just-recordings/internal/common"
	"github.com/TravisBumgarner/just-recordings/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.Recording) (int64, error) {
	query := `INSERT INTO recordings
			(name, payload, mime_type, duration_ms, byte_size, created_at, upload_status, upload_progress)
			VALUES (?, ?, ?, ?, ?, ?, 'pending', 0)`
	res, err := r.db.ExecContext(ctx, query,
		rec.Name, rec.Payload, rec.MimeType, rec.DurationMs, rec.ByteSize, rec.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to insert recording: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Recording, error) {
	query := `SELECT id, name, payload, mime_type, duration_ms, byte_size, created_at,
			upload_status, upload_progress, upload_error, server_id
			FROM recordings WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	rec := &models.Recording{}
	var createdAt int64
	err := row.Scan(&rec.ID, &rec.Name, &rec.Payload, &rec.MimeType, &rec.DurationMs,
		&rec.ByteSize, &createdAt, &rec.UploadStatus, &rec.UploadProgress,
		&rec.UploadError, &rec.ServerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return rec, nil
}

// GetAll lists queued recordings oldest first. Payload bytes stay in the
// store; only metadata columns are selected.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Recording, error) {
	query := `SELECT id, name, mime_type, duration_ms, byte_size, created_at,
			upload_status, upload_progress, upload_error, server_id
			FROM recordings ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select recordings: %w", err)
	}
	defer rows.Close()

	var result []models.Recording
	for rows.Next() {
		var item models.Recording
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.Name, &item.MimeType, &item.DurationMs,
			&item.ByteSize, &createdAt, &item.UploadStatus, &item.UploadProgress,
			&item.UploadError, &item.ServerID); err != nil {
			return nil, err
		}
		item.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) NextPending(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM recordings WHERE upload_status = 'pending' ORDER BY id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to select next pending recording: %w", err)
	}
	return id, nil
}

// MarkUploading claims a recording for an upload attempt. The status guard
// makes the claim atomic: two competing callers cannot both move the same
// id into uploading.
func (r *SQLiteRepository) MarkUploading(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recordings SET upload_status = 'uploading', upload_progress = 0, upload_error = ''
		WHERE id = ? AND upload_status IN ('pending', 'failed')`, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark recording uploading: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	// The uploading guard keeps a stale attempt from resurrecting a
	// recording that was cancelled while the attempt was in flight.
	_, err := r.db.ExecContext(ctx,
		`UPDATE recordings SET upload_status = 'failed', upload_error = ?
		WHERE id = ? AND upload_status = 'uploading'`, reason, id)
	if err != nil {
		return fmt.Errorf("failed to mark recording failed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetProgress(ctx context.Context, id int64, progress int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE recordings SET upload_progress = ? WHERE id = ? AND upload_status = 'uploading'`,
		progress, id)
	if err != nil {
		return fmt.Errorf("failed to set upload progress: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetServerID(ctx context.Context, id int64, serverID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE recordings SET server_id = ? WHERE id = ?`, serverID, id)
	if err != nil {
		return fmt.Errorf("failed to set server id: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recordings SET name = ? WHERE id = ? AND upload_status IN ('pending', 'failed')`,
		name, id)
	if err != nil {
		return fmt.Errorf("failed to rename recording: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ResetInterrupted(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recordings SET upload_status = 'pending', upload_progress = 0
		WHERE upload_status = 'uploading'`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset interrupted recordings: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra, nil
}
