package recordings

import (
	"context"

	"github.com/TravisBumgarner/just-recordings/internal/client/models"
)

// Repository is the durable local queue of not-yet-uploaded recordings.
// Implementations must persist the full payload with the row: a recording
// visible through GetAll always has its payload resident in the store, and
// Delete removes both immediately (no tombstones).
type Repository interface {
	// Insert persists a new recording, assigns its id and defaults the
	// status to pending. The recording is recoverable after a crash as
	// soon as Insert returns.
	Insert(ctx context.Context, rec *models.Recording) (int64, error)

	// GetByID returns one recording with its payload.
	// Returns common.ErrNotFound if the id does not exist.
	GetByID(ctx context.Context, id int64) (*models.Recording, error)

	// GetAll lists every queued recording, oldest insertion first.
	// Payload bytes are not loaded.
	GetAll(ctx context.Context) ([]models.Recording, error)

	// NextPending returns the id of the oldest pending recording,
	// or common.ErrNotFound if none are pending.
	NextPending(ctx context.Context) (int64, error)

	// MarkUploading transitions a recording to uploading with progress 0
	// and a cleared error. Only pending and failed recordings are
	// eligible; the returned bool reports whether the claim succeeded.
	MarkUploading(ctx context.Context, id int64) (bool, error)

	// MarkFailed records the failure reason on a recording that is
	// currently uploading. A recording deleted mid-flight is left alone.
	MarkFailed(ctx context.Context, id int64, reason string) error

	// SetProgress updates the 0–100 upload progress.
	SetProgress(ctx context.Context, id int64, progress int) error

	// SetServerID stores the backend-assigned identifier.
	SetServerID(ctx context.Context, id int64, serverID string) error

	// Rename changes the display name. Valid only before the upload
	// starts, i.e. while the status is pending or failed.
	Rename(ctx context.Context, id int64, name string) error

	// Delete removes the recording and its payload. Deleting a missing
	// id is not an error.
	Delete(ctx context.Context, id int64) error

	// ResetInterrupted flips recordings stuck in uploading (left behind
	// by an uncleanly terminated run) back to pending and returns how
	// many rows were affected.
	ResetInterrupted(ctx context.Context) (int64, error)
}
