// Package models defines client-side data models used by the recordings CLI.
package models

import "time"

// UploadStatus tracks a recording's position in the upload lifecycle.
// Valid transitions: pending → uploading → uploaded or failed, and
// failed → uploading on an explicit retry. Uploaded recordings are
// removed from the local queue immediately, so the status never rests
// at StatusUploaded in the store.
type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusUploaded  UploadStatus = "uploaded"
	StatusFailed    UploadStatus = "failed"
)

// Recording is a finished capture persisted locally until it has been
// uploaded and registered with the backend.
type Recording struct {
	// ID is assigned by the local store on first insert and never reused.
	// It is zero for a recording that has not been persisted yet.
	ID int64

	// Name is the human label. Mutable until the upload starts.
	Name string

	// Payload holds the assembled media bytes. List queries leave it nil;
	// it is only loaded when a single recording is fetched by id.
	Payload []byte

	// MimeType is the negotiated container type, fixed at capture completion.
	MimeType string

	// DurationMs is the wall-clock capture length in milliseconds.
	DurationMs int64

	// ByteSize is the payload length, kept alongside the row so lists
	// do not need to load the payload.
	ByteSize int64

	// CreatedAt is the capture completion time in UTC.
	CreatedAt time.Time

	UploadStatus UploadStatus

	// UploadProgress is a 0–100 percentage, meaningful only while uploading.
	UploadProgress int

	// UploadError holds the last failure reason, empty unless failed.
	UploadError string

	// ServerID is the backend-assigned identifier, set only after
	// successful registration.
	ServerID string
}
