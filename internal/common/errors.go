// Package common defines shared constants and sentinel errors used across
// the recording pipeline. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Capture session errors. These represent programmer or permission
	// errors and are surfaced synchronously to the caller.
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrCaptureUnavailable = errors.New("capture source unavailable")

	// Upload protocol errors. Caught at the orchestrator boundary and
	// recorded on the recording itself, never propagated further.
	ErrTicketRequest = errors.New("upload ticket request failed")
	ErrChunkUpload   = errors.New("chunk upload failed")
	ErrRegistration  = errors.New("recording registration failed")
	ErrEmptyPayload  = errors.New("no chunks to upload")

	// Orchestrator errors.
	ErrNotFailed = errors.New("recording is not in failed status")
)
