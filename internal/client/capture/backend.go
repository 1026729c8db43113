// Package capture owns the recording state machine and fragment assembly.
// The platform capture API is abstracted behind Backend/Stream so the
// state machine is portable and testable without real capture hardware.
package capture

import (
	"context"
	"time"
)

// DefaultMimeType is the container negotiated when the requested type is
// unsupported by the backend.
const DefaultMimeType = "video/webm"

// DefaultFragmentInterval is how often a backend delivers a fragment
// while recording.
const DefaultFragmentInterval = time.Second

// Constraints describe the stream a caller wants from the backend.
type Constraints struct {
	MimeType         string
	FragmentInterval time.Duration
}

// Backend abstracts a platform capture API.
type Backend interface {
	// Supports reports whether the backend can record in mimeType.
	Supports(mimeType string) bool

	// Open acquires the capture source and starts fragment delivery.
	// Open failures mean permission denied or no source available.
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Stream is one live capture.
type Stream interface {
	// Fragments returns the channel fragments arrive on, in capture
	// order. The backend closes it after Stop has flushed the final
	// fragment. Implementations must close it even when Stop returns
	// an error, so that consumers never hang on a dead stream.
	Fragments() <-chan []byte

	// Pause suspends fragment delivery without dropping data.
	Pause() error

	// Resume restarts fragment delivery after Pause.
	Resume() error

	// Stop flushes the final fragment, closes the fragment channel and
	// releases the underlying capture resources. Resource release is
	// unconditional: it happens even when the flush fails.
	Stop() error
}
