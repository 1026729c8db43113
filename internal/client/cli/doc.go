// Package cli provides the interactive recordings command-line client.
//
// It wires configuration, the local upload queue, the capture session and
// an interactive REPL. Typical flow: recover interrupted uploads, start
// capturing, stop to queue the recording, watch the queue drain in the
// background.
//
// Key features:
//   - Record / Pause / Resume / Stop / Cancel a capture
//   - Queue listing with per-recording upload progress
//   - Retry failed uploads, drop or rename queued recordings
//   - Login / Logout (stores the backend API token locally)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
