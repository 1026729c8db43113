package capture

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/client/models"
	"github.com/TravisBumgarner/just-recordings/internal/common"
)

// State is the capture session's state machine position.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
)

// Options configure one recording.
type Options struct {
	// MimeType is the requested container. Falls back to DefaultMimeType
	// when empty or unsupported by the backend.
	MimeType string

	// FragmentInterval overrides DefaultFragmentInterval when positive.
	FragmentInterval time.Duration
}

type subscriber struct {
	id int
	fn func(State)
}

// Session is the per-recording state machine. One session serves many
// consecutive recordings; only one recording is active at a time, and
// starting while one is active is an invalid transition, not a queueing
// request.
type Session struct {
	backend Backend

	mu        sync.Mutex
	state     State
	stream    Stream
	mimeType  string
	fragments [][]byte
	startedAt time.Time
	drained   chan struct{}

	nextSub int
	subs    []subscriber
}

func NewSession(backend Backend) *Session {
	return &Session{backend: backend, state: StateIdle}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer for state changes. Observers are
// notified synchronously, in registration order. The returned function
// removes exactly this registration.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) notify(state State) {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}

// Start negotiates a mime type, opens the capture stream and moves to
// recording. Valid only from idle. Observers are notified only after the
// stream is confirmed open, never before.
func (s *Session) Start(ctx context.Context, opts Options) error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot start while %s", common.ErrInvalidTransition, state)
	}

	mimeType := opts.MimeType
	if mimeType == "" || !s.backend.Supports(mimeType) {
		mimeType = DefaultMimeType
	}
	interval := opts.FragmentInterval
	if interval <= 0 {
		interval = DefaultFragmentInterval
	}

	stream, err := s.backend.Open(ctx, Constraints{MimeType: mimeType, FragmentInterval: interval})
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", common.ErrCaptureUnavailable, err)
	}

	s.stream = stream
	s.mimeType = mimeType
	s.fragments = nil
	s.startedAt = time.Now()
	s.drained = make(chan struct{})
	s.state = StateRecording
	go s.drain(stream, s.drained)
	s.mu.Unlock()

	s.notify(StateRecording)
	return nil
}

// drain appends fragments in arrival order until the backend closes the
// channel after the final flush.
func (s *Session) drain(stream Stream, done chan struct{}) {
	for fragment := range stream.Fragments() {
		if len(fragment) == 0 {
			continue
		}
		s.mu.Lock()
		s.fragments = append(s.fragments, fragment)
		s.mu.Unlock()
	}
	close(done)
}

// Pause suspends fragment delivery. Valid only while recording.
func (s *Session) Pause() error {
	s.mu.Lock()
	if s.state != StateRecording {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot pause while %s", common.ErrInvalidTransition, state)
	}
	if err := s.stream.Pause(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = StatePaused
	s.mu.Unlock()

	s.notify(StatePaused)
	return nil
}

// Resume restarts fragment delivery. Valid only while paused.
func (s *Session) Resume() error {
	s.mu.Lock()
	if s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot resume while %s", common.ErrInvalidTransition, state)
	}
	if err := s.stream.Resume(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = StateRecording
	s.mu.Unlock()

	s.notify(StateRecording)
	return nil
}

// Stop flushes and assembles the recording, releases the capture source
// and resets to idle. The returned recording is valid even when err is
// non-nil: a failed final flush still yields whatever was captured, and
// the session always lands back in idle.
func (s *Session) Stop() (*models.Recording, error) {
	stopErr, err := s.finish()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	payload := bytes.Join(s.fragments, nil)
	duration := time.Since(s.startedAt)
	mimeType := s.mimeType
	s.reset()
	s.mu.Unlock()

	s.notify(StateIdle)

	rec := &models.Recording{
		Payload:    payload,
		MimeType:   mimeType,
		DurationMs: duration.Milliseconds(),
		ByteSize:   int64(len(payload)),
		CreatedAt:  time.Now().UTC(),
	}
	return rec, stopErr
}

// Cancel is Stop without a result: the captured payload is discarded,
// resources are still released and the session returns to idle.
func (s *Session) Cancel() error {
	stopErr, err := s.finish()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.reset()
	s.mu.Unlock()

	s.notify(StateIdle)
	return stopErr
}

// finish validates the transition, stops the stream and waits for the
// drain goroutine to consume the final fragment. The first return value
// is the stream's stop error, the second an invalid-transition error.
func (s *Session) finish() (error, error) {
	s.mu.Lock()
	if s.state != StateRecording && s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot stop while %s", common.ErrInvalidTransition, state)
	}
	stream := s.stream
	drained := s.drained
	s.mu.Unlock()

	stopErr := stream.Stop()
	<-drained
	return stopErr, nil
}

// reset clears per-recording state. Callers hold s.mu.
func (s *Session) reset() {
	s.state = StateIdle
	s.stream = nil
	s.mimeType = ""
	s.fragments = nil
	s.startedAt = time.Time{}
	s.drained = nil
}
