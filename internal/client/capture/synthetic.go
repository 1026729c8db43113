package capture

import (
	"context"
	"sync"
	"time"
)

// SyntheticBackend produces deterministic fragments on a timer. It stands
// in for a platform capture API so the CLI runs end-to-end, and doubles
// as the reference Backend implementation.
type SyntheticBackend struct {
	fragmentSize int
}

func NewSyntheticBackend(fragmentSize int) *SyntheticBackend {
	if fragmentSize <= 0 {
		fragmentSize = 16 * 1024
	}
	return &SyntheticBackend{fragmentSize: fragmentSize}
}

func (b *SyntheticBackend) Supports(mimeType string) bool {
	return mimeType == DefaultMimeType
}

func (b *SyntheticBackend) Open(ctx context.Context, c Constraints) (Stream, error) {
	st := &syntheticStream{
		interval:     c.FragmentInterval,
		fragmentSize: b.fragmentSize,
		fragments:    make(chan []byte, 64),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go st.run()
	return st, nil
}

type syntheticStream struct {
	interval     time.Duration
	fragmentSize int
	fragments    chan []byte
	stop         chan struct{}
	done         chan struct{}

	mu      sync.Mutex
	paused  bool
	stopped bool
	seq     byte
}

func (st *syntheticStream) Fragments() <-chan []byte {
	return st.fragments
}

func (st *syntheticStream) Pause() error {
	st.mu.Lock()
	st.paused = true
	st.mu.Unlock()
	return nil
}

func (st *syntheticStream) Resume() error {
	st.mu.Lock()
	st.paused = false
	st.mu.Unlock()
	return nil
}

func (st *syntheticStream) Stop() error {
	st.mu.Lock()
	if st.stopped {
		st.mu.Unlock()
		return nil
	}
	st.stopped = true
	st.mu.Unlock()

	close(st.stop)
	<-st.done
	return nil
}

func (st *syntheticStream) run() {
	ticker := time.NewTicker(st.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st.mu.Lock()
			paused := st.paused
			st.mu.Unlock()
			if paused {
				continue
			}
			st.emit()
		case <-st.stop:
			// final flush before the channel closes
			st.emit()
			close(st.fragments)
			close(st.done)
			return
		}
	}
}

// emit sends one fragment filled with a rolling sequence byte, so tests
// can verify ordering and loss-free assembly.
func (st *syntheticStream) emit() {
	st.mu.Lock()
	seq := st.seq
	st.seq++
	st.mu.Unlock()

	fragment := make([]byte, st.fragmentSize)
	for i := range fragment {
		fragment[i] = seq
	}

	select {
	case st.fragments <- fragment:
	default:
		// consumer fell behind the buffer; drop rather than block the timer
	}
}
