// Package services contains the application services of the recordings
// client. This file defines the upload orchestrator: it drains the
// durable local queue, applies the retry policy and publishes
// queue-change notifications.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/client/models"
	"github.com/TravisBumgarner/just-recordings/internal/client/repositories/recordings"
	"github.com/TravisBumgarner/just-recordings/internal/client/upload"
	"github.com/TravisBumgarner/just-recordings/internal/common"
	"github.com/TravisBumgarner/just-recordings/internal/logging"
)

// UploadClient performs one full upload attempt for a recording.
// Each attempt restarts chunking from byte 0; there is no cross-attempt
// resume.
type UploadClient interface {
	Upload(ctx context.Context, rec *models.Recording, progress func(pct int)) (*upload.Registered, error)
}

// Uploader drives recordings from pending/failed to uploaded.
//
// Contract:
//   - Initialize: startup drain of pending work; failed recordings are
//     left for an explicit Retry, so a permanently broken upload cannot
//     hide behind restart thrash.
//   - Enqueue: persists the recording and uploads it in the background.
//   - Retry: re-attempts a failed recording, from scratch.
//   - Cancel: removes a recording no matter its status; a late result
//     from an in-flight attempt is discarded.
//   - Queue: everything not yet fully uploaded, oldest first.
//   - OnQueueChange: observer registration; fires immediately with the
//     current queue and again after every state-affecting event.
//
// Upload errors never escape Enqueue/Retry/Initialize; they end up in
// the recording's UploadError field.
type Uploader interface {
	Initialize(ctx context.Context) error
	Enqueue(ctx context.Context, rec *models.Recording) (int64, error)
	Retry(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	Queue(ctx context.Context) ([]models.Recording, error)
	OnQueueChange(fn func([]models.Recording)) func()
}

type queueSubscriber struct {
	id int
	fn func([]models.Recording)
}

// uploader processes the queue single-flight: one upload in flight at a
// time, chunks within it strictly sequential. Simplicity over
// throughput, deliberately.
type uploader struct {
	repo           recordings.Repository
	client         UploadClient
	log            logging.Logger
	attemptTimeout time.Duration

	mu         sync.Mutex
	processing bool
	retries    []int64 // ids already moved to uploading by Retry, served before pending
	nextSub    int
	subs       []queueSubscriber
}

// NewUploader constructs the orchestrator. attemptTimeout bounds one full
// upload attempt; zero means no bound.
func NewUploader(repo recordings.Repository, client UploadClient, log logging.Logger, attemptTimeout time.Duration) Uploader {
	return &uploader{
		repo:           repo,
		client:         client,
		log:            log,
		attemptTimeout: attemptTimeout,
	}
}

func (u *uploader) Initialize(ctx context.Context) error {
	// Recordings stuck in uploading belong to an uncleanly terminated
	// run. They never received an explicit failure, so they go back to
	// pending rather than failed.
	n, err := u.repo.ResetInterrupted(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover interrupted uploads: %w", err)
	}
	if n > 0 {
		u.log.Warn(ctx, "recovered interrupted uploads", "count", n)
	}

	u.notifyQueueChange()
	u.kick()
	return nil
}

func (u *uploader) Enqueue(ctx context.Context, rec *models.Recording) (int64, error) {
	id, err := u.repo.Insert(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue recording: %w", err)
	}
	u.log.Info(ctx, "recording enqueued", "id", id, "name", rec.Name, "bytes", rec.ByteSize)

	u.notifyQueueChange()
	u.kick()
	return id, nil
}

func (u *uploader) Retry(ctx context.Context, id int64) error {
	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.UploadStatus != models.StatusFailed {
		return fmt.Errorf("%w: recording %d is %s", common.ErrNotFailed, id, rec.UploadStatus)
	}

	claimed, err := u.repo.MarkUploading(ctx, id)
	if err != nil {
		return err
	}
	if !claimed {
		// lost a race with another transition
		return fmt.Errorf("%w: recording %d", common.ErrNotFailed, id)
	}

	u.mu.Lock()
	u.retries = append(u.retries, id)
	u.mu.Unlock()

	u.log.Info(ctx, "retrying upload", "id", id)
	u.notifyQueueChange()
	u.kick()
	return nil
}

func (u *uploader) Cancel(ctx context.Context, id int64) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}

	u.mu.Lock()
	for i, rid := range u.retries {
		if rid == id {
			u.retries = append(u.retries[:i], u.retries[i+1:]...)
			break
		}
	}
	u.mu.Unlock()

	// An in-flight attempt for this id keeps running; every write it
	// makes afterwards is keyed on the now-deleted row and lands on
	// nothing, so its late result cannot resurrect the recording.
	u.log.Info(ctx, "recording cancelled", "id", id)
	u.notifyQueueChange()
	return nil
}

func (u *uploader) Queue(ctx context.Context) ([]models.Recording, error) {
	return u.repo.GetAll(ctx)
}

func (u *uploader) OnQueueChange(fn func([]models.Recording)) func() {
	u.mu.Lock()
	id := u.nextSub
	u.nextSub++
	u.subs = append(u.subs, queueSubscriber{id: id, fn: fn})
	u.mu.Unlock()

	// late subscribers get the current state right away instead of
	// waiting for the next event
	if queue, err := u.repo.GetAll(context.Background()); err == nil {
		fn(queue)
	}

	return func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		for i, sub := range u.subs {
			if sub.id == id {
				u.subs = append(u.subs[:i], u.subs[i+1:]...)
				return
			}
		}
	}
}

func (u *uploader) notifyQueueChange() {
	ctx := context.Background()
	queue, err := u.repo.GetAll(ctx)
	if err != nil {
		u.log.Error(ctx, "failed to load queue for notification", "error", err)
		return
	}

	u.mu.Lock()
	subs := make([]queueSubscriber, len(u.subs))
	copy(subs, u.subs)
	u.mu.Unlock()

	for _, sub := range subs {
		sub.fn(queue)
	}
}

// kick starts the processing loop unless one is already running.
func (u *uploader) kick() {
	u.mu.Lock()
	if u.processing {
		u.mu.Unlock()
		return
	}
	u.processing = true
	u.mu.Unlock()

	go u.processLoop()
}

func (u *uploader) processLoop() {
	ctx := context.Background()
	for {
		id, ok := u.next(ctx)
		if !ok {
			u.mu.Lock()
			u.processing = false
			u.mu.Unlock()

			// an Enqueue may have slipped in between the empty scan and
			// the flag reset; re-kick rather than strand it
			if u.hasEligible(ctx) {
				u.kick()
			}
			return
		}
		u.attempt(ctx, id)
	}
}

// next pops the next eligible recording: explicit retries first, then the
// oldest pending one (claimed atomically).
func (u *uploader) next(ctx context.Context) (int64, bool) {
	u.mu.Lock()
	if len(u.retries) > 0 {
		id := u.retries[0]
		u.retries = u.retries[1:]
		u.mu.Unlock()
		return id, true
	}
	u.mu.Unlock()

	for {
		id, err := u.repo.NextPending(ctx)
		if err != nil {
			return 0, false
		}
		claimed, err := u.repo.MarkUploading(ctx, id)
		if err != nil {
			u.log.Error(ctx, "failed to claim recording", "id", id, "error", err)
			return 0, false
		}
		if claimed {
			u.notifyQueueChange()
			return id, true
		}
		// claimed elsewhere between the scan and the update; look again
	}
}

func (u *uploader) hasEligible(ctx context.Context) bool {
	u.mu.Lock()
	pendingRetries := len(u.retries)
	u.mu.Unlock()
	if pendingRetries > 0 {
		return true
	}
	_, err := u.repo.NextPending(ctx)
	return err == nil
}

// attempt runs one upload for an already-claimed recording and applies
// the outcome: delete on success, failed + captured error otherwise.
func (u *uploader) attempt(ctx context.Context, id int64) {
	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		// cancelled between claim and load
		return
	}

	attemptCtx := ctx
	cancel := func() {}
	if u.attemptTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, u.attemptTimeout)
	}
	defer cancel()

	registered, err := u.client.Upload(attemptCtx, rec, func(pct int) {
		if perr := u.repo.SetProgress(ctx, id, pct); perr != nil {
			u.log.Error(ctx, "failed to persist upload progress", "id", id, "error", perr)
			return
		}
		u.notifyQueueChange()
	})

	if err != nil {
		// recorded verbatim; recovery is an explicit Retry, never automatic
		if ferr := u.repo.MarkFailed(ctx, id, err.Error()); ferr != nil {
			u.log.Error(ctx, "failed to mark recording failed", "id", id, "error", ferr)
		}
		u.log.Warn(ctx, "upload failed", "id", id, "error", err)
		u.notifyQueueChange()
		return
	}

	// uploaded is terminal: record the server id for the log, then drop
	// the row. The queue only holds unfinished work.
	if serr := u.repo.SetServerID(ctx, id, registered.ID); serr != nil {
		u.log.Error(ctx, "failed to store server id", "id", id, "error", serr)
	}
	if derr := u.repo.Delete(ctx, id); derr != nil {
		u.log.Error(ctx, "failed to remove uploaded recording", "id", id, "error", derr)
		return
	}
	u.log.Info(ctx, "upload finished", "id", id, "serverId", registered.ID, "url", registered.VideoURL)
	u.notifyQueueChange()
}
