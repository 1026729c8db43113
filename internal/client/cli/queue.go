package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/TravisBumgarner/just-recordings/internal/client/models"
	"github.com/TravisBumgarner/just-recordings/internal/common"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// List prints every recording not yet fully uploaded, oldest first.
func (a *App) List(ctx context.Context) error {
	queue, err := a.uploader.Queue(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(queue) == 0 {
		fmt.Println("Queue is empty")
		return nil
	}

	for _, rec := range queue {
		line := fmt.Sprintf("#%d  %s  %d bytes  %s", rec.ID, rec.Name, rec.ByteSize, rec.UploadStatus)
		switch rec.UploadStatus {
		case models.StatusUploading:
			line += fmt.Sprintf(" %d%%", rec.UploadProgress)
		case models.StatusFailed:
			if rec.UploadError != "" {
				line += ": " + rec.UploadError
			}
		}
		fmt.Println(line)
	}
	return nil
}

// Retry re-attempts a failed upload. Only failed recordings qualify.
func (a *App) Retry(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if err := a.uploader.Retry(ctx, id); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			log.Printf("recording %d not found", id)
		case errors.Is(err, common.ErrNotFailed):
			log.Printf("recording %d has not failed, nothing to retry", id)
		default:
			log.Println(err.Error())
		}
		return err
	}

	fmt.Printf("Retrying #%d\n", id)
	return nil
}

// Drop removes a recording from the queue regardless of its status.
func (a *App) Drop(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if err := a.uploader.Cancel(ctx, id); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Dropped #%d\n", id)
	return nil
}

// Rename changes a queued recording's name. Allowed only before its
// upload starts.
func (a *App) Rename(ctx context.Context, arg string, name string) error {
	id, err := parseID(arg)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if err := a.repos.Recordings.Rename(ctx, id, name); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			log.Printf("recording %d not found or already uploading", id)
		} else {
			log.Println(err.Error())
		}
		return err
	}

	fmt.Printf("Renamed #%d to %q\n", id, name)
	return nil
}
