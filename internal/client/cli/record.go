package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/TravisBumgarner/just-recordings/internal/client/capture"
)

// Record starts a new capture. Invalid while one is already active.
func (a *App) Record(ctx context.Context) error {
	err := a.session.Start(ctx, capture.Options{
		FragmentInterval: a.config.FragmentInterval,
	})
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Recording...")
	return nil
}

func (a *App) Pause(ctx context.Context) error {
	if err := a.session.Pause(); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Paused")
	return nil
}

func (a *App) Resume(ctx context.Context) error {
	if err := a.session.Resume(); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Recording...")
	return nil
}

// Stop finishes the active capture and hands the recording to the upload
// queue. With no name on the command line the user is prompted; an empty
// answer falls back to a timestamp-derived name.
func (a *App) Stop(ctx context.Context, name string) error {
	rec, err := a.session.Stop()
	if rec == nil {
		log.Println(err.Error())
		return err
	}
	if err != nil {
		// a failed final flush still yields the captured payload
		log.Printf("capture ended with error: %s", err.Error())
	}

	if name == "" {
		name, err = getSimpleText(a.reader, "Recording name (empty for default)", os.Stdout)
		if err != nil {
			name = ""
		}
	}
	if name == "" {
		name = "Recording " + rec.CreatedAt.Format("2006-01-02 15:04:05")
	}
	rec.Name = name

	id, err := a.uploader.Enqueue(ctx, rec)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Queued %q (#%d, %d bytes)\n", rec.Name, id, rec.ByteSize)
	return nil
}

// Discard finishes the active capture and throws the payload away.
func (a *App) Discard(ctx context.Context) error {
	if err := a.session.Cancel(); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Recording discarded")
	return nil
}
