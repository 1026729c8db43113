package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"sync"

	clientauth "github.com/TravisBumgarner/just-recordings/internal/client/auth"
	"github.com/TravisBumgarner/just-recordings/internal/client/capture"
	"github.com/TravisBumgarner/just-recordings/internal/client/config"
	"github.com/TravisBumgarner/just-recordings/internal/client/models"
	"github.com/TravisBumgarner/just-recordings/internal/client/services"
	"github.com/TravisBumgarner/just-recordings/internal/client/storage"
	"github.com/TravisBumgarner/just-recordings/internal/client/upload"
	"github.com/TravisBumgarner/just-recordings/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	db       *sql.DB
	repos    *storage.Repositories
	session  *capture.Session
	uploader services.Uploader
	tokens   *clientauth.Provider
	log      logging.Logger
	reader   *bufio.Reader

	mu     sync.Mutex
	queued int
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, repos, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	tokens := clientauth.NewProvider(db, repos.Metadata)

	uploadClient := upload.NewClient(c.BackendBaseURL, upload.Options{
		UploadBase: c.UploadBaseURL,
		Timeout:    c.RequestTimeout,
		Tokens:     tokens,
		Logger:     logger,
	})

	uploader := services.NewUploader(repos.Recordings, uploadClient, logger, 0)
	session := capture.NewSession(capture.NewSyntheticBackend(0))

	app := &App{
		config:   c,
		db:       db,
		repos:    repos,
		session:  session,
		uploader: uploader,
		tokens:   tokens,
		log:      logger,
		reader:   bufio.NewReader(os.Stdin),
	}

	// the prompt reads the queue size from this snapshot instead of
	// hitting the database on every line
	uploader.OnQueueChange(func(queue []models.Recording) {
		app.mu.Lock()
		app.queued = len(queue)
		app.mu.Unlock()
	})

	return app, nil
}

func (a *App) queueSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queued
}

func (a *App) isLoggedIn() bool {
	_, ok := a.tokens.Token(context.Background())
	return ok
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if err := a.uploader.Initialize(ctx); err != nil {
		a.log.Error(ctx, "failed to recover upload queue", "error", err)
	}

	a.Root(ctx)
}
