// Package auth supplies the backend bearer token consumed by the upload
// pipeline. Tokens are issued elsewhere; this package only caches and
// hands them out.
package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/client/repositories/metadata"
	"github.com/TravisBumgarner/just-recordings/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenKey        = "auth_token"
	tokenSavedAtKey = "auth_token_saved_at"
)

// Provider returns the cached backend token. A missing token is not an
// error: callers simply omit the Authorization header. Cached JWTs that
// are already expired are treated as absent so the pipeline fails with a
// clean 401 from the backend rather than a guaranteed-stale token.
type Provider struct {
	db   *sql.DB
	meta metadata.Repository
}

func NewProvider(db *sql.DB, meta metadata.Repository) *Provider {
	return &Provider{db: db, meta: meta}
}

// Token returns the cached token and whether one is available.
func (p *Provider) Token(ctx context.Context) (string, bool) {
	raw, err := p.meta.Get(ctx, tokenKey)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	token := string(raw)
	if expired(token) {
		return "", false
	}
	return token, true
}

// Save caches a token for subsequent backend calls. The token and its
// save timestamp land in a single transaction.
func (p *Provider) Save(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, tokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, tokenSavedAtKey, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// Clear removes the cached token and its timestamp.
func (p *Provider) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, tokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, tokenSavedAtKey)
	})
}

// expired reports whether token is a JWT with an exp claim in the past.
// Opaque (non-JWT) tokens and JWTs without exp pass through untouched;
// signature verification is the backend's job, not ours.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
