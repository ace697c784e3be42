package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"palmnazi/internal/auth"
	"palmnazi/internal/domain"
)

const adminSubject = "admin"

// AdminAuth guards the back office with a single shared credential.
type AdminAuth struct {
	hash    string
	issuer  *auth.Issuer
	limiter *rate.Limiter
}

// NewAdminAuth accepts a bcrypt hash; when only a plain password is
// configured it is hashed once here. Both empty disables login.
func NewAdminAuth(hash, plain string, issuer *auth.Issuer, limiter *rate.Limiter) (*AdminAuth, error) {
	if hash == "" && plain != "" {
		h, err := auth.HashPassword(plain, 12)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(1), 5)
	}
	return &AdminAuth{hash: hash, issuer: issuer, limiter: limiter}, nil
}

func (a *AdminAuth) Login(_ context.Context, password string) (auth.Token, error) {
	if !a.limiter.Allow() {
		return auth.Token{}, ErrTooManyAttempts
	}
	if a.hash == "" || a.issuer == nil || !auth.VerifyPassword(a.hash, password) {
		log.Warn().Msg("admin login rejected")
		return auth.Token{}, domain.ErrUnauthorized
	}
	return a.issuer.Issue(adminSubject)
}

func (a *AdminAuth) Authenticate(_ context.Context, token string) error {
	if a.issuer == nil || token == "" {
		return domain.ErrUnauthorized
	}
	if _, err := a.issuer.Verify(token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return domain.ErrUnauthorized
		}
		return err
	}
	return nil
}
