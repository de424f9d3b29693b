// Package auth validates bearer tokens against the identity provider.
package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnknownUser  = errors.New("user not known to identity provider")
)

// Identity is the authenticated principal behind a token. Subject is treated
// as an opaque user id.
type Identity struct {
	Subject string
	Email   string
}

// Provider validates tokens issued by an identity provider
type Provider interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Directory resolves a subject to a contact address
type Directory interface {
	EmailFor(ctx context.Context, subject string) (string, error)
}
