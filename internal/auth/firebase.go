package auth

import (
	"context"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// FirebaseProvider verifies Firebase ID tokens and looks up Firebase users
type FirebaseProvider struct {
	client *firebaseauth.Client
}

func NewFirebaseProvider(client *firebaseauth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

// Verify checks the ID token signature, expiry and audience
func (p *FirebaseProvider) Verify(ctx context.Context, token string) (Identity, error) {
	t, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	identity := Identity{Subject: t.UID}
	if email, ok := t.Claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}

// EmailFor returns the primary email of a Firebase user
func (p *FirebaseProvider) EmailFor(ctx context.Context, subject string) (string, error) {
	user, err := p.client.GetUser(ctx, subject)
	if err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("firebase get user: %w", err)
	}
	if user.Email == "" {
		return "", ErrUnknownUser
	}
	return user.Email, nil
}
