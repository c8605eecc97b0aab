// Package identity verifies ID tokens issued by Firebase Auth.
package identity

import (
	"context"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"

	"shopfront/internal/domain"
)

// Claims is the identity carried by a verified token.
type Claims struct {
	UID   string
	Email string
	Name  string
}

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier checks ID tokens.
type Verifier struct {
	tokens tokenVerifier
}

// NewFirebase builds a verifier for the Firebase project.
func NewFirebase(ctx context.Context, projectID string) (*Verifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase auth")
	}
	return NewVerifier(client), nil
}

// NewVerifier wraps any ID token verifier.
func NewVerifier(tokens tokenVerifier) *Verifier {
	return &Verifier{tokens: tokens}
}

// Verify checks idToken and extracts its email and display name.
func (v *Verifier) Verify(ctx context.Context, idToken string) (Claims, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return Claims{}, domain.NewError(domain.KindUnauthorized, "id token is required")
	}
	token, err := v.tokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Claims{}, domain.WrapKind(domain.KindUnauthorized, err, "invalid id token")
	}
	c := Claims{
		UID:   strings.TrimSpace(token.UID),
		Email: stringClaim(token.Claims, "email"),
		Name:  stringClaim(token.Claims, "name"),
	}
	if c.Email == "" {
		return Claims{}, domain.NewError(domain.KindUnauthorized, "id token carries no email")
	}
	return c, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if raw, ok := claims[key]; ok {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
