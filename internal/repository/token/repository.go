package token

import (
	"context"
	"time"
)

// Token binds an opaque bearer token to a device.
type Token struct {
	Token     string
	DeviceID  string
	CreatedAt time.Time
}

// Repository persists device tokens. Get refreshes the last-seen time of the token.
type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
