package device

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopfront/internal/domain"
	tokenrepo "shopfront/internal/repository/token"
)

// ErrInvalidToken is returned for unknown device tokens.
var ErrInvalidToken = domain.NewError(domain.KindUnauthorized, "invalid device token")

// Service registers devices and resolves their bearer tokens.
type Service struct {
	tokens tokenrepo.Repository
	logger *zap.Logger
}

func New(tokens tokenrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tokens: tokens, logger: logger}
}

// Registration is what a new device receives.
type Registration struct {
	DeviceID string `json:"deviceId"`
	Token    string `json:"token"`
}

// Issue registers a new device.
func (s *Service) Issue(ctx context.Context) (Registration, error) {
	tok, err := randomToken()
	if err != nil {
		return Registration{}, err
	}
	reg := Registration{DeviceID: uuid.NewString(), Token: tok}
	if err := s.tokens.Create(ctx, tokenrepo.Token{Token: reg.Token, DeviceID: reg.DeviceID}); err != nil {
		return Registration{}, err
	}
	s.logger.Info("device registered", zap.String("device_id", reg.DeviceID))
	return reg, nil
}

// Resolve returns the device a token belongs to.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	t, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return t.DeviceID, nil
}

// Revoke forgets a token.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if err := s.tokens.Delete(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
