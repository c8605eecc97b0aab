package seed

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shopfront/internal/domain"
	"shopfront/internal/kvstore"
	tokenrepo "shopfront/internal/repository/token"
	"shopfront/internal/session"
)

// Device is a fixed device registration for manual testing.
type Device struct {
	ID          string
	Token       string
	Preferences session.Preferences
}

// Demo is the device seeded by default.
var Demo = Device{
	ID:    "00000000-0000-4000-8000-000000000001",
	Token: "demo-device-token",
	Preferences: session.Preferences{
		Currency:     "EUR",
		Language:     "Deutsch",
		LanguageCode: "de",
	},
}

// Apply registers the devices and stores their preferences. It is idempotent.
func Apply(ctx context.Context, tokens tokenrepo.Repository, store kvstore.Store, logger *zap.Logger, devices ...Device) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, d := range devices {
		err := tokens.Create(ctx, tokenrepo.Token{Token: d.Token, DeviceID: d.ID})
		if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			return errors.Wrapf(err, "register device %s", d.ID)
		}
		sess, err := session.Load(ctx, store, d.ID, logger)
		if err != nil {
			return errors.Wrapf(err, "load session %s", d.ID)
		}
		seen := true
		if err := sess.SetPreferences(ctx, d.Preferences); err != nil {
			return errors.Wrapf(err, "store preferences %s", d.ID)
		}
		if err := sess.SetFlags(ctx, session.Flags{OnboardingSeen: &seen}); err != nil {
			return errors.Wrapf(err, "store flags %s", d.ID)
		}
		logger.Info("device seeded", zap.String("device_id", d.ID))
	}
	return nil
}
