package device

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
	tokenrepo "shopfront/internal/repository/token"
)

func TestIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	svc := New(tokenrepo.NewMemory(), nil)

	reg, err := svc.Issue(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(reg.DeviceID)
	require.NoError(t, err)
	assert.Len(t, reg.Token, 43)

	deviceID, err := svc.Resolve(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.DeviceID, deviceID)

	other, err := svc.Issue(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, reg.Token, other.Token)
}

func TestResolveUnknownToken(t *testing.T) {
	svc := New(tokenrepo.NewMemory(), nil)

	_, err := svc.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc := New(tokenrepo.NewMemory(), nil)
	reg, err := svc.Issue(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, reg.Token))

	_, err = svc.Resolve(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
