package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/kvstore"
	tokenrepo "shopfront/internal/repository/token"
	"shopfront/internal/session"
)

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tokens := tokenrepo.NewMemory()
	store := kvstore.NewMemory()

	require.NoError(t, Apply(ctx, tokens, store, nil, Demo))
	require.NoError(t, Apply(ctx, tokens, store, nil, Demo))

	tok, err := tokens.Get(ctx, Demo.Token)
	require.NoError(t, err)
	assert.Equal(t, Demo.ID, tok.DeviceID)

	sess, err := session.Load(ctx, store, Demo.ID, nil)
	require.NoError(t, err)
	st := sess.Snapshot()
	assert.Equal(t, "EUR", st.Currency)
	assert.Equal(t, "de", st.LanguageCode)
	assert.True(t, st.OnboardingSeen)
	assert.False(t, st.LoggedIn)
}
