package identity

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

type stubTokens struct {
	token *auth.Token
	err   error
}

func (s stubTokens) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return s.token, s.err
}

func TestVerifyExtractsClaims(t *testing.T) {
	v := NewVerifier(stubTokens{token: &auth.Token{UID: "u1", Claims: map[string]interface{}{
		"email": " ann@test ",
		"name":  "Ann Lee",
	}}})

	c, err := v.Verify(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, Claims{UID: "u1", Email: "ann@test", Name: "Ann Lee"}, c)
}

func TestVerifyFailuresAreUnauthorized(t *testing.T) {
	cases := map[string]struct {
		tokens stubTokens
		input  string
	}{
		"empty token":    {input: " "},
		"rejected token": {tokens: stubTokens{err: errors.New("expired")}, input: "tok"},
		"no email":       {tokens: stubTokens{token: &auth.Token{UID: "u1"}}, input: "tok"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewVerifier(tc.tokens).Verify(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
