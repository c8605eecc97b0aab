package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{MaxConnLifetime: time.Hour}.withDefaults()

	assert.Equal(t, defaultIdleTime, o.MaxConnIdleTime)
	assert.Equal(t, time.Hour, o.MaxConnLifetime)
	assert.Equal(t, defaultPingTimeout, o.PingTimeout)
	assert.Equal(t, 1, o.Attempts)
}

func TestConnectRejectsBadDSN(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", nil, Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse db dsn")
}

func TestConnectGivesUpAfterAttempts(t *testing.T) {
	// Nothing listens on port 1.
	dsn := "postgres://shopfront@127.0.0.1:1/shopfront?sslmode=disable&connect_timeout=1"

	_, err := Connect(context.Background(), dsn, nil, Options{Attempts: 2, RetryDelay: 10 * time.Millisecond, PingTimeout: time.Second})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping db after 2 attempts")
}
