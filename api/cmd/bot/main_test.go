package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetryDelayFromError(t *testing.T) {
	require.Zero(t, retryDelayFromError(nil))
	require.Equal(t, 7*time.Second, retryDelayFromError(errors.New("Too Many Requests: retry after 7")))
	require.Equal(t, 3*time.Second, retryDelayFromError(errors.New("too many requests")))
	require.Equal(t, 2*time.Second, retryDelayFromError(timeoutErr{}))
	require.Equal(t, time.Second, retryDelayFromError(errors.New("bad gateway")))
}

func TestShortHashHidesToken(t *testing.T) {
	h := shortHash("123456:secret-token")
	require.NotContains(t, h, "secret")
	require.Equal(t, h, shortHash("123456:secret-token"))
	require.NotEqual(t, h, shortHash("123456:other-token"))
}
