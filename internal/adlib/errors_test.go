package adlib

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimitedErrorUnwrapsToSentinel(t *testing.T) {
	err := &RateLimitedError{RetryAfter: 5 * time.Second}
	require.ErrorIs(t, err, ErrRateLimited)
	require.Contains(t, err.Error(), "5s")
}

func TestInvalidParameterErrorCarriesField(t *testing.T) {
	err := &InvalidParameterError{Field: "ad_type", Value: "BOGUS", Allowed: []string{"ALL", "POLITICAL_AND_ISSUE_ADS"}}
	require.ErrorIs(t, err, ErrInvalidParameter)

	var target *InvalidParameterError
	require.True(t, errors.As(err, &target))
	require.Equal(t, "ad_type", target.Field)
}

func TestProtocolErrorTruncatesLongBody(t *testing.T) {
	body := make([]byte, 1024)
	for i := range body {
		body[i] = 'x'
	}
	err := &ProtocolError{Body: body, Err: errors.New("bad json")}
	require.ErrorIs(t, err, ErrProtocolError)
	require.Contains(t, err.Error(), "bad json")
	require.Contains(t, err.Error(), string(body[:512]))
	require.NotContains(t, err.Error(), string(body[:513]))
}

func TestNetworkErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := &NetworkError{Cause: cause}
	require.ErrorIs(t, err, ErrNetworkError)
	require.Contains(t, err.Error(), "connection reset")
}
