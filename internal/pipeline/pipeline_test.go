package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyBodyStripsJSONPGuard(t *testing.T) {
	body := []byte(`for (;;);{"data":{"foo":"bar"}}`)
	outcome, err := classifyBody(body)
	require.NoError(t, err)
	require.False(t, outcome.RateLimited)
	require.False(t, outcome.SessionExpired)
	require.JSONEq(t, `{"foo":"bar"}`, string(outcome.Data))
}

func TestClassifyBodyRateLimitByCode(t *testing.T) {
	body := []byte(`{"errors":[{"code":1675004,"message":"too many requests"}]}`)
	outcome, err := classifyBody(body)
	require.NoError(t, err)
	require.True(t, outcome.RateLimited)
}

func TestClassifyBodyRateLimitByMessage(t *testing.T) {
	body := []byte(`{"errors":[{"code":999,"message":"you have hit a rate limit"}]}`)
	outcome, err := classifyBody(body)
	require.NoError(t, err)
	require.True(t, outcome.RateLimited)
}

func TestClassifyBodySessionExpired(t *testing.T) {
	body := []byte(`{"errors":[{"code":1357004,"message":"bad"}]}`)
	outcome, err := classifyBody(body)
	require.NoError(t, err)
	require.True(t, outcome.SessionExpired)
}

func TestClassifyBodyProtocolErrorOnGarbage(t *testing.T) {
	_, err := classifyBody([]byte(`not json at all`))
	require.Error(t, err)
}

func TestClassifyBodyProtocolErrorOnMissingData(t *testing.T) {
	_, err := classifyBody([]byte(`{"data":null}`))
	require.Error(t, err)
}

func TestEncodeRequestIDBase36(t *testing.T) {
	require.Equal(t, "0", encodeRequestID(0))
	require.Equal(t, "9", encodeRequestID(9))
	require.Equal(t, "a", encodeRequestID(10))
	require.Equal(t, "z", encodeRequestID(35))
	require.Equal(t, "10", encodeRequestID(36))
}

func TestGenerateShortIDShape(t *testing.T) {
	id := generateShortID()
	require.Len(t, id, 20) // 6 + 1 + 6 + 1 + 6
	require.Equal(t, byte(':'), id[6])
	require.Equal(t, byte(':'), id[13])
}
