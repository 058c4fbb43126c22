package proxypool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewNormalizesEndpointForms(t *testing.T) {
	p, err := New([]string{
		"proxy.example.com:8080",
		"proxy.example.com:8080:user:pass",
		"http://existing.example.com:3128",
	}, 3, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())
}

func TestNewRejectsInvalidEndpoint(t *testing.T) {
	_, err := New([]string{"not:a:valid:proxy:form:at:all"}, 3, time.Minute)
	require.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestNextRoundRobin(t *testing.T) {
	p, err := New([]string{"a.example.com:1", "b.example.com:1", "c.example.com:1"}, 3, time.Minute)
	require.NoError(t, err)

	first, err := p.Next()
	require.NoError(t, err)
	second, err := p.Next()
	require.NoError(t, err)
	third, err := p.Next()
	require.NoError(t, err)
	fourth, err := p.Next()
	require.NoError(t, err)

	require.NotEqual(t, first.URL, second.URL)
	require.NotEqual(t, second.URL, third.URL)
	require.Equal(t, first.URL, fourth.URL, "round robin should wrap back to the first endpoint")
}

func TestMarkFailureDeadensAfterThreshold(t *testing.T) {
	p, err := New([]string{"a.example.com:1", "b.example.com:1"}, 2, time.Hour)
	require.NoError(t, err)

	ep, err := p.Next()
	require.NoError(t, err)

	p.MarkFailure(ep)
	require.False(t, ep.Dead())
	p.MarkFailure(ep)
	require.True(t, ep.Dead(), "endpoint should be marked dead after reaching maxFailures")
}

func TestMarkSuccessResetsFailures(t *testing.T) {
	p, err := New([]string{"a.example.com:1"}, 2, time.Hour)
	require.NoError(t, err)

	ep, err := p.Next()
	require.NoError(t, err)

	p.MarkFailure(ep)
	p.MarkSuccess(ep)
	require.Equal(t, 0, ep.Failures())
	require.False(t, ep.Dead())
}

func TestNoEndpointsConfigured(t *testing.T) {
	p, err := New(nil, 3, time.Minute)
	require.NoError(t, err)
	_, err = p.Next()
	require.ErrorIs(t, err, ErrNoEndpointsConfigured)
}
