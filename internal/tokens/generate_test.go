package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateDatrLength(t *testing.T) {
	v, err := generateDatr()
	require.NoError(t, err)
	require.Len(t, v, 24)
}

func TestGenerateLSDLengthRange(t *testing.T) {
	for i := 0; i < 20; i++ {
		v, err := generateLSD()
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(v), 8)
		require.LessOrEqual(t, len(v), 12)
	}
}

func TestGenerateFbDtsgLengthRange(t *testing.T) {
	for i := 0; i < 20; i++ {
		v, err := generateFbDtsg()
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(v), 20)
		require.LessOrEqual(t, len(v), 40)
	}
}

func TestCalculateJazoestIsDeterministic(t *testing.T) {
	lsd := "abc123"
	require.Equal(t, calculateJazoest(lsd), calculateJazoest(lsd))
	require.Equal(t, "446", calculateJazoest(lsd))
}
