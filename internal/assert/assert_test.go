package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotNilPassesOnValue(t *testing.T) {
	require.NotPanics(t, func() { NotNil(42) })
}

func TestNotNilPanicsOnNil(t *testing.T) {
	require.Panics(t, func() { NotNil(nil) })
}

func TestNotEmptyStrPassesOnNonEmpty(t *testing.T) {
	require.NotPanics(t, func() { NotEmptyStr("ok") })
}

func TestNotEmptyStrPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() { NotEmptyStr("") })
}
