package events

import (
	"testing"

	"adlibrary-collector/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

type fakeTelemetry struct {
	warnings []string
}

func (f *fakeTelemetry) ReportBroken(id string, params ...any)  {}
func (f *fakeTelemetry) ReportWarning(id string, params ...any) { f.warnings = append(f.warnings, id) }
func (f *fakeTelemetry) ReportDebug(msg string, params ...any)  {}
func (f *fakeTelemetry) ReportCount(id string, count int64)     {}

var _ telemetry.API = (*fakeTelemetry)(nil)

func TestEmitDispatchesInRegistrationOrder(t *testing.T) {
	e := New(&fakeTelemetry{})
	var order []int

	e.On(AdCollected, func(Event) { order = append(order, 1) })
	e.On(AdCollected, func(Event) { order = append(order, 2) })

	e.Emit(AdCollected, nil)

	require.Equal(t, []int{1, 2}, order)
}

func TestEmitIsolatesPanickingListener(t *testing.T) {
	tel := &fakeTelemetry{}
	e := New(tel)

	var secondRan bool
	e.On(AdCollected, func(Event) { panic("boom") })
	e.On(AdCollected, func(Event) { secondRan = true })

	require.NotPanics(t, func() { e.Emit(AdCollected, nil) })
	require.True(t, secondRan, "a panicking listener must not prevent later listeners from running")
	require.NotEmpty(t, tel.warnings)
}

func TestHasListeners(t *testing.T) {
	e := New(&fakeTelemetry{})
	require.False(t, e.HasListeners(AdCollected))
	e.On(AdCollected, func(Event) {})
	require.True(t, e.HasListeners(AdCollected))
	require.Equal(t, 1, e.ListenerCount(AdCollected))
}
