package telemetry

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func withCapturedSlog(t *testing.T, level slog.Level, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	defer slog.SetDefault(prev)

	fn()
	return buf.String()
}

func TestSlogAPIReportBrokenLogsAtError(t *testing.T) {
	out := withCapturedSlog(t, slog.LevelError, func() {
		SlogAPI{}.ReportBroken("collector.search")
	})

	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "id=collector.search")
}

func TestSlogAPIReportWarningLogsAtWarn(t *testing.T) {
	out := withCapturedSlog(t, slog.LevelWarn, func() {
		SlogAPI{}.ReportWarning("pipeline.outcome", "detail", "403")
	})

	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "id=pipeline.outcome")
	require.Contains(t, out, "params.0=detail")
	require.Contains(t, out, "params.1=403")
}

func TestSlogAPIReportCountLogsIDAndValue(t *testing.T) {
	out := withCapturedSlog(t, slog.LevelInfo, func() {
		SlogAPI{}.ReportCount("pipeline.pages-fetched", 7)
	})

	require.Contains(t, out, "id=pipeline.pages-fetched")
	require.Contains(t, out, "n=7")
}
