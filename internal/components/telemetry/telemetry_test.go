package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type spyAPI struct {
	broken   []string
	warnings []string
	debugs   []string
	counts   map[string]int64
}

func newSpyAPI() *spyAPI {
	return &spyAPI{counts: map[string]int64{}}
}

func (s *spyAPI) ReportBroken(id string, params ...any)  { s.broken = append(s.broken, id) }
func (s *spyAPI) ReportWarning(id string, params ...any) { s.warnings = append(s.warnings, id) }
func (s *spyAPI) ReportDebug(msg string, params ...any)  { s.debugs = append(s.debugs, msg) }
func (s *spyAPI) ReportCount(id string, count int64)     { s.counts[id] = count }

var _ API = (*spyAPI)(nil)

func TestScopedAPIPrefixesReportBroken(t *testing.T) {
	spy := newSpyAPI()
	scoped := NewScopedAPI("collector", spy)

	scoped.ReportBroken("search")

	require.Equal(t, []string{"collector: search"}, spy.broken)
}

func TestScopedAPIPrefixesAllMethods(t *testing.T) {
	spy := newSpyAPI()
	scoped := NewScopedAPI("pipeline", spy)

	scoped.ReportWarning("rate-limited")
	scoped.ReportDebug("retrying")
	scoped.ReportCount("pages-fetched", 5)

	require.Equal(t, []string{"pipeline: rate-limited"}, spy.warnings)
	require.Equal(t, []string{"pipeline: retrying"}, spy.debugs)
	require.Equal(t, int64(5), spy.counts["pipeline: pages-fetched"])
}
