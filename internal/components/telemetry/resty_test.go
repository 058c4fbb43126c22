package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type recordingAPI struct {
	debugs []string
	broken []string
}

func (r *recordingAPI) ReportBroken(id string, params ...any) { r.broken = append(r.broken, id) }
func (r *recordingAPI) ReportWarning(id string, params ...any) {}
func (r *recordingAPI) ReportDebug(msg string, params ...any)  { r.debugs = append(r.debugs, msg) }
func (r *recordingAPI) ReportCount(id string, count int64)     {}

var _ API = (*recordingAPI)(nil)

func TestInstrumentRestyRecordsRequestAndResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	rec := &recordingAPI{}
	client := resty.New()
	InstrumentResty(client, rec)

	res, err := client.R().Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, 200, res.StatusCode())

	require.Contains(t, rec.debugs, report_resty_request)
	require.Contains(t, rec.debugs, report_resty_response)
}

func TestInstrumentRestyRecordsBrokenOnTransportError(t *testing.T) {
	rec := &recordingAPI{}
	client := resty.New()
	InstrumentResty(client, rec)

	_, err := client.R().Get("http://127.0.0.1:0")
	require.Error(t, err)
	require.Contains(t, rec.broken, report_resty_response)
}
