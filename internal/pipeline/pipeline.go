// Package pipeline issues GraphQL POSTs against the search/typeahead
// endpoints, classifying each response per §4.3's outcome table and
// driving retry, refresh, or propagation accordingly.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"adlibrary-collector/internal/components/telemetry"
	"adlibrary-collector/internal/proxypool"
	"adlibrary-collector/internal/session"

	"github.com/go-resty/resty/v2"
)

const graphqlURL = "https://www.facebook.com/api/graphql/"

const (
	reportRequest = "pipeline.request"
	reportOutcome = "pipeline.outcome"
)

// RefresherFunc re-bootstraps a session in place, used when the pipeline
// needs a fresh lsd/jazoest/etc. after a 403.
type RefresherFunc func(ctx context.Context) error

// Config bounds retries/backoff/rate limiting at the single-call level.
// The separate cap on consecutive session-refresh failures before a
// collection run gives up as fatal lives one layer up, in adlib.Config, since
// that is the layer that owns the refresh-and-retry loop for a body-level
// session-expiry marker; this Config's refresh-related behavior is limited
// to handle403's single inline refresh-and-retry on an HTTP 403.
type Config struct {
	MaxRetries     int
	RetryDelay     time.Duration
	RateLimitDelay time.Duration
	Jitter         time.Duration
}

// DefaultConfig matches this domain's hardcoded retry/backoff defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
		RateLimitDelay: 2 * time.Second,
		Jitter:         1 * time.Second,
	}
}

// Pipeline dispatches one GraphQL call at a time against a single session,
// optionally rotating through a proxy pool on 5xx/connection failures.
type Pipeline struct {
	sess    *session.Session
	pool    *proxypool.Pool
	cfg     Config
	tel     telemetry.API
	refresh RefresherFunc

	counter int

	lastRequestAt time.Time
	currentProxy  *proxypool.Endpoint
}

// New constructs a Pipeline bound to one session. pool may be nil (no
// proxy rotation).
func New(sess *session.Session, pool *proxypool.Pool, cfg Config, tel telemetry.API, refresh RefresherFunc) *Pipeline {
	return &Pipeline{
		sess:    sess,
		pool:    pool,
		cfg:     cfg,
		tel:     telemetry.NewScopedAPI("pipeline", tel),
		refresh: refresh,
	}
}

// Outcome is the classified result of one GraphQL call.
type Outcome struct {
	Data         json.RawMessage
	RateLimited  bool
	RetryAfter   time.Duration
	SessionExpired bool
}

// encodeRequestID renders the monotonically increasing request counter in
// base-36, per §4.3.
func encodeRequestID(counter int) string {
	if counter < 10 {
		return strconv.Itoa(counter)
	}
	const chars = "0123456789abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	digits := []byte{}
	for counter > 0 {
		digits = append(digits, chars[counter%36])
		counter /= 36
	}
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
	}
	return b.String()
}

func generateShortID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	part := func() string {
		b := make([]byte, 6)
		for i := range b {
			b[i] = alphabet[rand.Intn(len(alphabet))]
		}
		return string(b)
	}
	return part() + ":" + part() + ":" + part()
}

// buildPayload assembles the form-urlencoded field set for one GraphQL
// call: every stored body token plus the fixed caller-class/friendly-name
// fields and the base-36 request counter. The stored "v" and "x-asbd-id"
// values travel in the variables and headers instead.
func (p *Pipeline) buildPayload(docID string, variables any, friendlyName string) (map[string]string, error) {
	p.counter++

	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("marshal variables: %w", err)
	}

	tok := p.sess.Tokens
	lsd := tok.LSD()
	jazoest, _ := tok.Get("jazoest")

	payload := map[string]string{
		"av":                        "0",
		"__aaid":                    "0",
		"__user":                    "0",
		"__a":                       "1",
		"__req":                     encodeRequestID(p.counter),
		"dpr":                       "1",
		"__ccg":                     "GOOD",
		"__s":                       generateShortID(),
		"__jssesw":                  "1",
		"lsd":                       lsd,
		"jazoest":                   jazoest,
		"fb_api_caller_class":       "RelayModern",
		"fb_api_req_friendly_name":  friendlyName,
		"server_timestamps":        "true",
		"variables":                 string(variablesJSON),
		"doc_id":                    docID,
	}
	for _, k := range []string{"fb_dtsg", "__hs", "__rev", "__hsi", "__comet_req", "__spin_r", "__spin_b", "__spin_t", "__dyn", "__csr", "__hsdp", "__hblp"} {
		if v, ok := tok.Get(k); ok {
			payload[k] = v
		}
	}

	return payload, nil
}

// Dispatch issues one GraphQL call, applying the outcome-classification
// table from §4.3: success returns the data envelope; a rate-limit body
// marker or HTTP 429 sleeps with backoff and retries up to MaxRetries; a
// 403 triggers exactly one refresh-and-retry; 5xx/connection failures
// rotate to the next proxy and retry up to MaxRetries; a parse failure
// surfaces a ProtocolError-shaped error.
func (p *Pipeline) Dispatch(ctx context.Context, docID string, variables any, friendlyName string) (Outcome, error) {
	if err := p.ensureFresh(ctx); err != nil {
		return Outcome{}, err
	}
	p.throttle(ctx)

	payload, err := p.buildPayload(docID, variables, friendlyName)
	if err != nil {
		return Outcome{}, err
	}
	headers := p.graphqlHeaders(friendlyName)

	var lastErr error
	for attempt := 0; attempt < p.cfg.MaxRetries; attempt++ {
		res, err := p.post(ctx, payload, headers)
		if err != nil {
			lastErr = p.handleNetworkFailure(err)
			p.sleepBackoff(attempt)
			continue
		}

		switch {
		case res.StatusCode() == 403:
			outcome, err, handled := p.handle403(ctx, payload, headers, res)
			if handled {
				return outcome, err
			}
			lastErr = err
			continue

		case res.StatusCode() == 429:
			p.sleepRateLimitBackoff(attempt)
			lastErr = fmt.Errorf("rate limited: http 429")
			continue

		case res.StatusCode() >= 500:
			p.markProxyFailure()
			lastErr = fmt.Errorf("server error: http %d", res.StatusCode())
			p.sleepBackoff(attempt)
			continue

		case res.StatusCode() != 200:
			return Outcome{}, fmt.Errorf("unexpected status %d", res.StatusCode())
		}

		p.markProxySuccess()
		outcome, err := classifyBody(res.Body())
		if err != nil {
			return Outcome{}, err
		}
		if outcome.RateLimited {
			p.sleepRateLimitBackoff(attempt)
			lastErr = fmt.Errorf("rate limited: body marker")
			continue
		}
		return outcome, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("exhausted retries")
	}
	return Outcome{}, lastErr
}

func (p *Pipeline) handle403(ctx context.Context, payload map[string]string, headers map[string]string, res *resty.Response) (Outcome, error, bool) {
	p.tel.ReportWarning(reportOutcome, "http 403, refreshing session")

	if p.refresh == nil {
		return Outcome{}, fmt.Errorf("http 403 and no refresh configured"), true
	}
	if err := p.refresh(ctx); err != nil {
		return Outcome{}, fmt.Errorf("session refresh: %w", err), true
	}

	lsd := p.sess.Tokens.LSD()
	payload["lsd"] = lsd
	if jazoest, ok := p.sess.Tokens.Get("jazoest"); ok {
		payload["jazoest"] = jazoest
	}
	headers["x-fb-lsd"] = lsd

	retryRes, err := p.post(ctx, payload, headers)
	if err != nil {
		return Outcome{}, fmt.Errorf("retry after refresh: %w", err), true
	}
	if retryRes.StatusCode() == 403 {
		return Outcome{}, fmt.Errorf("authentication failed: 403 persisted after refresh"), true
	}
	if retryRes.StatusCode() != 200 {
		return Outcome{}, fmt.Errorf("retry after refresh returned status %d", retryRes.StatusCode()), true
	}

	outcome, err := classifyBody(retryRes.Body())
	return outcome, err, true
}

func (p *Pipeline) post(ctx context.Context, payload map[string]string, headers map[string]string) (*resty.Response, error) {
	p.tel.ReportDebug(reportRequest, payload["fb_api_req_friendly_name"])
	return p.sess.HTTP.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetFormData(payload).
		Post(graphqlURL)
}

func (p *Pipeline) graphqlHeaders(friendlyName string) map[string]string {
	headers := p.sess.Fingerprint.GraphQLHeaders()
	headers["x-fb-friendly-name"] = friendlyName
	headers["x-fb-lsd"] = p.sess.Tokens.LSD()
	headers["sec-fetch-site"] = "same-origin"
	if asbd, ok := p.sess.Tokens.Get("x-asbd-id"); ok {
		headers["x-asbd-id"] = asbd
	}
	return headers
}

func classifyBody(body []byte) (Outcome, error) {
	text := string(body)
	text = strings.TrimPrefix(text, "for (;;);")

	var parsed struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return Outcome{}, fmt.Errorf("protocol error: %w (body: %s)", err, truncate(text, 512))
	}

	for _, e := range parsed.Errors {
		msg := strings.ToLower(e.Message)
		if e.Code == 1675004 || strings.Contains(msg, "rate limit") {
			return Outcome{RateLimited: true, RetryAfter: 5 * time.Second}, nil
		}
		if e.Code == 1357004 || e.Code == 1357001 || strings.Contains(msg, "session") {
			return Outcome{SessionExpired: true}, nil
		}
	}

	if len(parsed.Data) == 0 || string(parsed.Data) == "null" {
		return Outcome{}, fmt.Errorf("protocol error: no data envelope in response")
	}

	return Outcome{Data: parsed.Data}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (p *Pipeline) ensureFresh(ctx context.Context) error {
	if !p.sess.Stale(time.Now().UTC()) {
		return nil
	}
	if p.refresh == nil {
		return fmt.Errorf("session stale and no refresh configured")
	}
	return p.refresh(ctx)
}

// throttle enforces the inter-request rate-limit delay from §4.3:
// rate_limit_delay + uniform(0, jitter).
func (p *Pipeline) throttle(ctx context.Context) {
	if p.lastRequestAt.IsZero() {
		p.lastRequestAt = time.Now()
		return
	}
	wait := p.cfg.RateLimitDelay
	if p.cfg.Jitter > 0 {
		wait += time.Duration(rand.Int63n(int64(p.cfg.Jitter)))
	}
	elapsed := time.Since(p.lastRequestAt)
	if elapsed < wait {
		select {
		case <-ctx.Done():
		case <-time.After(wait - elapsed):
		}
	}
	p.lastRequestAt = time.Now()
}

func (p *Pipeline) sleepBackoff(attempt int) {
	delay := p.cfg.RetryDelay * time.Duration(1<<attempt)
	delay += time.Duration(rand.Int63n(int64(time.Second)))
	time.Sleep(delay)
}

func (p *Pipeline) sleepRateLimitBackoff(attempt int) {
	delay := 5 * time.Second * time.Duration(1<<attempt)
	delay += time.Duration(1+rand.Intn(2)) * time.Second
	time.Sleep(delay)
}

// rotateProxy marks the current endpoint failed (if any) and switches the
// session's HTTP client to the next eligible one from the pool. A nil pool
// means no proxy rotation is configured; callers tolerate that silently.
func (p *Pipeline) rotateProxy() {
	if p.pool == nil {
		return
	}
	if p.currentProxy != nil {
		p.pool.MarkFailure(p.currentProxy)
	}
	next, err := p.pool.Next()
	if err != nil {
		p.tel.ReportWarning(reportOutcome, "proxy pool exhausted: "+err.Error())
		return
	}
	p.currentProxy = next
	p.sess.HTTP.SetProxy(next.URL)
}

func (p *Pipeline) markProxyFailure() {
	p.rotateProxy()
}

func (p *Pipeline) markProxySuccess() {
	if p.pool == nil || p.currentProxy == nil {
		return
	}
	p.pool.MarkSuccess(p.currentProxy)
}

func (p *Pipeline) handleNetworkFailure(err error) error {
	p.markProxyFailure()
	return fmt.Errorf("network error: %w", err)
}
