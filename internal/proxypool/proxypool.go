// Package proxypool maintains a ring of proxy endpoints with per-endpoint
// failure counters, dead-state, and cooldown revival, handing out one
// endpoint per request in round-robin order.
package proxypool

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrNoEndpointsConfigured is returned by Next when the pool is empty.
var ErrNoEndpointsConfigured = errors.New("proxy pool: no endpoints configured")

// ErrInvalidEndpoint is returned when an endpoint string does not match any
// of the accepted grammars.
var ErrInvalidEndpoint = errors.New("proxy pool: invalid endpoint")

// Endpoint is one proxy in the pool.
type Endpoint struct {
	URL string

	failures  int
	deadSince time.Time
	isDead    bool
}

// Failures reports the endpoint's current consecutive-failure count.
func (e Endpoint) Failures() int { return e.failures }

// Dead reports whether the endpoint is currently excluded from rotation.
func (e Endpoint) Dead() bool { return e.isDead }

// Pool hands out proxy endpoints in round-robin order, skipping endpoints
// whose cooldown has not yet elapsed. All mutating operations are
// serialized by mu; Next is linearizable with respect to MarkSuccess and
// MarkFailure.
type Pool struct {
	mu          sync.Mutex
	endpoints   []*Endpoint
	cursor      int
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time
}

// New constructs a Pool from a list of endpoint strings, normalizing each
// one via parseEndpoint. maxFailures is the consecutive-failure threshold
// before an endpoint is marked dead; cooldown is how long a dead endpoint
// stays excluded before it is eligible again.
func New(rawEndpoints []string, maxFailures int, cooldown time.Duration) (*Pool, error) {
	p := &Pool{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
	for _, raw := range rawEndpoints {
		norm, err := parseEndpoint(raw)
		if err != nil {
			return nil, err
		}
		p.endpoints = append(p.endpoints, &Endpoint{URL: norm})
	}
	return p, nil
}

// FromFile parses one endpoint per line, ignoring blank and #-prefixed
// lines.
func FromFile(path string, maxFailures int, cooldown time.Duration) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return New(raw, maxFailures, cooldown)
}

// Next returns the next eligible endpoint, advancing the cursor exactly one
// step. If every endpoint is dead and still in cooldown, it returns the one
// closest to revival (oldest dead-since).
func (p *Pool) Next() (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.endpoints) == 0 {
		return nil, ErrNoEndpointsConfigured
	}

	now := p.now()
	n := len(p.endpoints)
	for i := 0; i < n; i++ {
		idx := (p.cursor + i) % n
		ep := p.endpoints[idx]
		if p.eligible(ep, now) {
			p.cursor = (idx + 1) % n
			return ep, nil
		}
	}

	// All dead and in cooldown: return the one closest to revival.
	oldest := p.endpoints[0]
	for _, ep := range p.endpoints[1:] {
		if ep.deadSince.Before(oldest.deadSince) {
			oldest = ep
		}
	}
	p.cursor = (p.cursor + 1) % n
	return oldest, nil
}

func (p *Pool) eligible(ep *Endpoint, now time.Time) bool {
	if !ep.isDead {
		return true
	}
	if now.Sub(ep.deadSince) > p.cooldown {
		ep.isDead = false
		ep.failures = 0
		return true
	}
	return false
}

// MarkSuccess resets an endpoint's failure count and clears its dead state.
func (p *Pool) MarkSuccess(ep *Endpoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ep.failures = 0
	ep.isDead = false
	ep.deadSince = time.Time{}
}

// MarkFailure increments an endpoint's failure count, marking it dead once
// the count reaches maxFailures.
func (p *Pool) MarkFailure(ep *Endpoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ep.failures++
	if ep.failures >= p.maxFailures && !ep.isDead {
		ep.isDead = true
		ep.deadSince = p.now()
	}
}

// Reset clears all failure counters and dead state on every endpoint.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ep := range p.endpoints {
		ep.failures = 0
		ep.isDead = false
		ep.deadSince = time.Time{}
	}
}

// Len reports the number of configured endpoints.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.endpoints)
}

// parseEndpoint normalizes host:port, host:port:user:pass, and full-URL
// (http/https/socks5, with optional embedded credentials) forms into a
// canonical URL string.
func parseEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty endpoint", ErrInvalidEndpoint)
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, u.Scheme)
		}
		if u.Host == "" {
			return "", fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
		}
		return u.String(), nil
	}

	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 2:
		host, port := parts[0], parts[1]
		if host == "" || port == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
		}
		return fmt.Sprintf("http://%s:%s", host, port), nil
	case 4:
		host, port, user, pass := parts[0], parts[1], parts[2], parts[3]
		if host == "" || port == "" || user == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
		}
		u := &url.URL{
			Scheme: "http",
			User:   url.UserPassword(user, pass),
			Host:   fmt.Sprintf("%s:%s", host, port),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
	}
}
