package adlib

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"adlibrary-collector/internal/components/telemetry"
	"adlibrary-collector/internal/dedup"
	"adlibrary-collector/internal/events"
	"adlibrary-collector/internal/filters"
	"adlibrary-collector/internal/models"
	"adlibrary-collector/internal/normalize"
	"adlibrary-collector/internal/pipeline"
	"adlibrary-collector/internal/proxypool"
	"adlibrary-collector/internal/session"

	"github.com/google/uuid"
)

// Stats mirrors the running counters a collection run accumulates,
// snapshotted by Collector.Stats.
type Stats struct {
	RequestsMade      int64
	AdsCollected      int64
	PagesFetched      int64
	DuplicatesSkipped int64
	FilteredOut       int64
	Errors            int64
	StartTime         *time.Time
	EndTime           *time.Time
}

// Collector is the top-level entry point: one bound session, one request
// pipeline, one dedup tracker, one event emitter.
type Collector struct {
	cfg Config
	tel telemetry.API

	mu       sync.Mutex
	sess     *session.Session
	pipeline *pipeline.Pipeline
	pool     *proxypool.Pool

	dedup  dedup.Tracker
	events *events.Emitter

	stats Stats
}

// New constructs a Collector. If cfg.DedupDatabasePath is empty, ads are
// deduplicated in-memory only (not persisted across runs).
func New(cfg Config, tel telemetry.API) (*Collector, error) {
	tel = telemetry.NewScopedAPI("adlib", tel)

	var pool *proxypool.Pool
	var proxyURL string
	if len(cfg.ProxyEndpoints) > 0 {
		p, err := proxypool.New(cfg.ProxyEndpoints, cfg.ProxyMaxFailures, cfg.ProxyCooldown)
		if err != nil {
			return nil, fmt.Errorf("new proxy pool: %w", err)
		}
		pool = p
		if ep, err := pool.Next(); err == nil {
			proxyURL = ep.URL
		}
	}

	sess, err := session.New(tel, proxyURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	var tracker dedup.Tracker
	if cfg.DedupDatabasePath != "" {
		sqliteTracker, err := dedup.OpenSQLite(cfg.DedupDatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open dedup database: %w", err)
		}
		tracker = sqliteTracker
	} else {
		tracker = dedup.NewMemory()
	}

	c := &Collector{
		cfg:    cfg,
		tel:    tel,
		sess:   sess,
		pool:   pool,
		dedup:  tracker,
		events: events.New(tel),
	}

	pcfg := pipeline.DefaultConfig()
	pcfg.MaxRetries = cfg.MaxRetries
	pcfg.RateLimitDelay = cfg.RateLimitDelay
	pcfg.Jitter = cfg.Jitter
	c.pipeline = pipeline.New(sess, pool, pcfg, tel, c.refreshSession)

	return c, nil
}

// On registers a lifecycle event listener. See package events for the
// event type constants and the no-back-reference rule listeners must obey.
func (c *Collector) On(eventType string, listener events.Listener) {
	c.events.On(eventType, listener)
}

// Stats returns a snapshot of the running collection counters.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close releases the dedup tracker's underlying resources (a no-op for the
// in-memory tracker, a database/sql.Close for the sqlite-backed one).
func (c *Collector) Close() error {
	return c.dedup.Close()
}

func (c *Collector) refreshSession(ctx context.Context) error {
	if err := c.sess.Bootstrap(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	c.events.Emit(events.SessionRefreshed, map[string]any{"reason": "stale_or_403"})
	return nil
}

func (c *Collector) ensureReady(ctx context.Context) error {
	if c.sess.Initialized() {
		return nil
	}
	return c.refreshSession(ctx)
}

// SearchIterator streams normalized Ad values one page at a time, applying
// dedup and filter skipping and driving the rate-limit/session-expiry retry
// loop between pages.
type SearchIterator struct {
	c      *Collector
	params SearchParams

	buffer    []models.Ad
	cursor    string
	collected int
	pageNum   int
	sessionID string
	collation string

	done      bool
	startedAt time.Time

	// pageHint, when set, carries the typeahead page summary that resolved
	// this search's target page; Next uses it to fill any Page fields the
	// search response itself left empty.
	pageHint *models.PageSearchResult
}

// Search validates params and returns a SearchIterator positioned before
// the first page. Call Next repeatedly to drive the collection.
func (c *Collector) Search(ctx context.Context, params SearchParams) (*SearchIterator, error) {
	params.applyDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.mu.Lock()
	c.stats.StartTime = &now
	c.mu.Unlock()

	it := &SearchIterator{
		c:         c,
		params:    params,
		sessionID: uuid.NewString(),
		collation: uuid.NewString(),
		startedAt: time.Now(),
	}

	c.events.Emit(events.CollectionStarted, map[string]any{
		"query":       params.Query,
		"country":     params.Country,
		"ad_type":     params.AdType,
		"status":      params.Status,
		"search_type": params.SearchType,
		"page_ids":    params.PageIDs,
		"max_results": params.MaxResults,
	})

	return it, nil
}

// Next advances the iterator, returning the next ad that passes dedup and
// filter checks. The second return value is false once the search is
// exhausted (no more pages, max_results reached, or retries exhausted),
// at which point err is nil unless the search ended abnormally.
func (it *SearchIterator) Next(ctx context.Context) (models.Ad, bool, error) {
	for {
		if it.done {
			return models.Ad{}, false, nil
		}

		if len(it.buffer) == 0 {
			more, err := it.fetchPage(ctx)
			if err != nil {
				it.finish()
				return models.Ad{}, false, err
			}
			if !more {
				it.finish()
				return models.Ad{}, false, nil
			}
			continue
		}

		ad := it.buffer[0]
		it.buffer = it.buffer[1:]
		if it.pageHint != nil {
			ad = EnrichAd(ad, pageHintAsAd(*it.pageHint))
		}

		if it.params.MaxResults > 0 && it.collected >= it.params.MaxResults {
			it.finish()
			return models.Ad{}, false, nil
		}

		if seen, err := it.c.dedup.HasSeen(ctx, ad.ID); err == nil && seen {
			it.c.incrStat(func(s *Stats) { s.DuplicatesSkipped++ })
			continue
		}

		if err := it.c.dedup.MarkSeen(ctx, ad.ID); err != nil {
			it.c.tel.ReportWarning("collector.dedup-mark", err.Error())
		}

		if !filters.Passes(ad, it.params.Filter) {
			it.c.incrStat(func(s *Stats) { s.FilteredOut++ })
			continue
		}

		it.collected++
		it.c.incrStat(func(s *Stats) { s.AdsCollected++ })
		it.c.events.Emit(events.AdCollected, map[string]any{"ad": ad})

		return ad, true, nil
	}
}

func (it *SearchIterator) finish() {
	if it.done {
		return
	}
	it.done = true

	now := time.Now().UTC()
	it.c.mu.Lock()
	it.c.stats.EndTime = &now
	it.c.mu.Unlock()

	if err := it.c.dedup.SetLastRun(context.Background(), now); err != nil {
		it.c.tel.ReportWarning("collector.dedup-save", err.Error())
	}

	it.c.events.Emit(events.CollectionFinished, map[string]any{
		"total_ads":        it.collected,
		"total_pages":      it.pageNum,
		"duration_seconds": time.Since(it.startedAt).Seconds(),
	})
}

// fetchPage retrieves and normalizes the next page of results into
// it.buffer, retrying on rate-limit (5*n seconds plus a random 1 or 2
// seconds of backoff, bounded by
// cfg.MaxRetries) and session-expiry (flat 2s backoff, bounded by the
// session's consecutive-refresh-failure count against cfg.MaxRefreshAttempts
// before it gives up as fatal), per the retry policy this was ported from.
// It returns false once there is no more data to fetch.
func (it *SearchIterator) fetchPage(ctx context.Context) (bool, error) {
	if it.params.MaxResults > 0 && it.collected >= it.params.MaxResults {
		return false, nil
	}
	if it.pageNum > 0 && it.cursor == "" {
		return false, nil
	}

	maxRetries := it.c.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	maxRefreshAttempts := it.c.cfg.MaxRefreshAttempts
	if maxRefreshAttempts <= 0 {
		maxRefreshAttempts = defaultMaxRefreshAttempts
	}

	attempts := maxRetries
	if maxRefreshAttempts > attempts {
		attempts = maxRefreshAttempts
	}

	var outcome pipeline.Outcome

	for retry := 0; retry < attempts; retry++ {
		if err := it.c.ensureReady(ctx); err != nil {
			return false, err
		}

		sp := pipeline.SearchParams{
			Query:          it.params.Query,
			Country:        it.params.Country,
			AdType:         it.params.AdType,
			ActiveStatus:   it.params.Status,
			MediaType:      "all",
			SearchType:     it.params.SearchType,
			PageIDs:        it.params.PageIDs,
			Cursor:         it.cursor,
			First:          it.params.PageSize,
			SortDirection:  "DESC",
			SortMode:       it.params.SortBy,
			SessionID:      it.sessionID,
			CollationToken: it.collation,
		}

		it.c.incrStat(func(s *Stats) { s.RequestsMade++ })
		o, err := it.c.pipeline.SearchPage(ctx, sp)
		if err != nil {
			it.c.incrStat(func(s *Stats) { s.Errors++ })
			it.c.events.Emit(events.ErrorOccurred, map[string]any{
				"error":   err.Error(),
				"context": fmt.Sprintf("search request failed on retry %d", retry+1),
			})
			if retry == maxRetries-1 {
				return false, err
			}
			sleepCtx(ctx, time.Duration(retry+1)*3*time.Second)
			continue
		}

		if o.RateLimited {
			wait := 5*time.Duration(retry+1)*time.Second + time.Duration(1+rand.Intn(2))*time.Second
			it.c.events.Emit(events.RateLimited, map[string]any{
				"wait_seconds": wait.Seconds(),
				"retry_count":  retry + 1,
			})
			if retry == maxRetries-1 {
				// Retries exhausted while rate-limited terminates the
				// iterator cleanly, not as an error.
				return false, nil
			}
			sleepCtx(ctx, wait)
			continue
		}

		if o.SessionExpired {
			it.c.sess.IncrementRefreshFailures()
			if err := it.c.refreshSession(ctx); err != nil {
				return false, err
			}
			if it.c.sess.RefreshFailures() >= maxRefreshAttempts {
				it.c.incrStat(func(s *Stats) { s.Errors++ })
				it.c.events.Emit(events.ErrorOccurred, map[string]any{
					"error":   "session expired",
					"context": "max refresh attempts exceeded due to session expiry",
				})
				return false, ErrSessionExpired
			}
			sleepCtx(ctx, 2*time.Second)
			continue
		}

		it.c.sess.ResetRefreshFailures()
		outcome = o
		break
	}

	if len(outcome.Data) == 0 {
		return false, errors.New("no response received after retries")
	}

	it.c.incrStat(func(s *Stats) { s.PagesFetched++ })
	it.pageNum++

	adsData, _, nextCursor := pipeline.ParseSearchResponse(outcome.Data)
	if len(adsData) == 0 {
		return false, nil
	}

	it.c.events.Emit(events.PageFetched, map[string]any{
		"page_number":   it.pageNum,
		"ads_on_page":   len(adsData),
		"has_next_page": nextCursor != "",
	})

	it.buffer = make([]models.Ad, 0, len(adsData))
	for _, raw := range adsData {
		ad := normalize.FromGraphQLResponse(raw)
		if ad.ID == "" {
			continue
		}
		it.buffer = append(it.buffer, ad)
	}

	it.cursor = nextCursor
	if nextCursor != "" {
		delay := it.c.cfg.RateLimitDelay + time.Duration(rand.Int63n(int64(maxDuration(it.c.cfg.Jitter, time.Millisecond))))
		sleepCtx(ctx, delay)
	}

	return true, nil
}

func (c *Collector) incrStat(f func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(&c.stats)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
