package console

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/chanconsole/chanconsole/internal/stats"
)

// snapshotCacheKey is the single entry patrickmn/go-cache holds: the
// last-known snapshot. Its expiry is how the console detects staleness
// without threading an extra "last updated" timestamp through the view
// model.
const snapshotCacheKey = "snapshot"

// Poller fetches the metrics endpoint on a fixed cadence (falling back
// from a websocket push stream to polling on any connection error) and
// exposes the last-known snapshot with a staleness flag.
type Poller struct {
	baseURL      string
	interval     time.Duration
	streamWanted bool
	client       *http.Client
	cache        *gocache.Cache

	mu     sync.Mutex
	paused bool
}

// NewPoller returns a Poller targeting baseURL (e.g. "http://127.0.0.1:6770"),
// caching snapshots for 2x the poll interval so a single missed tick isn't
// immediately reported as stale. When streamWanted is false, Run goes
// straight to HTTP polling and never attempts the /metrics/stream upgrade.
func NewPoller(baseURL string, interval time.Duration, streamWanted bool) *Poller {
	return &Poller{
		baseURL:      strings.TrimRight(baseURL, "/"),
		interval:     interval,
		streamWanted: streamWanted,
		client:       &http.Client{Timeout: interval * 4},
		cache:        gocache.New(interval*2, interval*4),
	}
}

// SetPaused toggles whether Run's loop continues fetching.
func (p *Poller) SetPaused(paused bool) {
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
}

func (p *Poller) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Snapshot returns the last-known records and whether that entry is still
// fresh (it may have expired from the cache since the last successful
// fetch, which is the "stale" signal spec.md's fetch-failure behavior
// calls for).
func (p *Poller) Snapshot() (records []stats.Serializable, fresh bool) {
	if v, found := p.cache.Get(snapshotCacheKey); found {
		return v.([]stats.Serializable), true
	}
	return nil, false
}

// Run drives the poll loop until done fires, sending each successfully
// fetched snapshot (paired with the previous one, for Diff) to onUpdate.
// When the stream was requested, it first attempts a websocket
// subscription to /metrics/stream; on any
// error - before or after a successful connection - it falls back to
// plain HTTP polling at the configured interval.
func (p *Poller) Run(done <-chan struct{}, onUpdate func(prev, cur []stats.Serializable)) {
	if p.streamWanted && p.runStream(done, onUpdate) {
		return
	}
	p.runPoll(done, onUpdate)
}

// runStream reports whether Run should stop entirely (true) or fall
// through to runPoll (false). It returns false for anything that isn't a
// deliberate shutdown: a failed dial, or a ReadJSON error on an
// already-established connection (the server restarted, the network
// blipped, etc.) all fall back to polling.
func (p *Poller) runStream(done <-chan struct{}, onUpdate func(prev, cur []stats.Serializable)) bool {
	wsURL := strings.Replace(p.baseURL, "http://", "ws://", 1) + "/metrics/stream"
	if _, err := url.Parse(wsURL); err != nil {
		return false
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.WithError(err).Debug("chanconsole console: stream unavailable, falling back to polling")
		return false
	}
	defer conn.Close()

	var closing atomic.Bool
	go func() {
		<-done
		closing.Store(true)
		conn.Close()
	}()

	var prev []stats.Serializable
	for {
		var cur []stats.Serializable
		if err := conn.ReadJSON(&cur); err != nil {
			if closing.Load() {
				return true
			}
			log.WithError(err).Debug("chanconsole console: stream read failed, falling back to polling")
			return false
		}
		if p.isPaused() {
			continue
		}
		p.cache.SetDefault(snapshotCacheKey, cur)
		onUpdate(prev, cur)
		prev = cur
	}
}

func (p *Poller) runPoll(done <-chan struct{}, onUpdate func(prev, cur []stats.Serializable)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var prev []stats.Serializable
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if p.isPaused() {
				continue
			}
			cur, err := p.fetch()
			if err != nil {
				log.WithError(err).Debug("chanconsole console: fetch failed, keeping last-known state")
				continue
			}
			p.cache.SetDefault(snapshotCacheKey, cur)
			onUpdate(prev, cur)
			prev = cur
		}
	}
}

func (p *Poller) fetch() ([]stats.Serializable, error) {
	resp, err := p.client.Get(p.baseURL + "/metrics")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chanconsole console: metrics endpoint returned %s", resp.Status)
	}

	var records []stats.Serializable
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
