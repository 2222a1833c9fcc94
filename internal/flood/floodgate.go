// Package flood limits how many resolutions a single client may request per minute.
package flood

import (
	"sync"
	"time"
)

const (
	window          = time.Minute
	cleanupInterval = 10 * time.Minute
	idleTimeout     = 10 * time.Minute
)

// Floodgate is a sliding window limiter keyed by client address.
// A Floodgate with a limit of zero or less allows everything.
type Floodgate struct {
	limitPerMinute int
	clients        map[string]*client
	mutex          sync.Mutex
	now            func() time.Time
	stop           chan struct{}
	stopOnce       sync.Once
}

type client struct {
	requests []time.Time
	lastSeen time.Time
}

// New creates a Floodgate and starts its idle client cleanup.
func New(limitPerMinute int) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		clients:        make(map[string]*client),
		now:            time.Now,
		stop:           make(chan struct{}),
	}

	go fg.cleanup()

	return fg
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (fg *Floodgate) Stop() {
	fg.stopOnce.Do(func() { close(fg.stop) })
}

// Allow records a request from key and reports whether it is within the limit.
func (fg *Floodgate) Allow(key string) bool {
	if fg == nil || fg.limitPerMinute <= 0 {
		return true
	}

	now := fg.now()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	c, ok := fg.clients[key]
	if !ok {
		c = &client{requests: make([]time.Time, 0, fg.limitPerMinute)}
		fg.clients[key] = c
	}
	c.lastSeen = now

	start := now.Add(-window)
	kept := c.requests[:0]
	for _, ts := range c.requests {
		if ts.After(start) {
			kept = append(kept, ts)
		}
	}
	c.requests = kept

	if len(c.requests) >= fg.limitPerMinute {
		return false
	}

	c.requests = append(c.requests, now)
	return true
}

// RetryAfter returns how long key has to wait until its oldest request leaves the window.
func (fg *Floodgate) RetryAfter(key string) time.Duration {
	if fg == nil {
		return 0
	}

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	c, ok := fg.clients[key]
	if !ok || len(c.requests) == 0 {
		return 0
	}
	wait := c.requests[0].Add(window).Sub(fg.now())
	if wait < 0 {
		return 0
	}
	return wait
}

func (fg *Floodgate) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.removeIdle()
		case <-fg.stop:
			return
		}
	}
}

func (fg *Floodgate) removeIdle() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for key, c := range fg.clients {
		if c.lastSeen.Before(cutoff) {
			delete(fg.clients, key)
		}
	}
}

// Stats returns the limiter state for the status endpoint.
func (fg *Floodgate) Stats() Stats {
	if fg == nil {
		return Stats{}
	}

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	return Stats{
		ActiveClients:  len(fg.clients),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(window.Seconds()),
	}
}

// Stats contains floodgate statistics.
type Stats struct {
	ActiveClients  int `json:"activeClients"`
	LimitPerMinute int `json:"limitPerMinute"`
	WindowSeconds  int `json:"windowSeconds"`
}
