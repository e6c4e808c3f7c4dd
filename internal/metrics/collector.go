// Package metrics keeps in-process counters for the imovel server.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in metrics collection
type Collector struct {
	views      atomic.Int64
	renderErrs atomic.Int64
	loadFails  atomic.Int64
	accepted   atomic.Int64
	rejected   atomic.Int64
	sockets    atomic.Int64
	maxSockets atomic.Int64

	mu        sync.RWMutex
	perView   map[string]*int64
	startTime time.Time
}

// Snapshot is a point-in-time copy of the collected metrics
type Snapshot struct {
	// View rendering
	ViewsRendered int64 `json:"views_rendered"`
	RenderErrors  int64 `json:"render_errors"`
	LoadFailures  int64 `json:"load_failures"`

	// Control activations
	ActionsAccepted int64 `json:"actions_accepted"`
	ActionsRejected int64 `json:"actions_rejected"`

	// WebSocket connections
	ActiveSockets        int64 `json:"active_sockets"`
	MaxConcurrentSockets int64 `json:"max_concurrent_sockets"`

	PerView map[string]int64 `json:"per_view"`

	// Percentage of view requests that failed to load or render
	ErrorRate float64 `json:"error_rate"`

	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		perView:   make(map[string]*int64),
		startTime: time.Now(),
	}
}

// ViewRendered records a successful render of the named view
func (c *Collector) ViewRendered(name string) {
	c.views.Add(1)

	c.mu.RLock()
	counter, exists := c.perView[name]
	c.mu.RUnlock()
	if exists {
		atomic.AddInt64(counter, 1)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if counter, exists := c.perView[name]; exists {
		atomic.AddInt64(counter, 1)
		return
	}
	var n int64 = 1
	c.perView[name] = &n
}

// RenderError records a template execution failure
func (c *Collector) RenderError() {
	c.renderErrs.Add(1)
}

// LoadFailure records a request answered with a failed deferred load
func (c *Collector) LoadFailure() {
	c.loadFails.Add(1)
}

// ActionAccepted records an activation delivered to its handler
func (c *Collector) ActionAccepted() {
	c.accepted.Add(1)
}

// ActionRejected records an activation that was refused
func (c *Collector) ActionRejected() {
	c.rejected.Add(1)
}

// SocketOpened records a new WebSocket connection
func (c *Collector) SocketOpened() {
	current := c.sockets.Add(1)

	for {
		max := c.maxSockets.Load()
		if current <= max {
			break
		}
		if c.maxSockets.CompareAndSwap(max, current) {
			break
		}
	}
}

// SocketClosed records a closed WebSocket connection
func (c *Collector) SocketClosed() {
	c.sockets.Add(-1)
}

// Snapshot returns the current metrics
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	perView := make(map[string]int64, len(c.perView))
	for name, counter := range c.perView {
		perView[name] = atomic.LoadInt64(counter)
	}
	start := c.startTime
	c.mu.RUnlock()

	return Snapshot{
		ViewsRendered:        c.views.Load(),
		RenderErrors:         c.renderErrs.Load(),
		LoadFailures:         c.loadFails.Load(),
		ActionsAccepted:      c.accepted.Load(),
		ActionsRejected:      c.rejected.Load(),
		ActiveSockets:        c.sockets.Load(),
		MaxConcurrentSockets: c.maxSockets.Load(),
		PerView:              perView,
		ErrorRate:            c.ErrorRate(),
		StartTime:            start,
		Uptime:               time.Since(start),
	}
}

// ErrorRate returns the share of view requests that failed, as a percentage
func (c *Collector) ErrorRate() float64 {
	ok := c.views.Load()
	failed := c.renderErrs.Load() + c.loadFails.Load()

	if ok+failed == 0 {
		return 0.0
	}

	return float64(failed) / float64(ok+failed) * 100.0
}

// Reset zeroes every counter. The live socket gauge is kept since open
// connections still report their close; the concurrency peak restarts from it.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.views.Store(0)
	c.renderErrs.Store(0)
	c.loadFails.Store(0)
	c.accepted.Store(0)
	c.rejected.Store(0)
	c.maxSockets.Store(c.sockets.Load())

	c.perView = make(map[string]*int64)
	c.startTime = time.Now()
}
