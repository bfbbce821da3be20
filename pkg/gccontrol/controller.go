package gccontrol

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Controller switches the garbage collector off around timed sections.
// It is not safe for concurrent use.
type Controller struct {
	originalPercent int // value returned by debug.SetGCPercent at startup
	disabledCount   int // number of outstanding DisableGC calls
	lastGC          time.Time
	logger          log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger lets callers plug in their preferred logger.
func WithLogger(logger log.Logger) Option { return func(c *Controller) { c.logger = logger } }

// NewController creates a new GC controller, remembering the current GC percent.
func NewController(opts ...Option) *Controller {
	percent := debug.SetGCPercent(100)
	debug.SetGCPercent(percent)

	c := &Controller{
		originalPercent: percent,
		logger:          log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DisableGC increments the disable counter and turns GC off on the first call.
func (c *Controller) DisableGC() {
	c.disabledCount++
	if c.disabledCount == 1 { // transition 0 -> 1
		debug.SetGCPercent(-1)
	}
}

// EnableGC decrements the disable counter and re-enables GC once it hits zero.
func (c *Controller) EnableGC() {
	if c.disabledCount == 0 {
		return
	}
	c.disabledCount--
	if c.disabledCount == 0 { // transition 1 -> 0
		debug.SetGCPercent(c.originalPercent)
	}
}

// Disabled reports whether GC is currently held off by this controller.
func (c *Controller) Disabled() bool { return c.disabledCount > 0 }

// ForceGC runs a collection now, even while disabled, and returns to the previous state.
func (c *Controller) ForceGC() {
	wasDisabled := c.Disabled()
	if wasDisabled {
		// temporarily enable so GC will run
		debug.SetGCPercent(c.originalPercent)
	}

	start := time.Now()
	runtime.GC()
	elapsed := time.Since(start)
	c.lastGC = time.Now()

	level.Debug(c.logger).Log("msg", "forced GC", "took", elapsed)

	if wasDisabled {
		debug.SetGCPercent(-1)
	}
}

// LastForced returns when ForceGC last completed, zero if never.
func (c *Controller) LastForced() time.Time { return c.lastGC }

// DisableGCDuring runs f with GC disabled.
func (c *Controller) DisableGCDuring(f func()) {
	c.DisableGC()
	defer c.EnableGC()
	f()
}
