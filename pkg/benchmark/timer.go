// Package benchmark times allocation routines and prints one line per strategy.
package benchmark

import (
	"fmt"
	"io"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"allocbench/pkg/gccontrol"
	"allocbench/pkg/metrics"
)

// Iterations is how many times Measure invokes a routine.
const Iterations = 100_000

// Routine is one allocation strategy; it returns an error only if allocation failed.
type Routine func() error

// Infallible adapts a routine that cannot fail.
func Infallible(f func()) Routine {
	return func() error {
		f()
		return nil
	}
}

// Result is the cumulative wall-clock time of Iterations calls.
type Result struct {
	Label   string
	Elapsed time.Duration
}

// Milliseconds returns the elapsed time in whole milliseconds, truncated.
func (r Result) Milliseconds() int64 { return r.Elapsed.Milliseconds() }

func (r Result) String() string {
	return fmt.Sprintf("%s Time: %d ms", r.Label, r.Milliseconds())
}

// Timer runs routines and writes their Result lines to out.
type Timer struct {
	out    io.Writer
	logger log.Logger
	tracer opentracing.Tracer
	gc     *gccontrol.Controller
}

// Option configures a Timer.
type Option func(*Timer)

// WithLogger sets the diagnostics logger; results never go there.
func WithLogger(logger log.Logger) Option { return func(t *Timer) { t.logger = logger } }

// WithTracer sets the tracer a "measure" span is started on for every Measure.
func WithTracer(tracer opentracing.Tracer) Option { return func(t *Timer) { t.tracer = tracer } }

// WithGCController makes Measure collect before and hold GC off during the timed loop.
func WithGCController(c *gccontrol.Controller) Option { return func(t *Timer) { t.gc = c } }

// NewTimer returns a Timer printing to out.
func NewTimer(out io.Writer, opts ...Option) *Timer {
	t := &Timer{
		out:    out,
		logger: log.NewNopLogger(),
		tracer: opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Measure invokes r Iterations times in a row and prints "<label> Time: <ms> ms".
// The first error aborts the loop; nothing is printed then.
func (t *Timer) Measure(label string, r Routine) (Result, error) {
	span := t.tracer.StartSpan("measure")
	span.SetTag("label", label)
	span.SetTag("iterations", Iterations)
	defer span.Finish()

	if t.gc != nil {
		t.gc.ForceGC()
	}
	before := metrics.Read()

	var (
		elapsed time.Duration
		err     error
	)
	timed := func() {
		var i int
		start := time.Now()
		for i = 0; i < Iterations; i++ {
			if err = r(); err != nil {
				break
			}
		}
		elapsed = time.Since(start)
		if err != nil {
			err = errors.Wrapf(err, "%s: iteration %d", label, i)
		}
	}
	if t.gc != nil {
		t.gc.DisableGCDuring(timed)
	} else {
		timed()
	}

	metrics.Log(t.logger, label, metrics.Read().Sub(before))
	if err != nil {
		span.SetTag("error", true)
		return Result{}, err
	}

	res := Result{Label: label, Elapsed: elapsed}
	if _, err := fmt.Fprintln(t.out, res); err != nil {
		return res, errors.Wrap(err, "write result")
	}
	level.Info(t.logger).Log("msg", "measured", "label", label, "iterations", Iterations, "elapsed", elapsed)
	return res, nil
}
