// Package tracing wires opentracing to the go-kit logger.
package tracing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/opentracing/basictracer-go"
	"github.com/opentracing/opentracing-go"
)

// NewLoggerTracer returns a new basictracer which samples and logs every finished span.
func NewLoggerTracer(processName string, logger log.Logger) opentracing.Tracer {
	opts := basictracer.DefaultOptions()
	opts.ShouldSample = func(uint64) bool { return true }
	opts.Recorder = NewLoggerRecorder(processName, logger)
	return basictracer.NewWithOptions(opts)
}

// LoggerRecorder implements the basictracer.SpanRecorder interface.
type LoggerRecorder struct {
	processName string
	logger      log.Logger
}

// NewLoggerRecorder returns a LoggerRecorder for the given processName.
func NewLoggerRecorder(processName string, logger log.Logger) *LoggerRecorder {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &LoggerRecorder{processName: processName, logger: logger}
}

// ProcessName returns the process name.
func (r *LoggerRecorder) ProcessName() string { return r.processName }

// RecordSpan complies with the basictracer.SpanRecorder interface.
func (r *LoggerRecorder) RecordSpan(span basictracer.RawSpan) {
	level.Debug(r.logger).Log(
		"msg", "record span",
		"process", r.processName,
		"operation", span.Operation,
		"trace", span.Context.TraceID,
		"span", span.Context.SpanID,
		"start", span.Start,
		"duration", span.Duration,
		"tags", formatTags(span.Tags),
	)
}

func formatTags(tags opentracing.Tags) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i != 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, tags[k])
	}
	return b.String()
}
