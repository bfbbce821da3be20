// Package logging builds the go-kit loggers used across allocbench.
package logging

import (
	"fmt"
	"io"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-logfmt/logfmt"
)

// New returns a logfmt Logger writing to w, stamped with ts and caller,
// that drops records below the allowed level.
func New(w io.Writer, allowed level.Option) log.Logger {
	var logger log.Logger = Stringify{log.NewLogfmtLogger(log.NewSyncWriter(w))}
	logger = level.NewFilter(logger, allowed)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// NewTestLogger returns a Logger that prints through t.Log,
// thus only visible when tests are run with -v or fail.
// If t has a Helper method (testing.TB does), the logger marks itself
// as a helper so t.Log attributes the line to the caller.
func NewTestLogger(t testLogger) log.Logger {
	return testLog{t}
}

type testLogger interface {
	Log(args ...interface{})
}

type testLog struct {
	testLogger
}

func (t testLog) Log(keyvals ...interface{}) error {
	if h, ok := t.testLogger.(interface{ Helper() }); ok {
		h.Helper()
	}
	b, err := logfmt.MarshalKeyvals(stringify(keyvals)...)
	if err != nil {
		t.testLogger.Log(fmt.Sprintf("%s: LOG_ERROR=%v", b, err))
		return err
	}
	t.testLogger.Log(string(b))
	return nil
}

// Stringify stringifies every value logfmt cannot print by itself.
type Stringify struct {
	log.Logger
}

// Log with stringifying every value.
func (l Stringify) Log(keyvals ...interface{}) error {
	return l.Logger.Log(stringify(keyvals)...)
}

func stringify(keyvals []interface{}) []interface{} {
	for i := 1; i < len(keyvals); i += 2 {
		switch keyvals[i].(type) {
		case string, fmt.Stringer, error, log.Valuer:
		case bool, int, int32, int64, uint, uint32, uint64, float64:
		default:
			keyvals[i] = stringWrap{keyvals[i]}
		}
	}
	return keyvals
}

type stringWrap struct {
	value interface{}
}

func (sw stringWrap) String() string { return fmt.Sprintf("%v", sw.value) }
