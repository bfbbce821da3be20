package metrics

import (
	"runtime"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Snapshot is the subset of runtime.MemStats a measurement cares about
type Snapshot struct {
	HeapAlloc  uint64
	Sys        uint64
	Mallocs    uint64
	Frees      uint64
	NumGC      uint32
	PauseTotal time.Duration
	LastPause  time.Duration
}

// Read returns current memory statistics
func Read() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := Snapshot{
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		Mallocs:    m.Mallocs,
		Frees:      m.Frees,
		NumGC:      m.NumGC,
		PauseTotal: time.Duration(m.PauseTotalNs),
	}
	if m.NumGC > 0 {
		s.LastPause = time.Duration(m.PauseNs[(m.NumGC-1)%256])
	}
	return s
}

// Sub returns the counters accumulated between before and s.
// HeapAlloc and Sys are gauges and are kept from s.
func (s Snapshot) Sub(before Snapshot) Snapshot {
	return Snapshot{
		HeapAlloc:  s.HeapAlloc,
		Sys:        s.Sys,
		Mallocs:    s.Mallocs - before.Mallocs,
		Frees:      s.Frees - before.Frees,
		NumGC:      s.NumGC - before.NumGC,
		PauseTotal: s.PauseTotal - before.PauseTotal,
		LastPause:  s.LastPause,
	}
}

// Log outputs memory usage information at debug level
func Log(logger log.Logger, label string, s Snapshot) {
	keyvals := []interface{}{
		"msg", "memory stats",
		"label", label,
		"heap_alloc_kb", s.HeapAlloc / 1024,
		"sys_kb", s.Sys / 1024,
		"mallocs", s.Mallocs,
		"frees", s.Frees,
		"gc_cycles", s.NumGC,
	}
	if s.NumGC > 0 {
		keyvals = append(keyvals, "last_gc_pause", s.LastPause, "total_gc_pause", s.PauseTotal)
	}
	level.Debug(logger).Log(keyvals...)
}
