package main

import (
	"io"
	"os"
	"runtime"

	"github.com/go-kit/kit/log/level"

	"allocbench/internal/logging"
	"allocbench/internal/tracing"
	"allocbench/pkg/alloc"
	"allocbench/pkg/benchmark"
	"allocbench/pkg/gccontrol"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

// run prints the static, stack and heap results to stdout and returns the exit code.
func run(stdout, stderr io.Writer) int {
	logger := logging.New(stderr, level.AllowInfo())
	level.Info(logger).Log("msg", "starting", "go_version", runtime.Version(), "gomaxprocs", runtime.GOMAXPROCS(0))

	heap := alloc.DefaultHeap()
	defer heap.Close()

	timer := benchmark.NewTimer(stdout,
		benchmark.WithLogger(logger),
		benchmark.WithTracer(tracing.NewLoggerTracer("allocbench", logger)),
		benchmark.WithGCController(gccontrol.NewController(gccontrol.WithLogger(logger))),
	)
	if _, err := benchmark.Run(timer, benchmark.DefaultStrategies(heap)); err != nil {
		level.Error(logger).Log("msg", "benchmark aborted", "error", err)
		return 1
	}
	return 0
}
