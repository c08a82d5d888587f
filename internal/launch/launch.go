// Package launch provides a fixed-size, optionally CPU-pinned worker pool
// and reports the environment metadata the benchmark CLI records alongside
// each run's results.
//
// Grounded on cpp_harness/HarnessUtils.hpp (machineName/archBits/numCores)
// in the original source, and on the teacher's use of
// golang.org/x/sync/errgroup for coordinated goroutine fan-out/join in
// place of a hand-rolled sync.WaitGroup.
package launch

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/joeycumines/go-ofdeque/internal/affinity"
)

// Run starts threadCount goroutines, each calling work(tid), optionally
// pinned to CPU core tid modulo runtime.NumCPU() when pin is true, and
// blocks until every worker
// returns or one returns a non-nil error, in which case ctx passed to the
// remaining workers is canceled and the first error is returned.
func Run(ctx context.Context, threadCount int, pin bool, work func(ctx context.Context, tid int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for tid := 0; tid < threadCount; tid++ {
		tid := tid
		g.Go(func() error {
			if pin {
				if err := affinity.Pin(tid % runtime.NumCPU()); err != nil {
					return err
				}
			}
			return work(ctx, tid)
		})
	}
	return g.Wait()
}

// Environment describes the machine a benchmark run executed on, recorded
// as global CSV fields alongside per-run results.
type Environment struct {
	Hostname string
	Arch     string
	NumCPU   int
}

// CollectEnvironment returns the current machine's environment metadata.
//
// Grounded on HarnessUtils.cpp's machineName/archBits/numCores; this has
// no effect on the deques under test, it is read-only reporting.
func CollectEnvironment() Environment {
	host, _ := os.Hostname()
	return Environment{
		Hostname: host,
		Arch:     runtime.GOARCH,
		NumCPU:   runtime.NumCPU(),
	}
}
