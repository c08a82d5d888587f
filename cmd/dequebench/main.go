// Command dequebench drives one rideable deque implementation through a
// named verification or throughput scenario and appends the result to a
// CSV file, replacing the original harness's command-line driver.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	_ "go.uber.org/automaxprocs" // sets GOMAXPROCS from the container's CPU quota before flag defaults are computed

	"github.com/joeycumines/go-ofdeque/internal/blockpool"
	"github.com/joeycumines/go-ofdeque/internal/errs"
	"github.com/joeycumines/go-ofdeque/internal/launch"
	"github.com/joeycumines/go-ofdeque/internal/logx"
	"github.com/joeycumines/go-ofdeque/internal/recorder"
	"github.com/joeycumines/go-ofdeque/mmdeque"
	"github.com/joeycumines/go-ofdeque/ofdeque"
	"github.com/joeycumines/go-ofdeque/verify"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dequebench:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("dequebench", flag.ContinueOnError)
	rideable := fs.String("rideable", "ofdeque", "deque implementation: ofdeque or mmdeque")
	test := fs.String("test", "queue", "scenario: queue, stack, potato, churn")
	threads := fs.Int("t", runtimeDefaultThreads(), "number of worker goroutines")
	seconds := fs.Int("i", 1, "scenario duration in seconds, where applicable")
	bufferSize := fs.Int("buffer-size", 1024, "ofdeque buffer size: 512, 1024, 4096 or 8192")
	csvPath := fs.String("o", "", "CSV output path; empty disables recording")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *bufferSize {
	case 512, 1024, 4096, 8192:
	default:
		return &errs.InvalidBufferSizeError{Value: *bufferSize}
	}

	res, err := runScenario(*rideable, *test, *threads, *bufferSize, time.Duration(*seconds)*time.Second)
	if err != nil {
		return err
	}

	logx.Default().Info().Str("rideable", *rideable).Str("test", *test).Log("dequebench: scenario complete")

	if *csvPath != "" {
		env := launch.CollectEnvironment()
		row := recorder.Row{
			Global: map[string]string{
				"rideable": *rideable,
				"test":     *test,
				"hostname": env.Hostname,
				"arch":     env.Arch,
			},
			Fields: []recorder.Field{
				{Name: "threads", Reducer: recorder.SumInts, Values: []int64{int64(*threads)}},
				{Name: "passed", Reducer: recorder.SumInts, Values: []int64{boolToInt64(res.Passed)}},
			},
		}
		if err := recorder.AppendCSV(*csvPath, row); err != nil {
			return err
		}
	}

	if !res.Passed {
		return fmt.Errorf("scenario failed: %s", res.Detail)
	}
	return nil
}

func runScenario(rideable, test string, threads, bufferSize int, duration time.Duration) (verify.Result, error) {
	if test == "churn" {
		pool := blockpool.New[int](threads, func() *int { v := 0; return &v })
		return verify.AllocatorChurnTest(pool, threads, duration), nil
	}

	switch rideable {
	case "ofdeque":
		return runOFDeque(test, threads, bufferSize, duration)
	case "mmdeque":
		return runMMDeque(test, threads, duration)
	default:
		return verify.Result{}, &errs.UnknownRideableError{Name: rideable}
	}
}

func runOFDeque(test string, threads, bufferSize int, duration time.Duration) (verify.Result, error) {
	switch test {
	case "queue":
		d := ofdeque.New[uint32](threads, ofdeque.WithBufferSize[uint32](bufferSize))
		return verify.QueueVerificationTest(d, threads, 10000), nil
	case "stack":
		d := ofdeque.New[uint32](threads, ofdeque.WithBufferSize[uint32](bufferSize))
		return verify.StackVerificationTest(d, threads, 1000, 5), nil
	case "potato":
		d := ofdeque.New[int64](threads, ofdeque.WithBufferSize[int64](bufferSize))
		return verify.PotatoTest(d, threads, duration, time.Millisecond), nil
	default:
		return verify.Result{}, fmt.Errorf("dequebench: unknown test %q", test)
	}
}

func runMMDeque(test string, threads int, duration time.Duration) (verify.Result, error) {
	switch test {
	case "queue":
		d := mmdeque.New[uint32](threads)
		return verify.QueueVerificationTest(d, threads, 10000), nil
	case "stack":
		d := mmdeque.New[uint32](threads)
		return verify.StackVerificationTest(d, threads, 1000, 5), nil
	case "potato":
		d := mmdeque.New[int64](threads)
		return verify.PotatoTest(d, threads, duration, time.Millisecond), nil
	default:
		return verify.Result{}, fmt.Errorf("dequebench: unknown test %q", test)
	}
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func runtimeDefaultThreads() int {
	// automaxprocs has already adjusted GOMAXPROCS via its import side
	// effect by the time flag defaults are evaluated.
	return max(1, runtime.GOMAXPROCS(0))
}
