// Package affinity pins the calling OS thread to a single CPU core, the
// Go equivalent of the original harness's external per-thread pinning
// step (spec.md §5: "the external harness pins each thread to a CPU
// core").
//
// Pinning a goroutine requires locking it to its OS thread first
// (runtime.LockOSThread), since Go's scheduler may otherwise migrate the
// goroutine to a different thread than the one SchedSetaffinity affected.
package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its current OS thread and restricts
// that thread to run only on cpu. Callers must invoke Pin from the
// goroutine that will perform the pinned work, typically as the first
// statement in a worker's goroutine body, and must not call
// runtime.UnlockOSThread afterward for the lifetime of that goroutine.
func Pin(cpu int) error {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: pin to cpu %d: %w", cpu, err)
	}
	return nil
}
