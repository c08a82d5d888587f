// Package errs collects the typed error values surfaced by the benchmark
// CLI and recorder, following the teacher's errors.go convention of named
// struct types over raw fmt.Errorf strings.
package errs

import "fmt"

// HeaderMismatchError reports that a CSV output file's existing header
// does not match the fields this run would write — the recorder's
// exact-match-or-fatal rule.
type HeaderMismatchError struct {
	Path string
	Want []string
	Got  []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("recorder: %s: header mismatch: want %v, got %v", e.Path, e.Want, e.Got)
}

// Is reports true for any *HeaderMismatchError, regardless of fields,
// matching the teacher's style of coarse-grained errors.Is checks.
func (e *HeaderMismatchError) Is(target error) bool {
	_, ok := target.(*HeaderMismatchError)
	return ok
}

// UnknownRideableError reports a -rideable flag value the CLI's factory
// registry has no constructor for.
type UnknownRideableError struct {
	Name string
}

func (e *UnknownRideableError) Error() string {
	return fmt.Sprintf("dequebench: unknown rideable %q", e.Name)
}

func (e *UnknownRideableError) Is(target error) bool {
	_, ok := target.(*UnknownRideableError)
	return ok
}

// InvalidBufferSizeError reports a -buffer-size flag value outside the
// supported set {512, 1024, 4096, 8192}.
type InvalidBufferSizeError struct {
	Value int
}

func (e *InvalidBufferSizeError) Error() string {
	return fmt.Sprintf("dequebench: invalid buffer size %d, want one of 512, 1024, 4096, 8192", e.Value)
}

func (e *InvalidBufferSizeError) Is(target error) bool {
	_, ok := target.(*InvalidBufferSizeError)
	return ok
}
