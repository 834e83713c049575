// Package errors carries the error-kind vocabulary spec.md §7 names, plus
// the fatal/wrap helpers the internal packages and cmd/gitbup build on. It
// mirrors restic's internal/errors: a thin shell around
// github.com/pkg/errors that adds a "this is a user-facing, non-retryable
// failure" marker.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// New, Errorf, Wrap, Wrapf and Cause re-export github.com/pkg/errors so
// callers never need to import both packages.
var (
	New    = errors.New
	Errorf = errors.Errorf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Cause  = errors.Cause
)

// fatalError marks an error as a user-facing failure that should not be
// retried or unwrapped further by the CLI.
type fatalError string

func (e fatalError) Error() string { return string(e) }

// Fatal returns an error that IsFatal reports true for.
func Fatal(s string) error { return fatalError(s) }

// Fatalf is like Fatal but with formatting, in the manner of fmt.Errorf.
func Fatalf(s string, args ...interface{}) error {
	return fatalError(fmt.Sprintf(s, args...))
}

// IsFatal returns whether err was produced by Fatal or Fatalf.
func IsFatal(err error) bool {
	_, ok := err.(fatalError)
	return ok
}

// The five error kinds spec.md §7 names. Each is a sentinel compared with
// errors.Is; callers that need a payload (e.g. which fingerprint was
// missing) wrap one of these with Wrap/Wrapf.

// ErrObjectNotFound is returned by a host-ODB lookup miss.
var ErrObjectNotFound = errors.New("object not found")

// ErrStorage wraps any host-ODB write or I/O failure.
var ErrStorage = errors.New("storage error")

// ErrAllocation marks an out-of-memory failure while building a buffer or
// descriptor.
var ErrAllocation = errors.New("allocation error")

// ErrManifestFormat is returned when manifest decoding fails. Per
// spec.md §4.5, the backend's read path coerces this into "treat as a
// plain blob" rather than surfacing it to the caller.
var ErrManifestFormat = errors.New("manifest format error")

// ErrCorruptManifest is returned when a manifest decodes successfully but
// a chunk it references is missing or unreadable at reassembly time.
var ErrCorruptManifest = errors.New("corrupt manifest")
