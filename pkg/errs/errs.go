// Package errs defines the sentinel errors surfaced by meshpath, so
// callers can distinguish failure modes with errors.Is instead of parsing
// strings.
package errs

import "errors"

var (
	// ErrAmbiguousEndpoint is returned when a query coordinate matches
	// more than one vertex within the configured tolerance.
	ErrAmbiguousEndpoint = errors.New("meshpath: ambiguous endpoint coordinate")

	// ErrPoolClosed is returned by requests submitted to a worker pool
	// after Close has been called.
	ErrPoolClosed = errors.New("meshpath: worker pool has been closed")

	// ErrWorkerTerminated is returned to an in-flight request whose
	// worker crashed or panicked before responding.
	ErrWorkerTerminated = errors.New("meshpath: worker terminated unexpectedly")

	// ErrInvalidOption is returned by constructors when options fail
	// validation.
	ErrInvalidOption = errors.New("meshpath: invalid option")
)
