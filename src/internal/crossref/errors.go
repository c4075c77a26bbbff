package crossref

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is; the typed errors below match them.
var (
	ErrUpstream = errors.New("crossref: upstream error")
	ErrNotFound = errors.New("crossref: no metadata found")
)

// UpstreamError is returned when the registry answers with a non-success
// HTTP status.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string // first 4 KiB of the response, whitespace collapsed
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("failed to fetch metadata from CrossRef: http %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("failed to fetch metadata from CrossRef: http %d", e.StatusCode)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// NotFoundError is returned when the registry document has no journal
// record for the requested DOI. The registry answers unknown or malformed
// DOIs this way rather than with an error status.
type NotFoundError struct {
	DOI string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no metadata found for the given DOI: %s", e.DOI)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUpstream returns true if err is or wraps an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
