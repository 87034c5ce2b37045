package asset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget wraps every reason a proxy target is refused. Callers
	// should not tell ErrRejectedHost and ErrRejectedScheme apart in responses.
	ErrInvalidTarget  = errors.New("invalid proxy target")
	ErrRejectedHost   = errors.New("host not allowed")
	ErrRejectedScheme = errors.New("scheme not allowed")

	ErrUpstreamFetch   = errors.New("upstream fetch failed")
	ErrUpstreamTimeout = errors.New("upstream timeout")
)

// UpstreamStatusError reports a non-2xx response from the asset host.
type UpstreamStatusError struct {
	Status int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}
