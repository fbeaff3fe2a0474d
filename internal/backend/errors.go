package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"snapdocs/internal/domain"
)

// ExtractionUnavailableError is returned when every backend in the chain
// failed. It carries one attempt record per backend for diagnostics.
type ExtractionUnavailableError struct {
	Attempts []domain.BackendAttempt
}

func (e *ExtractionUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s (%s): %s", a.Backend, a.Class, a.Err))
	}
	return fmt.Sprintf("all extraction backends failed: %s", strings.Join(parts, "; "))
}

func (e *ExtractionUnavailableError) Unwrap() error {
	return domain.ErrExtractionUnavailable
}

// classifyFailure labels a failed attempt for diagnostics. The chain treats
// every class the same way: log and advance.
func classifyFailure(err error) domain.FailureClass {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.FailureTimeout
	case errors.Is(err, domain.ErrMalformedOutput):
		return domain.FailureMalformed
	case errors.Is(err, domain.ErrConfiguration):
		return domain.FailureConfig
	case errors.Is(err, domain.ErrBackendUnavailable):
		return domain.FailureUnreachable
	default:
		return domain.FailureRejected
	}
}
