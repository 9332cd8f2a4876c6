package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/RafalekS/MCP-Search/internal/infrastructure/resilience"
)

// ErrNetwork marks transport-level failures: timeout, DNS, refused
// connections, or a tripped circuit. Callers recover these as empty
// results eligible for one retry.
var ErrNetwork = errors.New("network failure")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// IsHTTP reports whether err carries any HTTP status at all, meaning
// the host answered even if it refused.
func IsHTTP(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// IsAuth reports whether err represents an authentication failure
// (401/403). Sources hitting this degrade to empty results without retry
// churn against the same bad token.
func IsAuth(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == 401 || se.Code == 403
}

// IsNetwork reports whether err is transport-level rather than a server
// verdict.
func IsNetwork(err error) bool {
	if errors.Is(err, ErrNetwork) || errors.Is(err, resilience.ErrCircuitOpen) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func classify(url string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %v", ErrNetwork, url, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrNetwork, url, err)
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return fmt.Errorf("%w: %s: %v", ErrNetwork, url, err)
	}
	var se *StatusError
	if errors.As(err, &se) {
		return err
	}
	// Anything else coming out of the transport stack is network-shaped.
	return fmt.Errorf("%w: %s: %v", ErrNetwork, url, err)
}
