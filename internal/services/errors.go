package services

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// APIError is a collaborator response with a non-2xx status. Detail carries
// the backend-provided message when one was present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

// ErrNoResponse marks a request that was sent but never answered before the
// transport gave up. Distinct from a connection failure.
var ErrNoResponse = errors.New("no response received from server")

// CategorizeError converts a collaborator failure into the single
// user-facing message the bot emits. Errors never propagate past this
// mapping.
func CategorizeError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Detail
		if detail == "" {
			detail = "no further detail provided"
		}
		switch {
		case apiErr.StatusCode >= 500:
			return fmt.Sprintf("Server Error (%d): %s\n\nThis usually means:\n1. Backend encountered an internal error\n2. Check backend logs for details\n3. API may be temporarily unavailable", apiErr.StatusCode, detail)
		case apiErr.StatusCode == 404:
			return "Not Found (404): API endpoint not found\n\nCheck if backend is deployed correctly"
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return fmt.Sprintf("Authentication Error (%d): %s", apiErr.StatusCode, detail)
		default:
			return fmt.Sprintf("Error (%d): %s", apiErr.StatusCode, detail)
		}
	}

	if errors.Is(err, ErrNoResponse) || errors.Is(err, context.DeadlineExceeded) {
		return "No response from server\n\nThe request was sent but no response was received.\nCheck if backend is running and accessible."
	}

	var netErr net.Error
	if errors.As(err, &netErr) || isConnectionError(err) {
		return "Network Error: Cannot connect to backend server\n\nPlease check:\n1. Backend server is running and accessible\n2. CORS is configured correctly\n3. Check server logs for details"
	}

	return err.Error()
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
