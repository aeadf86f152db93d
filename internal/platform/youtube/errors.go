package youtube

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

var (
	// ErrRemoteUnavailable marks transient upstream faults (transport
	// errors, 5xx). Callers may retry with backoff.
	ErrRemoteUnavailable = errors.New("remote platform unavailable")

	// ErrRemoteRejected marks permanent upstream faults for the requested
	// resource (4xx, auth, quota). Not retried automatically.
	ErrRemoteRejected = errors.New("remote platform rejected request")
)

// IsRemoteUnavailable reports whether err is a transient upstream fault.
func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}

// IsRemoteRejected reports whether err is a permanent upstream fault.
func IsRemoteRejected(err error) bool {
	return errors.Is(err, ErrRemoteRejected)
}

// classify maps an API call error onto the remote error taxonomy.
func classify(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 500 {
			return fmt.Errorf("%s: %w: %v", operation, ErrRemoteUnavailable, err)
		}
		return fmt.Errorf("%s: %w: %v", operation, ErrRemoteRejected, err)
	}

	// No structured API error means the request never got a response.
	return fmt.Errorf("%s: %w: %v", operation, ErrRemoteUnavailable, err)
}
