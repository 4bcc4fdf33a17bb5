package fetch

import "fmt"

// UpstreamError is a non-success HTTP status from a provider. Within the
// retry loop it is treated the same as a connection failure.
type UpstreamError struct {
	URL    string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.Status)
}

// NetworkError is the terminal failure after every attempt was exhausted.
// Only the direct adapter caller ever sees it; adapters never let it escape.
type NetworkError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
