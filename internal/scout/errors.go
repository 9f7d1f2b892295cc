package scout

import (
	"errors"
	"fmt"
)

// Extraction failure taxonomy. The finder recovers from all three by
// returning the synthetic fallback pair; they exist so logs and metrics can
// tell the failure modes apart.
var (
	// ErrConnection means the remote browser session could not be established.
	ErrConnection = errors.New("browser connection failed")
	// ErrNavigation means the listing page did not load.
	ErrNavigation = errors.New("listing navigation failed")
	// ErrStructureTimeout means the expected list structure never appeared
	// within the wait window.
	ErrStructureTimeout = errors.New("listing structure not found before timeout")
)

// ExtractionError wraps an extraction failure with the topic it occurred for.
type ExtractionError struct {
	Topic string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract candidates for topic %q: %v", e.Topic, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
