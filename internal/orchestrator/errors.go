package orchestrator

import (
	"fmt"
	"strings"
)

// AttemptError captures one backend attempt failure.
type AttemptError struct {
	Extractor string
	Err       error
}

func (e AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Extractor, e.Err)
}

func (e AttemptError) Unwrap() error {
	return e.Err
}

// AllExtractorsFailedError is returned when no backend attempt succeeded.
type AllExtractorsFailedError struct {
	Attempts []AttemptError
}

func (e *AllExtractorsFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all extractors failed"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("all extractors failed: %s", strings.Join(parts, "; "))
}

// Unwrap exposes every attempt error to errors.Is and errors.As.
func (e *AllExtractorsFailedError) Unwrap() []error {
	out := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		out = append(out, a.Err)
	}
	return out
}
