package ports

import (
	"context"
	"errors"
	"fmt"
)

// StepGenerator turns a topic into actionable steps using a hosted model.
type StepGenerator interface {
	// GenerateSteps expects a non-empty topic; callers validate it.
	GenerateSteps(ctx context.Context, topic string) ([]string, error)
}

// ErrGeneration matches every failure of a StepGenerator via errors.Is.
var ErrGeneration = errors.New("step generation failed")

// ConfigurationError means the generator cannot run, e.g. no API key.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "generator not configured: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrGeneration
}

// EmptyResponseError means the upstream answered without usable text.
type EmptyResponseError struct {
	Reason string
}

func (e *EmptyResponseError) Error() string {
	return "empty response from model: " + e.Reason
}

func (e *EmptyResponseError) Is(target error) bool {
	return target == ErrGeneration
}

// UpstreamError carries the upstream status and body when the call failed
// on the wire or with a non-success status. StatusCode is 0 for network errors.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream model error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream model error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrGeneration
}
