package services

import "errors"

var (
	// ErrGenerationFailed wraps any StepGenerator failure during GenerateTasks.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrStore wraps connection and constraint failures of the task store.
	ErrStore = errors.New("task store failure")
)

// ValidationError is input the caller must fix. Message is safe to return.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

const (
	MsgUserIDRequired = "User ID is required"
	MsgTopicRequired  = "Topic is required"
	MsgInvalidStatus  = "Invalid completed status"
	MsgInvalidFilter  = "Invalid status filter"
	MsgTopicTooLong   = "Topic must be at most 256 characters"
	MsgUserIDTooLong  = "User ID must be at most 256 characters"
)
