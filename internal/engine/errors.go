package engine

import "fmt"

// Code classifies a lift error.
type Code string

const (
	// CodeNoOp means the command produced no legs.
	CodeNoOp Code = "NO_OP"
	// CodeOutOfRangeHigh means the itinerary would pass the top floor.
	CodeOutOfRangeHigh Code = "OUT_OF_RANGE_HIGH"
	// CodeOutOfRangeLow means the itinerary would pass the bottom floor.
	CodeOutOfRangeLow Code = "OUT_OF_RANGE_LOW"
	// CodeInvalidLabelInput means a label guess is not a floor number.
	CodeInvalidLabelInput Code = "INVALID_LABEL_INPUT"
	// CodeUnrecognizedBootstrapState means the resume parameter names no mission state.
	CodeUnrecognizedBootstrapState Code = "UNRECOGNIZED_BOOTSTRAP_STATE"
	// CodeControlsDisabled means input arrived while the lift was moving.
	CodeControlsDisabled Code = "CONTROLS_DISABLED"
	// CodeSubmitDisabled means a guess was submitted with no guess requested.
	CodeSubmitDisabled Code = "SUBMIT_DISABLED"
)

// Error is a recoverable lift error.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrNoOp                       = &Error{Code: CodeNoOp, Message: "command has no moves"}
	ErrOutOfRangeHigh             = &Error{Code: CodeOutOfRangeHigh, Message: "too high"}
	ErrOutOfRangeLow              = &Error{Code: CodeOutOfRangeLow, Message: "too low"}
	ErrInvalidLabelInput          = &Error{Code: CodeInvalidLabelInput, Message: "not a floor number"}
	ErrUnrecognizedBootstrapState = &Error{Code: CodeUnrecognizedBootstrapState, Message: "unknown mission state"}
	ErrControlsDisabled           = &Error{Code: CodeControlsDisabled, Message: "controls are disabled"}
	ErrSubmitDisabled             = &Error{Code: CodeSubmitDisabled, Message: "nothing to submit"}
)

func newError(code Code, metadata map[string]string, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Metadata: metadata,
	}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}
