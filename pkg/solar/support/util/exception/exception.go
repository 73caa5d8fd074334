// Package exception provides the error types shared by the solarsink packages.
// Downstream failures are wrapped in SolarError so the failing module is visible in logs;
// caller mistakes are reported as InputError and never reach the data store.
package exception

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrUnsupportedCountry is returned when an operation is called with a country code it does not handle.
	ErrUnsupportedCountry = errors.New("unsupported country")
	// ErrMissingDirectory is returned when an export is requested without a target directory.
	ErrMissingDirectory = errors.New("target directory is not provided")
)

// SolarError is a custom error type that occurs while persisting site data.
// It holds the module where the error occurred, a message and the wrapped original error.
type SolarError struct {
	// Module indicates where the error occurred (e.g., "SiteDataPersister.PersistGeneration", "GormSession").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// StackTrace is the stack trace at the time of the error (for debugging).
	StackTrace string
}

// NewSolarError creates a new SolarError instance.
func NewSolarError(module, message string, originalErr error) *SolarError {
	return &SolarError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		StackTrace:  captureStack(),
	}
}

// Error implements the error interface.
func (e *SolarError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *SolarError) Unwrap() error {
	return e.OriginalErr
}

// InputError reports invalid caller input (unknown country, missing directory).
// It is raised before any interaction with the data store.
type InputError struct {
	Module string
	// Value is the offending input value, if any.
	Value string
	Err   error
}

// NewInputError creates a new InputError wrapping one of the package sentinels.
func NewInputError(module, value string, err error) *InputError {
	return &InputError{Module: module, Value: value, Err: err}
}

func (e *InputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("[%s] invalid input '%s': %v", e.Module, e.Value, e.Err)
	}
	return fmt.Sprintf("[%s] invalid input: %v", e.Module, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err (or anything it wraps) is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsSolarError reports whether err (or anything it wraps) is a SolarError.
func IsSolarError(err error) bool {
	var se *SolarError
	return errors.As(err, &se)
}

// ExtractErrorMessage returns the Message of a SolarError, or err.Error() otherwise.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *SolarError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

func captureStack() string {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
