// Package util provides logging, error types, and name/range helpers
// shared across the netmatch packages.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for session and configuration failures
var (
	ErrNotConnected       = errors.New("device not connected")
	ErrNotFound           = errors.New("resource not found")
	ErrUnsupported        = errors.New("operation not supported")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing device credentials")
	ErrValidationFailed   = errors.New("validation failed")
)

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}

// UnsupportedError reports a capability a device adapter does not
// provide, naming the device and the missing capability.
type UnsupportedError struct {
	Device     string
	Capability string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("device %s does not support %s", e.Device, e.Capability)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// NewUnsupportedError creates an unsupported-capability error
func NewUnsupportedError(device, capability string) *UnsupportedError {
	return &UnsupportedError{Device: device, Capability: capability}
}
