package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrShapeMismatch    = errors.New("label vector length does not match observation rows")

	// Design errors
	ErrDesign     = errors.New("group/replicate labels form neither a between- nor a within-subjects design")
	ErrClassCount = errors.New("number of group levels does not match the requested test")

	// Contrast errors
	ErrContrast            = errors.New("invalid contrast vector")
	ErrUnsupportedContrast = errors.New("contrast is not supported for within-subjects designs")

	// Request errors
	ErrInvalidTest   = errors.New("unrecognized test kind")
	ErrInvalidOutput = errors.New("unrecognized output kind")

	// Store errors
	ErrResultNotFound = errors.New("result not found")
)

// Error constructors with context

func NewShapeError(name string, got, want int) error {
	return fmt.Errorf("%w: %s has %d entries, expected %d", ErrShapeMismatch, name, got, want)
}

func NewDesignError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDesign, reason)
}

func NewClassCountError(test string, got int, want string) error {
	return fmt.Errorf("%w: %s requires %s group level(s), got %d", ErrClassCount, test, want, got)
}

func NewContrastError(reason string) error {
	return fmt.Errorf("%w: %s", ErrContrast, reason)
}

func NewInvalidOutputError(kind string) error {
	return fmt.Errorf("%w: %q", ErrInvalidOutput, kind)
}

// Error checking helpers

func IsDesignError(err error) bool {
	return errors.Is(err, ErrDesign)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrClassCount) ||
		errors.Is(err, ErrContrast)
}

func IsUnsupportedError(err error) bool {
	return errors.Is(err, ErrUnsupportedContrast) ||
		errors.Is(err, ErrInvalidTest) ||
		errors.Is(err, ErrInvalidOutput)
}
