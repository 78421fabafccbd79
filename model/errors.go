package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSourceFile is matched by *MissingSourceFileError.
	ErrMissingSourceFile = errors.New("missing source file")
	// ErrEmptyResult is matched by *EmptyResultError.
	ErrEmptyResult = errors.New("no route satisfies the difficulty threshold")
	// ErrInsufficientData is matched by *InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data for projection")
	// ErrSizeBudgetExceeded is matched by *SizeBudgetExceededError.
	ErrSizeBudgetExceeded = errors.New("size budget exceeded")
	// ErrCorruptPackage is matched by *CorruptPackageError.
	ErrCorruptPackage = errors.New("corrupt package")
	// ErrNotFound is matched by *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDataset is matched by *InvalidDatasetError.
	ErrInvalidDataset = errors.New("invalid dataset")
)

// MissingSourceFileError indicates that a required input path does not resolve.
type MissingSourceFileError struct {
	Role  string // "dataset" or "archive"
	Path  string
	cause error
}

// NewMissingSourceFileError creates a MissingSourceFileError wrapping cause.
func NewMissingSourceFileError(role, path string, cause error) *MissingSourceFileError {
	return &MissingSourceFileError{Role: role, Path: path, cause: cause}
}

func (e *MissingSourceFileError) Error() string {
	return fmt.Sprintf("missing %s source file %q", e.Role, e.Path)
}

func (e *MissingSourceFileError) Unwrap() error { return e.cause }

func (e *MissingSourceFileError) Is(target error) bool { return target == ErrMissingSourceFile }

// EmptyResultError indicates that no route reaches the difficulty threshold.
type EmptyResultError struct {
	Threshold float64
	Routes    int // routes considered
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no route with difficulty >= %g among %d routes", e.Threshold, e.Routes)
}

func (e *EmptyResultError) Is(target error) bool { return target == ErrEmptyResult }

// InsufficientDataError indicates that fewer than two points were given to the projector.
type InsufficientDataError struct {
	N int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for projection: need at least 2 points, got %d", e.N)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// SizeBudgetExceededError indicates that no candidate threshold yields a package within budget.
type SizeBudgetExceededError struct {
	Threshold     float64 // requested threshold
	LastThreshold float64 // highest candidate tried
	Budget        int64
	SmallestSize  int64 // encoded size at LastThreshold
}

func (e *SizeBudgetExceededError) Error() string {
	return fmt.Sprintf("size budget %d bytes exceeded: smallest package is %d bytes at threshold %g (requested %g)",
		e.Budget, e.SmallestSize, e.LastThreshold, e.Threshold)
}

func (e *SizeBudgetExceededError) Is(target error) bool { return target == ErrSizeBudgetExceeded }

// CorruptPackageError indicates a schema, structure or referential violation in a package.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type CorruptPackageError struct {
	Reason string
	cause  error
}

// NewCorruptPackageError creates a CorruptPackageError.
func NewCorruptPackageError(cause error, format string, args ...any) *CorruptPackageError {
	return &CorruptPackageError{Reason: fmt.Sprintf(format, args...), cause: cause}
}

func (e *CorruptPackageError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("corrupt package: %s: %v", e.Reason, e.cause)
	}
	return "corrupt package: " + e.Reason
}

func (e *CorruptPackageError) Unwrap() error { return e.cause }

func (e *CorruptPackageError) Is(target error) bool { return target == ErrCorruptPackage }

// NotFoundError indicates that a route id is absent from the loaded package.
type NotFoundError struct {
	RouteID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("route %q not found", e.RouteID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidDatasetError indicates that the full dataset itself violates an invariant.
type InvalidDatasetError struct {
	Reason  string
	RouteID string
}

func (e *InvalidDatasetError) Error() string {
	if e.RouteID != "" {
		return fmt.Sprintf("invalid dataset: %s (route %q)", e.Reason, e.RouteID)
	}
	return "invalid dataset: " + e.Reason
}

func (e *InvalidDatasetError) Is(target error) bool { return target == ErrInvalidDataset }
