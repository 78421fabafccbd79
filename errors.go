package boardmap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/boardmap/blobstore"
	"github.com/hupe1980/boardmap/model"
)

// Error types shared by every stage. Each matches its sentinel with errors.Is.
type (
	MissingSourceFileError   = model.MissingSourceFileError
	EmptyResultError         = model.EmptyResultError
	InsufficientDataError    = model.InsufficientDataError
	SizeBudgetExceededError  = model.SizeBudgetExceededError
	CorruptPackageError      = model.CorruptPackageError
	NotFoundError            = model.NotFoundError
	InvalidDatasetError      = model.InvalidDatasetError
)

var (
	ErrMissingSourceFile  = model.ErrMissingSourceFile
	ErrEmptyResult        = model.ErrEmptyResult
	ErrInsufficientData   = model.ErrInsufficientData
	ErrSizeBudgetExceeded = model.ErrSizeBudgetExceeded
	ErrCorruptPackage     = model.ErrCorruptPackage
	ErrNotFound           = model.ErrNotFound
	ErrInvalidDataset     = model.ErrInvalidDataset

	// ErrPackageNotFound is returned when a named package is not in the store.
	ErrPackageNotFound = errors.New("package not found")
	// ErrInvalidName is returned for an empty package name.
	ErrInvalidName = errors.New("invalid package name")
)

// translateStoreError normalizes blob store errors at the API boundary.
func translateStoreError(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %q: %w", ErrPackageNotFound, name, err)
	}
	return err
}
