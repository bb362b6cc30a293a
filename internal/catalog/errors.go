package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrDataIntegrity matches every *DataIntegrityError.
	ErrDataIntegrity = errors.New("catalog data integrity")
	// ErrMovieNotFound is returned when a title is not in the catalog.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrInvalidIndex is returned for a position outside the catalog.
	ErrInvalidIndex = errors.New("invalid catalog position")
)

// DataIntegrityError reports artifacts that cannot be served: unreadable files,
// a non-square matrix, or a matrix whose size differs from the catalog table.
type DataIntegrityError struct {
	Reason string
	Err    error
}

func (e *DataIntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDataIntegrity, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDataIntegrity, e.Reason)
}

// Is reports ErrDataIntegrity as a match.
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

func integrityErrorf(err error, format string, args ...any) error {
	return &DataIntegrityError{Reason: fmt.Sprintf(format, args...), Err: err}
}
