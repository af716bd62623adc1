package core

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is matched by every *ProductNotFoundError.
	ErrProductNotFound = errors.New("product not found")

	// ErrUnsupportedFormat reports a file extension or format name outside csv, xlsx, json.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyExport reports an export with no rows to write.
	ErrEmptyExport = errors.New("empty export")

	// ErrInvalidDirectory reports an export directory that does not exist.
	ErrInvalidDirectory = errors.New("invalid export directory")

	// ErrSessionState reports an operation called in the wrong lifecycle state.
	ErrSessionState = errors.New("invalid session state")
)

// ProductNotFoundError is returned when no row has the requested SKU.
type ProductNotFoundError struct {
	SKU string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.SKU)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ImportError wraps any failure to load the source table.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ExportError wraps any failure to write the variance export.
type ExportError struct {
	Format Format
	Dir    string
	Err    error
}

func (e *ExportError) Error() string {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	return fmt.Sprintf("export %s to %s: %v", e.Format, dir, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// stateError reports that op is not allowed while the session is in state.
func stateError(op string, state State) error {
	return fmt.Errorf("%w: %s not allowed in state %s", ErrSessionState, op, state)
}
