package sheettable

import (
	"errors"
	"fmt"
)

// ErrCountNotSet is returned when a table's row count is read before the
// writer has finalized it.
var ErrCountNotSet = errors.New("count not set")

// ErrDataRowStartNotFlagged is returned when the first data row is read
// before the column headers have been written.
var ErrDataRowStartNotFlagged = errors.New("data-row-start not flagged")

// ErrDataRowStartAlreadyFlagged is returned when the first data row of a
// fragment is flagged twice.
var ErrDataRowStartAlreadyFlagged = errors.New("data-row-start already flagged")

// ErrDuplicateColumn is matched by DuplicateColumnError.
var ErrDuplicateColumn = errors.New("duplicate column key")

// PreconditionError reports misuse of a Table: reading state that has not
// been set yet, or setting state that may only be set once.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("sheettable: %s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func preconditionError(op string, err error) *PreconditionError {
	return &PreconditionError{Op: op, Err: err}
}

// DuplicateColumnError is returned when a ColumnCollection is built with two
// columns sharing a key.
type DuplicateColumnError struct {
	Key string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("sheettable: %v %q", ErrDuplicateColumn, e.Key)
}

func (e *DuplicateColumnError) Is(target error) bool {
	return target == ErrDuplicateColumn
}
