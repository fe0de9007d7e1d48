package export

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"hdrgen/internal/diag"
)

// ErrMissingUnitName is the cause of the fatal error returned when a unit has
// no unit_name attribute.
var ErrMissingUnitName = errors.New("unit has no unit_name attribute")

// ErrInvalidUnitName is the cause of the fatal error returned when the
// unit_name would place the header outside the output directory.
var ErrInvalidUnitName = errors.New("unit_name is not a plain file name")

// FatalError stops generation of the current unit. Declarations collected so
// far are discarded by Walk.
type FatalError struct {
	Code    diag.Code
	Subject diag.Subject
	// Where locates the offending type inside the item: "return type",
	// "parameter 2", "field x".
	Where string
	Err   error
}

func (e *FatalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Subject.IsUnit():
		return e.Err.Error()
	case e.Where == "":
		return fmt.Sprintf("%s: %v", e.Subject.Name, e.Err)
	default:
		return fmt.Sprintf("%s of %s: %v", e.Where, e.Subject.Name, e.Err)
	}
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Diagnostic converts the error into the SevError record the pipeline keeps.
func (e *FatalError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Subject, e.Error())
}

// AsFatal extracts a *FatalError from err's chain.
func AsFatal(err error) (*FatalError, bool) {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
