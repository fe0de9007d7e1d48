package layout

import (
	"fmt"

	"hdrgen/internal/cabi"
)

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrVoidField indicates a by-value void member, which has no size.
	LayoutErrVoidField LayoutErrorKind = iota + 1
	// LayoutErrUnknownToken indicates a token without a size table entry.
	LayoutErrUnknownToken
	// LayoutErrOverflow indicates a size that does not fit the target's int.
	LayoutErrOverflow
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind  LayoutErrorKind
	Type  cabi.Type
	Field int // index of the offending field, -1 for scalars
	Err   error
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := ""
	if e.Field >= 0 {
		where = fmt.Sprintf(" (field %d)", e.Field+1)
	}
	switch e.Kind {
	case LayoutErrVoidField:
		return "void has no size" + where
	case LayoutErrUnknownToken:
		return fmt.Sprintf("no size for %s%s", e.Type, where)
	case LayoutErrOverflow:
		if e.Err != nil {
			return fmt.Sprintf("struct size overflows%s: %v", where, e.Err)
		}
		return "struct size overflows" + where
	default:
		return fmt.Sprintf("layout error kind=%d%s", e.Kind, where)
	}
}

func (e *LayoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
