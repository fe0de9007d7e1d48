package cabi

import (
	"fmt"

	"hdrgen/internal/types"
)

// RejectError reports a type construct with no exact C representation.
// It is fatal for the unit being generated.
type RejectError struct {
	Kind   types.Kind
	Type   types.TypeID
	Reason string
}

func (e *RejectError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Reason
}

var primTokens = [...]Token{
	types.PrimInt:     TokIntPtr,
	types.PrimInt8:    TokInt8,
	types.PrimInt16:   TokInt16,
	types.PrimInt32:   TokInt32,
	types.PrimInt64:   TokInt64,
	types.PrimUint:    TokUintPtr,
	types.PrimUint8:   TokUint8,
	types.PrimUint16:  TokUint16,
	types.PrimUint32:  TokUint32,
	types.PrimUint64:  TokUint64,
	types.PrimFloat32: TokFloat,
	types.PrimFloat64: TokDouble,
	// bool is a byte; char is a full code point, not a C char.
	types.PrimBool: TokUint8,
	types.PrimChar: TokUint32,
}

// PrimToken returns the C token for a primitive.
func PrimToken(p types.Prim) (Token, bool) {
	if int(p) >= len(primTokens) {
		return TokInvalid, false
	}
	tok := primTokens[p]
	return tok, tok != TokInvalid
}

// Map translates a resolved type into its C type. NoTypeID maps to void
// only at the top: an indirection whose element is NoTypeID is rejected, a
// pointer to void needs an explicit nil element.
//
// Indirections are peeled iteratively, so nesting depth is unbounded. Every
// other kind is a leaf: it either maps exactly or is rejected. Map never
// approximates.
func Map(tab *types.Table, id types.TypeID) (Type, error) {
	pointers := 0
	outer := id
	// A cycle through Elem can only come from a malformed table; it is
	// caught by the bound below instead of looping forever.
	for steps := 0; ; steps++ {
		if id == types.NoTypeID {
			if pointers > 0 {
				return Type{}, &RejectError{Kind: types.KindIndirect, Type: outer, Reason: "indirection has no element type"}
			}
			return Void, nil
		}
		tt, ok := tab.Lookup(id)
		if !ok {
			return Type{}, &RejectError{Kind: types.KindInvalid, Type: id, Reason: fmt.Sprintf("unresolved type reference type#%d", id)}
		}
		if steps > tab.Len() {
			return Type{}, &RejectError{Kind: tt.Kind, Type: id, Reason: "cyclic indirection in type table"}
		}
		if tt.Kind == types.KindIndirect {
			pointers++
			id = tt.Elem
			continue
		}
		base, err := mapLeaf(tt, id)
		if err != nil {
			return Type{}, err
		}
		base.Pointers += pointers
		return base, nil
	}
}

func mapLeaf(tt types.Type, id types.TypeID) (Type, error) {
	reject := func(reason string) (Type, error) {
		return Type{}, &RejectError{Kind: tt.Kind, Type: id, Reason: reason}
	}
	switch tt.Kind {
	case types.KindPrim:
		tok, ok := PrimToken(tt.Prim)
		if !ok {
			return reject(fmt.Sprintf("unknown primitive %s", tt.Prim))
		}
		return Type{Base: tok}, nil
	case types.KindNil, types.KindNever:
		return Void, nil
	case types.KindNamed:
		return reject(fmt.Sprintf("named type %s is not supported, only primitives can be exported", tt.Name))
	case types.KindDynSeq:
		return reject("sequence types are not supported")
	case types.KindFixedSeq:
		return reject("fixed length sequence types are not supported")
	case types.KindClosure:
		return reject("closures are not supported")
	case types.KindFnPtr:
		return reject("function pointers are not supported")
	case types.KindTuple:
		return reject("tuples are not supported")
	case types.KindInfer:
		return reject("type was not resolved by the front end")
	case types.KindStr:
		return reject("string type has no fixed-width ABI representation")
	case types.KindManaged:
		return reject("managed boxes are not supported")
	case types.KindIndirect:
		// peeled by Map
		return reject("internal: indirection reached leaf mapping")
	case types.KindInvalid:
		return reject("invalid type")
	default:
		return reject(fmt.Sprintf("unsupported type kind %s", tt.Kind))
	}
}

// MapValue is Map for positions that hold a value: parameters and struct
// fields. Plain void is rejected there; pointers to void are fine.
func MapValue(tab *types.Table, id types.TypeID) (Type, error) {
	t, err := Map(tab, id)
	if err != nil {
		return t, err
	}
	if !t.IsVoid() {
		return t, nil
	}
	kind := types.KindNil
	if tt, ok := tab.Lookup(id); ok && id != types.NoTypeID {
		kind = tt.Kind
	}
	return Type{}, &RejectError{Kind: kind, Type: id, Reason: "void is only valid as a return type"}
}
