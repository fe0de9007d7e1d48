package types

import "fmt"

// TypeID uniquely identifies a type inside the resolution table.
type TypeID uint32

// NoTypeID marks the absence of a type. A function whose result is NoTypeID
// returns nothing.
const NoTypeID TypeID = 0

// Kind enumerates every type construct the front end can resolve.
//
// The set is closed: adding a kind means every switch over Kind in this
// module must decide whether it is representable or rejected.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindPrim is a fixed-width primitive (see Prim).
	KindPrim
	// KindIndirect is an owned box, raw pointer or reference to Elem.
	KindIndirect
	KindNil
	KindNever
	// KindNamed is any path resolving to a non-primitive named type.
	KindNamed
	KindDynSeq
	KindFixedSeq
	KindClosure
	KindFnPtr
	KindTuple
	// KindInfer covers `_` and typeof placeholders left unresolved.
	KindInfer
	KindStr
	// KindManaged is a garbage-collected box.
	KindManaged

	kindCount
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindPrim:     "prim",
	KindIndirect: "indirect",
	KindNil:      "nil",
	KindNever:    "never",
	KindNamed:    "named",
	KindDynSeq:   "dynseq",
	KindFixedSeq: "fixedseq",
	KindClosure:  "closure",
	KindFnPtr:    "fnptr",
	KindTuple:    "tuple",
	KindInfer:    "infer",
	KindStr:      "str",
	KindManaged:  "managed",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// AllKinds returns every valid kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, int(kindCount)-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Prim enumerates primitive kinds. PrimInt and PrimUint are pointer-sized.
type Prim uint8

const (
	PrimInvalid Prim = iota
	PrimInt
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat32
	PrimFloat64
	PrimBool
	PrimChar

	primCount
)

var primNames = [...]string{
	PrimInvalid: "invalid",
	PrimInt:     "int",
	PrimInt8:    "int8",
	PrimInt16:   "int16",
	PrimInt32:   "int32",
	PrimInt64:   "int64",
	PrimUint:    "uint",
	PrimUint8:   "uint8",
	PrimUint16:  "uint16",
	PrimUint32:  "uint32",
	PrimUint64:  "uint64",
	PrimFloat32: "float32",
	PrimFloat64: "float64",
	PrimBool:    "bool",
	PrimChar:    "char",
}

func (p Prim) String() string {
	if p < primCount {
		return primNames[p]
	}
	return fmt.Sprintf("Prim(%d)", p)
}

// AllPrims returns every valid primitive in declaration order.
func AllPrims() []Prim {
	out := make([]Prim, 0, int(primCount)-1)
	for p := PrimInvalid + 1; p < primCount; p++ {
		out = append(out, p)
	}
	return out
}

// Indirect distinguishes the flavours of KindIndirect. All of them are a
// single machine pointer at the binary level.
type Indirect uint8

const (
	IndirectNone Indirect = iota
	IndirectOwn
	IndirectPtr
	IndirectRef
)

var indirectNames = [...]string{
	IndirectNone: "none",
	IndirectOwn:  "own",
	IndirectPtr:  "ptr",
	IndirectRef:  "ref",
}

func (i Indirect) String() string {
	if int(i) < len(indirectNames) {
		return indirectNames[i]
	}
	return fmt.Sprintf("Indirect(%d)", i)
}

// Type is a compact descriptor for any resolved type.
// It stays comparable so the table can intern by value.
type Type struct {
	Kind     Kind     `json:"kind" msgpack:"kind" yaml:"kind"`
	Prim     Prim     `json:"prim,omitempty" msgpack:"prim,omitempty" yaml:"prim,omitempty"`
	Indirect Indirect `json:"indirect,omitempty" msgpack:"indirect,omitempty" yaml:"indirect,omitempty"`
	Mutable  bool     `json:"mutable,omitempty" msgpack:"mutable,omitempty" yaml:"mutable,omitempty"`
	Elem     TypeID   `json:"elem,omitempty" msgpack:"elem,omitempty" yaml:"elem,omitempty"`
	Len      uint32   `json:"len,omitempty" msgpack:"len,omitempty" yaml:"len,omitempty"` // KindFixedSeq
	Name     string   `json:"name,omitempty" msgpack:"name,omitempty" yaml:"name,omitempty"`
}

// Descriptor helpers ---------------------------------------------------------

// MakePrim describes a primitive.
func MakePrim(p Prim) Type {
	return Type{Kind: KindPrim, Prim: p}
}

// MakeOwn describes an owned allocation of elem.
func MakeOwn(elem TypeID) Type {
	return Type{Kind: KindIndirect, Indirect: IndirectOwn, Elem: elem}
}

// MakePointer describes a raw pointer to elem.
func MakePointer(elem TypeID, mutable bool) Type {
	return Type{Kind: KindIndirect, Indirect: IndirectPtr, Elem: elem, Mutable: mutable}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindIndirect, Indirect: IndirectRef, Elem: elem, Mutable: mutable}
}

// MakeNamed describes a path resolving to a user-defined type.
func MakeNamed(name string) Type {
	return Type{Kind: KindNamed, Name: name}
}

// MakeDynSeq describes an open-ended sequence of elem.
func MakeDynSeq(elem TypeID) Type {
	return Type{Kind: KindDynSeq, Elem: elem}
}

// MakeFixedSeq describes elem[n].
func MakeFixedSeq(elem TypeID, n uint32) Type {
	return Type{Kind: KindFixedSeq, Elem: elem, Len: n}
}

// MakeLeaf describes kinds that carry no payload (nil, never, str, closure...).
func MakeLeaf(k Kind) Type {
	return Type{Kind: k}
}
