// Package cabi maps resolved types onto the C ABI vocabulary: fixed-width
// integers from <stdint.h>, float, double, void and pointers to those.
package cabi

import (
	"fmt"
	"strings"
)

// Token is a base C type.
type Token uint8

const (
	TokInvalid Token = iota
	TokVoid
	TokIntPtr
	TokInt8
	TokInt16
	TokInt32
	TokInt64
	TokUintPtr
	TokUint8
	TokUint16
	TokUint32
	TokUint64
	TokFloat
	TokDouble
)

var tokenSpelling = [...]string{
	TokInvalid: "<invalid>",
	TokVoid:    "void",
	TokIntPtr:  "intptr_t",
	TokInt8:    "int8_t",
	TokInt16:   "int16_t",
	TokInt32:   "int32_t",
	TokInt64:   "int64_t",
	TokUintPtr: "uintptr_t",
	TokUint8:   "uint8_t",
	TokUint16:  "uint16_t",
	TokUint32:  "uint32_t",
	TokUint64:  "uint64_t",
	TokFloat:   "float",
	TokDouble:  "double",
}

func (t Token) String() string {
	if int(t) < len(tokenSpelling) {
		return tokenSpelling[t]
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Size returns the size in bytes for a target with the given pointer size.
// void has no size.
func (t Token) Size(ptrSize int) int {
	switch t {
	case TokInt8, TokUint8:
		return 1
	case TokInt16, TokUint16:
		return 2
	case TokInt32, TokUint32, TokFloat:
		return 4
	case TokInt64, TokUint64, TokDouble:
		return 8
	case TokIntPtr, TokUintPtr:
		return ptrSize
	default:
		return 0
	}
}

// Type is a C type: a base token followed by Pointers levels of `*`.
type Type struct {
	Base     Token
	Pointers int
}

// Void is the "no value" type.
var Void = Type{Base: TokVoid}

// IsVoid reports whether t is plain void (not a pointer to void).
func (t Type) IsVoid() bool {
	return t.Base == TokVoid && t.Pointers == 0
}

// IsPointer reports whether t has at least one pointer level.
func (t Type) IsPointer() bool {
	return t.Pointers > 0
}

func (t Type) String() string {
	if t.Pointers == 0 {
		return t.Base.String()
	}
	return t.Base.String() + strings.Repeat("*", t.Pointers)
}
