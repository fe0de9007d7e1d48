// Package export walks a resolved unit and produces the declarations that
// make up its C header.
package export

import (
	"hdrgen/internal/ast"
	"hdrgen/internal/cabi"
)

// DeclKind tags the Decl variant.
type DeclKind uint8

const (
	DeclFn DeclKind = iota + 1
	DeclStruct
)

func (k DeclKind) String() string {
	switch k {
	case DeclFn:
		return "fn"
	case DeclStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Field is one struct member in declaration order.
type Field struct {
	Name string
	Type cabi.Type
}

// Decl is one emission unit. Params and Result are set for DeclFn, Fields
// for DeclStruct.
type Decl struct {
	Kind   DeclKind
	Item   ast.ItemID
	Name   string
	Params []cabi.Type
	Result cabi.Type
	Fields []Field
}

// Stats counts what the walk saw; the pipeline logs it.
type Stats struct {
	Items     int
	Functions int
	Structs   int
	Skipped   int
}

// Result is the outcome of a successful walk.
type Result struct {
	// UnitName is the identifying name the header is keyed by.
	UnitName string
	Decls    []Decl
	Stats    Stats
}
