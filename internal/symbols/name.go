// Package symbols decides the foreign-callable symbol name of an item.
package symbols

import "hdrgen/internal/ast"

// Source records which rule produced a symbol name.
type Source uint8

const (
	// SourceNone: the symbol is mangled and cannot be spelled from C.
	SourceNone Source = iota
	// SourceExportName: taken verbatim from export_name = "...".
	SourceExportName
	// SourceNoMangle: the item identifier, kept by no_mangle.
	SourceNoMangle
)

func (s Source) String() string {
	switch s {
	case SourceExportName:
		return "export_name"
	case SourceNoMangle:
		return "no_mangle"
	default:
		return "mangled"
	}
}

// Symbol is the outcome of name resolution.
type Symbol struct {
	Name   string
	Source Source
}

// Nameable reports whether the symbol can be declared in a header.
func (s Symbol) Nameable() bool {
	return s.Source != SourceNone
}

// Resolve applies, in order: an explicit export_name, then no_mangle, then
// gives up. An unnameable result is not an error; the caller decides.
func Resolve(ident string, attrs []ast.Attr) Symbol {
	if name, ok := ast.FindValue(attrs, ast.AttrExportName); ok {
		return Symbol{Name: name, Source: SourceExportName}
	}
	if ast.Contains(attrs, ast.AttrNoMangle) {
		return Symbol{Name: ident, Source: SourceNoMangle}
	}
	return Symbol{}
}
