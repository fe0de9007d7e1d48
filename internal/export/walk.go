package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"hdrgen/internal/ast"
	"hdrgen/internal/cabi"
	"hdrgen/internal/diag"
	"hdrgen/internal/symbols"
	"hdrgen/internal/types"
)

const hintPrimitivesOnly = "only primitives, pointers to primitives and nil can cross the C ABI; wrap other types behind a pointer-sized handle"

type walker struct {
	tab     *types.Table
	exports ast.ExportSet
	rep     diag.Reporter
	decls   []Decl
	stats   Stats
}

// Walk traverses the unit's module tree depth-first, in source order, and
// returns one Decl per exported item that has a C representation.
//
// Items that cannot be declared but do no harm by their absence are reported
// to rep as warnings and skipped. A type without C representation aborts the
// walk: the returned error wraps a *FatalError and the result is nil.
func Walk(u *ast.Unit, rep diag.Reporter) (*Result, error) {
	if u == nil {
		return nil, errors.New("nil unit")
	}
	if rep == nil {
		rep = diag.NopReporter{}
	}
	name, ok := u.Name()
	if !ok {
		fe := &FatalError{Code: diag.HdrMissingUnitName, Err: ErrMissingUnitName}
		return nil, errors.WithHint(fe, fmt.Sprintf("add #[%s = \"...\"] to the unit; the header is named after it", ast.AttrUnitName))
	}
	if err := CheckUnitName(name); err != nil {
		fe := &FatalError{Code: diag.HdrInvalidUnitName, Err: err}
		return nil, errors.WithHint(fe, "the header is written as <out-dir>/<unit_name>.h; use a name without path separators")
	}

	w := &walker{
		tab:     u.Table(),
		exports: u.ExportSet(),
		rep:     rep,
	}
	if err := w.visit(&u.Root); err != nil {
		return nil, err
	}
	return &Result{UnitName: name, Decls: w.decls, Stats: w.stats}, nil
}

func (w *walker) visit(it *ast.Item) error {
	w.stats.Items++
	exported := w.exports.Contains(it.ID)

	switch it.Kind {
	case ast.ItemModule:
		// Modules are never export-gated: a private module can still hold
		// reachable items.
		for i := range it.Children {
			if err := w.visit(&it.Children[i]); err != nil {
				return err
			}
		}
		return nil
	case ast.ItemFn:
		if !it.IsForeignCallable() || !exported || it.IsGeneric() {
			return nil
		}
		return w.function(it)
	case ast.ItemStruct:
		if !exported || it.IsGeneric() {
			return nil
		}
		return w.structure(it)
	case ast.ItemEnum:
		if exported {
			w.skip(diag.HdrUnsupportedItemKind, it, fmt.Sprintf("exported enum %s is not emitted (unsupported)", it.Name)).
				WithNote("enum representation is not fixed by the ABI").
				Emit()
		}
		return nil
	default:
		return nil
	}
}

func (w *walker) function(it *ast.Item) error {
	sym := symbols.Resolve(it.Name, it.Attrs)
	if !sym.Nameable() {
		w.skip(diag.HdrUnnameableSymbol, it, fmt.Sprintf("exported C ABI function %s has a mangled name, not emitting", it.Name)).
			WithNote(fmt.Sprintf("add #[%s] or #[%s = \"...\"]", ast.AttrNoMangle, ast.AttrExportName)).
			Emit()
		return nil
	}

	result, err := w.mapType(it, it.Result, "return type", cabi.Map)
	if err != nil {
		return err
	}
	params := make([]cabi.Type, 0, len(it.Params))
	for i, p := range it.Params {
		where := fmt.Sprintf("parameter %d", i+1)
		if p.Name != "" {
			where = fmt.Sprintf("parameter %s", p.Name)
		}
		pt, err := w.mapType(it, p.Type, where, cabi.MapValue)
		if err != nil {
			return err
		}
		params = append(params, pt)
	}

	w.stats.Functions++
	w.decls = append(w.decls, Decl{
		Kind:   DeclFn,
		Item:   it.ID,
		Name:   sym.Name,
		Params: params,
		Result: result,
	})
	return nil
}

func (w *walker) structure(it *ast.Item) error {
	if it.Tuple {
		w.skip(diag.HdrUnsupportedShape, it, fmt.Sprintf("exported tuple-struct %s is not emitted (unsupported)", it.Name)).Emit()
		return nil
	}
	// The front end does not promise that a record struct has only named
	// fields, so a positional field is a shape problem, not a crash.
	for i, f := range it.Fields {
		if f.Name == "" {
			w.skip(diag.HdrUnsupportedShape, it, fmt.Sprintf("exported struct %s has an unnamed field at position %d, not emitting", it.Name, i+1)).Emit()
			return nil
		}
	}
	if len(it.Fields) == 0 {
		w.skip(diag.HdrUnsupportedShape, it, fmt.Sprintf("exported struct %s has no fields, not emitting", it.Name)).
			WithNote("an empty struct has no portable C layout").
			Emit()
		return nil
	}

	fields := make([]Field, 0, len(it.Fields))
	for _, f := range it.Fields {
		ft, err := w.mapType(it, f.Type, "field "+f.Name, cabi.MapValue)
		if err != nil {
			return err
		}
		fields = append(fields, Field{Name: f.Name, Type: ft})
	}

	w.stats.Structs++
	w.decls = append(w.decls, Decl{
		Kind:   DeclStruct,
		Item:   it.ID,
		Name:   it.Name,
		Fields: fields,
	})
	return nil
}

type mapFunc func(*types.Table, types.TypeID) (cabi.Type, error)

func (w *walker) mapType(it *ast.Item, id types.TypeID, where string, mapper mapFunc) (cabi.Type, error) {
	t, err := mapper(w.tab, id)
	if err == nil {
		return t, nil
	}
	fe := &FatalError{
		Code:    diag.HdrUnsupportedType,
		Subject: diag.About(it),
		Where:   where,
		Err:     err,
	}
	return cabi.Type{}, errors.WithHint(fe, hintPrimitivesOnly)
}

func (w *walker) skip(code diag.Code, it *ast.Item, msg string) *diag.ReportBuilder {
	w.stats.Skipped++
	return diag.ReportWarning(w.rep, code, diag.About(it), msg)
}

// CheckUnitName rejects unit names that are not a single path element: the
// header file is named after the unit and must stay inside the output
// directory.
func CheckUnitName(name string) error {
	switch {
	case name == "." || name == "..":
	case strings.ContainsAny(name, `/\`+"\x00"):
	case filepath.IsAbs(name) || filepath.VolumeName(name) != "":
	default:
		return nil
	}
	return errors.Wrapf(ErrInvalidUnitName, "unit_name %q", name)
}
