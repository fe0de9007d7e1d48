package ast

import (
	"hdrgen/internal/types"
)

// Unit is one input unit as resolved by the front end: the module tree, the
// export set and the type-resolution table. The generator never mutates it.
type Unit struct {
	Path    string       `json:"-" msgpack:"-" yaml:"-"`
	Attrs   []Attr       `json:"attrs,omitempty" msgpack:"attrs,omitempty" yaml:"attrs,omitempty"`
	Root    Item         `json:"root" msgpack:"root" yaml:"root"`
	Exports []ItemID     `json:"exports,omitempty" msgpack:"exports,omitempty" yaml:"exports,omitempty"`
	Types   []types.Type `json:"types,omitempty" msgpack:"types,omitempty" yaml:"types,omitempty"`

	exportSet ExportSet
	table     *types.Table
}

// Name returns the unit's identifying name (the unit_name attribute).
func (u *Unit) Name() (string, bool) {
	if u == nil {
		return "", false
	}
	name, ok := FindValue(u.Attrs, AttrUnitName)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// ExportSet returns the export set, building it on first use.
func (u *Unit) ExportSet() ExportSet {
	if u.exportSet == nil {
		u.exportSet = NewExportSet(u.Exports)
	}
	return u.exportSet
}

// Table returns the type-resolution table, building it on first use.
func (u *Unit) Table() *types.Table {
	if u.table == nil {
		u.table = types.FromSlice(u.Types)
	}
	return u.table
}

// SetTable replaces the type table and its serialized form.
func (u *Unit) SetTable(t *types.Table) {
	u.table = t
	u.Types = t.Types()
}
