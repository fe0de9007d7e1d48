// Package testkit builds resolved units for tests without a front end.
package testkit

import (
	"hdrgen/internal/ast"
	"hdrgen/internal/types"
)

// UnitBuilder assembles an ast.Unit. Items get ids in creation order.
type UnitBuilder struct {
	Types  *types.Table
	unit   *ast.Unit
	nextID ast.ItemID
	stack  []*ast.Item
}

// NewUnit starts a unit; name becomes the unit_name attribute unless empty.
func NewUnit(name string) *UnitBuilder {
	b := &UnitBuilder{Types: types.NewTable(), nextID: 1}
	b.unit = &ast.Unit{Path: name + ".json"}
	if name != "" {
		b.unit.Attrs = append(b.unit.Attrs, ast.NameValue(ast.AttrUnitName, name))
	}
	b.unit.Root = ast.Item{ID: b.newID(), Kind: ast.ItemModule, Name: name}
	b.stack = []*ast.Item{&b.unit.Root}
	return b
}

func (b *UnitBuilder) newID() ast.ItemID {
	id := b.nextID
	b.nextID++
	return id
}

// Prim interns a primitive.
func (b *UnitBuilder) Prim(p types.Prim) types.TypeID {
	return b.Types.Prim(p)
}

// Own interns an owned box of elem.
func (b *UnitBuilder) Own(elem types.TypeID) types.TypeID {
	return b.Types.Intern(types.MakeOwn(elem))
}

// Ptr interns a raw pointer to elem.
func (b *UnitBuilder) Ptr(elem types.TypeID) types.TypeID {
	return b.Types.Intern(types.MakePointer(elem, true))
}

// Ref interns an immutable reference to elem.
func (b *UnitBuilder) Ref(elem types.TypeID) types.TypeID {
	return b.Types.Intern(types.MakeReference(elem, false))
}

// Leaf interns a payload-free kind (str, tuple, closure...).
func (b *UnitBuilder) Leaf(k types.Kind) types.TypeID {
	return b.Types.Intern(types.MakeLeaf(k))
}

// Type interns an arbitrary descriptor.
func (b *UnitBuilder) Type(t types.Type) types.TypeID {
	return b.Types.Intern(t)
}

func (b *UnitBuilder) add(it ast.Item, exported bool) ast.ItemID {
	it.ID = b.newID()
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, it)
	if exported {
		b.unit.Exports = append(b.unit.Exports, it.ID)
	}
	return it.ID
}

// Module opens a nested module; body adds its children.
func (b *UnitBuilder) Module(name string, exported bool, body func()) ast.ItemID {
	id := b.add(ast.Item{Kind: ast.ItemModule, Name: name}, exported)
	parent := b.stack[len(b.stack)-1]
	b.stack = append(b.stack, &parent.Children[len(parent.Children)-1])
	body()
	b.stack = b.stack[:len(b.stack)-1]
	return id
}

// Fn describes a function; call Add to attach it.
type Fn struct {
	b        *UnitBuilder
	item     ast.Item
	exported bool
}

// Fn starts an exported, non-generic C ABI function returning nothing.
func (b *UnitBuilder) Fn(name string) *Fn {
	return &Fn{b: b, item: ast.Item{Kind: ast.ItemFn, Name: name, ABI: ast.ABIC}, exported: true}
}

func (f *Fn) NoMangle() *Fn {
	f.item.Attrs = append(f.item.Attrs, ast.Marker(ast.AttrNoMangle))
	return f
}

func (f *Fn) ExportName(name string) *Fn {
	f.item.Attrs = append(f.item.Attrs, ast.NameValue(ast.AttrExportName, name))
	return f
}

func (f *Fn) ABI(abi string) *Fn {
	f.item.ABI = abi
	return f
}

func (f *Fn) Generic(n int) *Fn {
	f.item.Generics = n
	return f
}

func (f *Fn) Private() *Fn {
	f.exported = false
	return f
}

func (f *Fn) Param(name string, t types.TypeID) *Fn {
	f.item.Params = append(f.item.Params, ast.Param{Name: name, Type: t})
	return f
}

func (f *Fn) Returns(t types.TypeID) *Fn {
	f.item.Result = t
	return f
}

// Add attaches the function to the current module.
func (f *Fn) Add() ast.ItemID {
	return f.b.add(f.item, f.exported)
}

// Struct describes a struct; call Add to attach it.
type Struct struct {
	b        *UnitBuilder
	item     ast.Item
	exported bool
}

// Struct starts an exported, non-generic record struct.
func (b *UnitBuilder) Struct(name string) *Struct {
	return &Struct{b: b, item: ast.Item{Kind: ast.ItemStruct, Name: name}, exported: true}
}

func (s *Struct) Field(name string, t types.TypeID) *Struct {
	s.item.Fields = append(s.item.Fields, ast.Field{Name: name, Type: t})
	return s
}

func (s *Struct) Tuple() *Struct {
	s.item.Tuple = true
	return s
}

func (s *Struct) Generic(n int) *Struct {
	s.item.Generics = n
	return s
}

func (s *Struct) Private() *Struct {
	s.exported = false
	return s
}

func (s *Struct) Add() ast.ItemID {
	return s.b.add(s.item, s.exported)
}

// Enum adds an enum.
func (b *UnitBuilder) Enum(name string, exported bool) ast.ItemID {
	return b.add(ast.Item{Kind: ast.ItemEnum, Name: name}, exported)
}

// Other adds an item of a kind the generator ignores.
func (b *UnitBuilder) Other(name string, exported bool) ast.ItemID {
	return b.add(ast.Item{Kind: ast.ItemOther, Name: name}, exported)
}

// Build finalizes the unit. The builder must not be used afterwards.
func (b *UnitBuilder) Build() *ast.Unit {
	b.unit.SetTable(b.Types)
	return b.unit
}
