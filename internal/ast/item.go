package ast

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"hdrgen/internal/types"
)

// ItemKind tags the Item variant.
type ItemKind uint8

const (
	ItemOther ItemKind = iota
	ItemModule
	ItemFn
	ItemStruct
	ItemEnum
)

var itemKindNames = [...]string{
	ItemOther:  "other",
	ItemModule: "module",
	ItemFn:     "fn",
	ItemStruct: "struct",
	ItemEnum:   "enum",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return fmt.Sprintf("ItemKind(%d)", k)
}

func (k ItemKind) MarshalText() ([]byte, error) {
	if int(k) >= len(itemKindNames) {
		return nil, errors.Newf("unknown item kind %d", k)
	}
	return []byte(itemKindNames[k]), nil
}

func (k *ItemKind) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range itemKindNames {
		if name == s {
			*k = ItemKind(i)
			return nil
		}
	}
	return errors.Newf("unknown item kind %q", s)
}

// ABIC is the ABI tag of functions using the C calling convention.
const ABIC = "C"

// Param is a function parameter. Name is informational only.
type Param struct {
	Name string       `json:"name,omitempty" msgpack:"name,omitempty" yaml:"name,omitempty"`
	Type types.TypeID `json:"type" msgpack:"type" yaml:"type"`
}

// Field is a struct field. Name is empty for positional fields.
type Field struct {
	Name string       `json:"name,omitempty" msgpack:"name,omitempty" yaml:"name,omitempty"`
	Type types.TypeID `json:"type" msgpack:"type" yaml:"type"`
}

// Item is one node of the resolved module tree. Which fields are meaningful
// depends on Kind:
//
//   - ItemModule: Children
//   - ItemFn: ABI, Generics, Params, Result, Attrs
//   - ItemStruct: Generics, Tuple, Fields
//   - ItemEnum, ItemOther: Name only
type Item struct {
	ID       ItemID       `json:"id" msgpack:"id" yaml:"id"`
	Kind     ItemKind     `json:"kind" msgpack:"kind" yaml:"kind"`
	Name     string       `json:"name" msgpack:"name" yaml:"name"`
	Attrs    []Attr       `json:"attrs,omitempty" msgpack:"attrs,omitempty" yaml:"attrs,omitempty"`
	ABI      string       `json:"abi,omitempty" msgpack:"abi,omitempty" yaml:"abi,omitempty"`
	Generics int          `json:"generics,omitempty" msgpack:"generics,omitempty" yaml:"generics,omitempty"`
	Params   []Param      `json:"params,omitempty" msgpack:"params,omitempty" yaml:"params,omitempty"`
	Result   types.TypeID `json:"result,omitempty" msgpack:"result,omitempty" yaml:"result,omitempty"`
	Tuple    bool         `json:"tuple,omitempty" msgpack:"tuple,omitempty" yaml:"tuple,omitempty"`
	Fields   []Field      `json:"fields,omitempty" msgpack:"fields,omitempty" yaml:"fields,omitempty"`
	Children []Item       `json:"children,omitempty" msgpack:"children,omitempty" yaml:"children,omitempty"`
}

// IsForeignCallable reports whether a function uses the C calling convention.
func (it *Item) IsForeignCallable() bool {
	return it.Kind == ItemFn && it.ABI == ABIC
}

// IsGeneric reports whether the item has type parameters.
func (it *Item) IsGeneric() bool {
	return it.Generics > 0
}

// Inspect calls fn for it and every descendant in pre-order, source order.
// Returning false from fn skips the item's children.
func Inspect(it *Item, fn func(*Item) bool) {
	if it == nil || !fn(it) {
		return
	}
	for i := range it.Children {
		Inspect(&it.Children[i], fn)
	}
}
