package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Table is the type-resolution table of one unit. Slot 0 is reserved for
// NoTypeID, so a TypeID is also an index into Types().
type Table struct {
	types []Type
	index map[Type]TypeID
}

// NewTable constructs an empty table.
func NewTable() *Table {
	return &Table{
		types: []Type{{Kind: KindInvalid}},
		index: make(map[Type]TypeID, 64),
	}
}

// FromSlice rebuilds a table from its serialized form. The first element is
// the reserved slot and is ignored; ids are kept as-is even when descriptors
// repeat, because items already refer to them.
func FromSlice(ts []Type) *Table {
	t := &Table{
		types: make([]Type, 0, max(len(ts), 1)),
		index: make(map[Type]TypeID, len(ts)),
	}
	t.types = append(t.types, Type{Kind: KindInvalid})
	for i := 1; i < len(ts); i++ {
		id := t.appendRaw(ts[i])
		if _, ok := t.index[ts[i]]; !ok {
			t.index[ts[i]] = id
		}
	}
	return t
}

// Intern ensures the provided descriptor has a stable TypeID.
func (t *Table) Intern(tt Type) TypeID {
	if tt.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := t.index[tt]; ok {
		return id
	}
	id := t.appendRaw(tt)
	t.index[tt] = id
	return id
}

func (t *Table) appendRaw(tt Type) TypeID {
	n, err := safecast.Conv[uint32](len(t.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	t.types = append(t.types, tt)
	return TypeID(n)
}

// Lookup returns the descriptor for a TypeID.
func (t *Table) Lookup(id TypeID) (Type, bool) {
	if t == nil || id == NoTypeID || int(id) >= len(t.types) {
		return Type{}, false
	}
	return t.types[id], true
}

// Len reports the number of slots including the reserved one.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.types)
}

// Types returns the serialized form (reserved slot included).
// The slice aliases table storage; do not modify it.
func (t *Table) Types() []Type {
	if t == nil {
		return nil
	}
	return t.types
}

// Prim interns a primitive and returns its id.
func (t *Table) Prim(p Prim) TypeID {
	return t.Intern(MakePrim(p))
}
