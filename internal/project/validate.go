package project

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"hdrgen/internal/ast"
	"hdrgen/internal/types"
)

// ErrMalformedUnit marks structural problems in a decoded unit.
var ErrMalformedUnit = errors.New("malformed unit")

// Validate checks the invariants the walker relies on: item ids are valid
// and unique, and every type reference points inside the type table. It
// does not check that a unit_name is present; that is the walker's call.
// The export set is only queried for membership, so ids in it that name no
// item of the tree (methods, fields, variants) are fine.
func Validate(u *ast.Unit) error {
	if u == nil {
		return errors.Mark(errors.New("nil unit"), ErrMalformedUnit)
	}
	if u.Root.Kind != ast.ItemModule {
		return malformed("root item is %s, not a module", u.Root.Kind)
	}
	n := len(u.Types)
	if n == 0 {
		n = 1
	}
	checkType := func(where string, id types.TypeID) error {
		if int(id) >= n {
			return malformed("%s refers to type#%d, table has %d entries", where, id, n)
		}
		return nil
	}
	for i, t := range u.Types {
		if i == 0 {
			continue
		}
		if t.Kind == types.KindIndirect || t.Kind == types.KindDynSeq || t.Kind == types.KindFixedSeq || t.Kind == types.KindManaged {
			if t.Elem == types.NoTypeID {
				return malformed("type#%d (%s) has no element type", i, t.Kind)
			}
			if err := checkType(fmt.Sprintf("type#%d", i), t.Elem); err != nil {
				return err
			}
		}
	}

	seen := make(map[ast.ItemID]struct{}, 64)
	var err error
	ast.Inspect(&u.Root, func(it *ast.Item) bool {
		if err != nil {
			return false
		}
		if !it.ID.IsValid() {
			err = malformed("item %q has no id", it.Name)
			return false
		}
		if _, dup := seen[it.ID]; dup {
			err = malformed("item id %d is used twice (second: %q)", it.ID, it.Name)
			return false
		}
		seen[it.ID] = struct{}{}
		if it.Kind != ast.ItemModule && len(it.Children) > 0 {
			err = malformed("%s %q has children", it.Kind, it.Name)
			return false
		}
		for i, p := range it.Params {
			if err = checkType(fmt.Sprintf("parameter %d of %s", i+1, it.Name), p.Type); err != nil {
				return false
			}
		}
		if err = checkType("result of "+it.Name, it.Result); err != nil {
			return false
		}
		for i, f := range it.Fields {
			if err = checkType(fmt.Sprintf("field %d of %s", i+1, it.Name), f.Type); err != nil {
				return false
			}
		}
		return true
	})
	return err
}

func malformed(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedUnit)
}
