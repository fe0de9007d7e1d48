package types

import (
	"fmt"
	"strings"
)

// maxDescribeDepth bounds Describe on cyclic or hostile tables.
const maxDescribeDepth = 64

// Describe renders a type in source-like notation for diagnostics.
func (t *Table) Describe(id TypeID) string {
	var b strings.Builder
	t.describe(&b, id, 0)
	return b.String()
}

func (t *Table) describe(b *strings.Builder, id TypeID, depth int) {
	if depth > maxDescribeDepth {
		b.WriteString("...")
		return
	}
	if id == NoTypeID {
		b.WriteString("nil")
		return
	}
	tt, ok := t.Lookup(id)
	if !ok {
		fmt.Fprintf(b, "type#%d", id)
		return
	}
	switch tt.Kind {
	case KindPrim:
		b.WriteString(tt.Prim.String())
	case KindIndirect:
		switch tt.Indirect {
		case IndirectOwn:
			b.WriteString("own ")
		case IndirectPtr:
			if tt.Mutable {
				b.WriteString("*mut ")
			} else {
				b.WriteString("*")
			}
		default:
			if tt.Mutable {
				b.WriteString("&mut ")
			} else {
				b.WriteString("&")
			}
		}
		t.describe(b, tt.Elem, depth+1)
	case KindNil:
		b.WriteString("nil")
	case KindNever:
		b.WriteString("never")
	case KindNamed:
		b.WriteString(tt.Name)
	case KindDynSeq:
		t.describe(b, tt.Elem, depth+1)
		b.WriteString("[]")
	case KindFixedSeq:
		t.describe(b, tt.Elem, depth+1)
		fmt.Fprintf(b, "[%d]", tt.Len)
	case KindManaged:
		b.WriteString("@")
		t.describe(b, tt.Elem, depth+1)
	case KindClosure:
		b.WriteString("closure")
	case KindFnPtr:
		b.WriteString("fn")
	case KindTuple:
		b.WriteString("tuple")
	case KindInfer:
		b.WriteString("_")
	case KindStr:
		b.WriteString("string")
	default:
		b.WriteString(tt.Kind.String())
	}
}
