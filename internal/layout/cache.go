package layout

import (
	"strings"

	"hdrgen/internal/cabi"
)

// cache memoizes struct layouts by their field type list. Structs in one
// header often share shapes (handles, pairs of pointers).
type cache struct {
	byShape map[string]TypeLayout
}

func newCache() *cache {
	return &cache{byShape: make(map[string]TypeLayout, 64)}
}

func shapeKey(fields []cabi.Type) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}

func (c *cache) get(key string) (TypeLayout, bool) {
	if c == nil {
		return TypeLayout{}, false
	}
	l, ok := c.byShape[key]
	return l, ok
}

func (c *cache) put(key string, l *TypeLayout) {
	if c == nil {
		return
	}
	if l == nil {
		delete(c.byShape, key)
		return
	}
	c.byShape[key] = *l
}
