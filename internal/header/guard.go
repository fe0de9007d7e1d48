package header

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// GuardName derives the include guard macro for a unit: prefix, then the
// upper-cased unit name with every byte outside [A-Za-z0-9_] replaced by
// '_', then "_H". A guard never starts with a digit.
func GuardName(prefix, unitName string) string {
	var sb strings.Builder
	sb.Grow(len(prefix) + len(unitName) + 3)
	for _, r := range upper.String(prefix + unitName) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	sb.WriteString("_H")
	guard := sb.String()
	if guard[0] >= '0' && guard[0] <= '9' {
		guard = "_" + guard
	}
	return guard
}

// FileName is the destination file name for a unit.
func FileName(unitName string) string {
	return unitName + ".h"
}
