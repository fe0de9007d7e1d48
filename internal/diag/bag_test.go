package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagLimitKeepsFatal(t *testing.T) {
	bag := NewBag(1)
	require.True(t, bag.Add(New(SevWarning, HdrUnsupportedShape, Subject{Item: 1, Name: "a"}, "first")))
	assert.False(t, bag.Add(New(SevWarning, HdrUnsupportedShape, Subject{Item: 2, Name: "b"}, "second")))
	assert.True(t, bag.Add(NewError(HdrUnsupportedType, Subject{Item: 3, Name: "c"}, "fatal")))
	assert.Equal(t, 2, bag.Len())
	assert.True(t, bag.HasErrors())
	assert.True(t, bag.HasWarnings())
	assert.Equal(t, 1, bag.Count(SevWarning))
}

func TestNewBagClampsLimit(t *testing.T) {
	assert.Equal(t, ^uint16(0), NewBag(1<<20).Cap())
	assert.Equal(t, uint16(0), NewBag(-5).Cap())
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	r := BagReporter{Bag: bag}
	ReportWarning(r, HdrUnsupportedItemKind, Subject{Item: 9, Name: "E"}, "enum").Emit()
	ReportWarning(r, HdrUnnameableSymbol, Subject{Item: 2, Name: "f"}, "mangled").Emit()
	ReportError(r, HdrUnsupportedType, Subject{Item: 5, Name: "g"}, "tuples are not supported").Emit()
	ReportWarning(r, HdrUnnameableSymbol, Subject{Item: 2, Name: "f"}, "mangled").Emit()

	bag.Dedup()
	require.Equal(t, 3, bag.Len())
	bag.Sort()
	got := make([]Code, 0, bag.Len())
	for _, d := range bag.Items() {
		got = append(got, d.Code)
	}
	assert.Equal(t, []Code{HdrUnsupportedType, HdrUnnameableSymbol, HdrUnsupportedItemKind}, got)
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportWarning(BagReporter{Bag: bag}, HdrUnsupportedShape, Subject{}, "tuple struct").WithNote("use named fields")
	b.Emit()
	b.Emit()
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, []Note{{Msg: "use named fields"}}, bag.Items()[0].Notes)

	var nilBuilder *ReportBuilder
	assert.NotPanics(t, func() { nilBuilder.WithNote("x").Emit() })
}

func TestMultiAndDedupReporters(t *testing.T) {
	a, b := NewBag(10), NewBag(10)
	r := NewDedupReporter(MultiReporter{BagReporter{Bag: a}, nil, BagReporter{Bag: b}, NopReporter{}})
	for i := 0; i < 3; i++ {
		r.Report(HdrUnsupportedShape, SevWarning, Subject{Item: 1}, "same", nil)
	}
	r.Report(HdrUnsupportedShape, SevWarning, Subject{Item: 2}, "same", nil)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		New(SevWarning, HdrUnsupportedItemKind, Subject{Item: 4, Name: "Color"}, "exported enum Color is not emitted\n(unsupported)").
			WithNote("enums have no guaranteed layout"),
		NewError(HdrMissingUnitName, Subject{}, "unit has no unit_name attribute"),
	}
	want := "warning HDR1003 lib.json: exported enum Color is not emitted (unsupported) [Color (item#4)]\n" +
		"note HDR1003 lib.json: enums have no guaranteed layout\n" +
		"error HDR1005 lib.json: unit has no unit_name attribute"
	assert.Equal(t, want, FormatShortDiagnostics("lib.json", diags, true))
	assert.Empty(t, FormatShortDiagnostics("lib.json", nil, true))
}

func TestCodeID(t *testing.T) {
	assert.Equal(t, "HDR1004", HdrUnsupportedType.ID())
	assert.Equal(t, "UNT2001", UnitDecodeError.ID())
	assert.Equal(t, "IO4002", IOWriteFileError.ID())
	assert.Equal(t, "E0000", Code(9999).ID())
	assert.Equal(t, "Unknown error", Code(9999).Title())
}
