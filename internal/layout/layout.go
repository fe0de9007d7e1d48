// Package layout computes C struct layout (size, alignment, field offsets)
// for a target, following the System V rules: every member is placed at the
// next multiple of its alignment and the total is rounded up to the largest
// member alignment.
package layout

import (
	"math"

	"fortio.org/safecast"

	"hdrgen/internal/cabi"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int
	FieldAligns  []int
}

// LayoutEngine computes memory layout for C ABI types.
type LayoutEngine struct {
	Target Target

	cache *cache
}

// New creates a new LayoutEngine for the specified target.
func New(target Target) *LayoutEngine {
	return &LayoutEngine{
		Target: target,
		cache:  newCache(),
	}
}

// LayoutOf returns the layout of a scalar or pointer type.
func (e *LayoutEngine) LayoutOf(t cabi.Type) (TypeLayout, error) {
	l, err := e.scalar(t, -1)
	if err != nil {
		return l, err
	}
	return l, nil
}

func (e *LayoutEngine) scalar(t cabi.Type, field int) (TypeLayout, *LayoutError) {
	if t.IsPointer() {
		return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}, nil
	}
	switch t.Base {
	case cabi.TokVoid:
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrVoidField, Type: t, Field: field}
	case cabi.TokInt64, cabi.TokUint64, cabi.TokDouble:
		return TypeLayout{Size: 8, Align: e.Target.Int64Align}, nil
	case cabi.TokIntPtr, cabi.TokUintPtr:
		return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}, nil
	}
	size := t.Base.Size(e.Target.PtrSize)
	if size == 0 {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrUnknownToken, Type: t, Field: field}
	}
	return TypeLayout{Size: size, Align: size}, nil
}

// StructLayout lays out a struct whose members have the given types, in
// declaration order.
func (e *LayoutEngine) StructLayout(fields []cabi.Type) (TypeLayout, error) {
	if e.cache == nil {
		e.cache = newCache()
	}
	key := shapeKey(fields)
	if cached, ok := e.cache.get(key); ok {
		return cached, nil
	}

	offsets := make([]int, len(fields))
	aligns := make([]int, len(fields))
	var size uint64
	align := 1
	for i, f := range fields {
		fl, lerr := e.scalar(f, i)
		if lerr != nil {
			return TypeLayout{Size: 0, Align: 1}, lerr
		}
		size = roundUp(size, fl.Align)
		off, err := safecast.Conv[int](size)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrOverflow, Type: f, Field: i, Err: err}
		}
		offsets[i] = off
		aligns[i] = fl.Align
		size += uint64(fl.Size) //nolint:gosec // scalar sizes are at most 8
		align = maxInt(align, fl.Align)
	}
	size = roundUp(size, align)
	if size > math.MaxInt32 {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrOverflow, Field: -1}
	}
	total, err := safecast.Conv[int](size)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrOverflow, Field: -1, Err: err}
	}

	layout := TypeLayout{
		Size:         total,
		Align:        align,
		FieldOffsets: offsets,
		FieldAligns:  aligns,
	}
	e.cache.put(key, &layout)
	return layout, nil
}

// SizeOf returns the size of a struct in bytes.
func (e *LayoutEngine) SizeOf(fields []cabi.Type) (int, error) {
	l, err := e.StructLayout(fields)
	return l.Size, err
}

// FieldOffset returns the byte offset of a struct field.
func (e *LayoutEngine) FieldOffset(fields []cabi.Type, fieldIdx int) (int, error) {
	l, err := e.StructLayout(fields)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.FieldOffsets) {
		return 0, nil
	}
	return l.FieldOffsets[fieldIdx], nil
}

func roundUp(n uint64, align int) uint64 {
	if align <= 1 {
		return n
	}
	a := uint64(align) //nolint:gosec // align is a small positive power of two
	r := n % a
	if r == 0 {
		return n
	}
	return n + (a - r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
