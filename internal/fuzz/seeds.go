package fuzztests

import (
	"testing"

	"hdrgen/internal/ast"
	"hdrgen/internal/project"
	"hdrgen/internal/testkit"
	"hdrgen/internal/types"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

// seedUnits covers every item kind and the interesting type shapes.
func seedUnits() []*ast.Unit {
	hiBye := testkit.NewUnit("rust_example")
	boolT := hiBye.Prim(types.PrimBool)
	hiBye.Fn("hi").NoMangle().Param("x", hiBye.Prim(types.PrimInt)).Returns(hiBye.Own(boolT)).Add()
	hiBye.Fn("bye").NoMangle().Param("x", hiBye.Ref(boolT)).Add()

	mixed := testkit.NewUnit("mixed")
	i32 := mixed.Prim(types.PrimInt32)
	mixed.Struct("Point").Field("x", i32).Field("y", mixed.Ptr(mixed.Ptr(i32))).Add()
	mixed.Struct("Pair").Tuple().Field("", i32).Field("", i32).Add()
	mixed.Enum("Color", true)
	mixed.Fn("mangled").Add()
	mixed.Module("inner", false, func() {
		mixed.Fn("renamed").ExportName("lib_renamed").Add()
	})

	bad := testkit.NewUnit("bad")
	bad.Fn("greet").NoMangle().Param("s", bad.Leaf(types.KindStr)).Add()

	return []*ast.Unit{hiBye.Build(), mixed.Build(), bad.Build(), testkit.NewUnit("").Build()}
}

func addCorpusSeeds(f *testing.F, format project.Format) {
	for _, u := range seedUnits() {
		data, err := project.Encode(u, format)
		if err != nil {
			f.Fatalf("encode seed: %v", err)
		}
		f.Add(clampSeed(data))
	}
	// добавляем хотя бы один минимальный пример
	f.Add([]byte{})
	f.Add([]byte("{}"))
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
