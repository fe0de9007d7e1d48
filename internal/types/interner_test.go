package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableReservesSlotZero(t *testing.T) {
	tab := NewTable()
	require.Equal(t, 1, tab.Len())
	_, ok := tab.Lookup(NoTypeID)
	assert.False(t, ok)
	assert.Equal(t, NoTypeID, tab.Intern(Type{}))
}

func TestTableDeduplicatesDescriptors(t *testing.T) {
	tab := NewTable()
	i32 := tab.Prim(PrimInt32)
	p1 := tab.Intern(MakePointer(i32, false))
	p2 := tab.Intern(MakePointer(i32, false))
	assert.Equal(t, p1, p2)
	assert.NotEqual(t, p1, tab.Intern(MakePointer(i32, true)), "mutability affects identity")
	assert.NotEqual(t, p1, tab.Intern(MakeReference(i32, false)), "pointer flavour affects identity")
}

func TestFromSliceKeepsIDs(t *testing.T) {
	src := []Type{
		{},
		MakePrim(PrimBool),
		MakePrim(PrimBool), // duplicate on purpose: items may already point at both
		MakeOwn(1),
	}
	tab := FromSlice(src)
	require.Equal(t, 4, tab.Len())
	for id := TypeID(1); id < 4; id++ {
		got, ok := tab.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, src[id], got)
	}
	assert.Equal(t, TypeID(1), tab.Intern(MakePrim(PrimBool)))
}

func TestDescribe(t *testing.T) {
	tab := NewTable()
	u8 := tab.Prim(PrimUint8)
	ref := tab.Intern(MakeReference(u8, true))
	own := tab.Intern(MakeOwn(ref))
	seq := tab.Intern(MakeFixedSeq(u8, 4))

	assert.Equal(t, "own &mut uint8", tab.Describe(own))
	assert.Equal(t, "uint8[4]", tab.Describe(seq))
	assert.Equal(t, "type#99", tab.Describe(99))
	assert.Equal(t, "nil", tab.Describe(NoTypeID))
}

func TestTypeJSONUsesNames(t *testing.T) {
	in := MakeReference(3, true)
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"indirect","indirect":"ref","mutable":true,"elem":3}`, string(raw))

	var out Type
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`{"kind":"slice"}`), &out)
	assert.Error(t, err)
}

func TestAllKindsExcludesInvalid(t *testing.T) {
	kinds := AllKinds()
	assert.NotContains(t, kinds, KindInvalid)
	assert.Len(t, kinds, int(kindCount)-1)
	assert.Len(t, AllPrims(), int(primCount)-1)
}
