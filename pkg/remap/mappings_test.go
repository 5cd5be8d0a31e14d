package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapping(t *testing.T) *Mapping {
	t.Helper()
	return NewMapping(NezobaButtons, StandardKeys, 0, "", "")
}

func TestMappingSet(t *testing.T) {
	m := testMapping(t)
	b := NezobaButtons.At(0)

	require.NoError(t, m.Set(b, Press{Key: KA}))
	combo, ok := m.Get(b)
	require.True(t, ok)
	assert.Equal(t, Press{Key: KA}, combo)
	assert.Equal(t, 1, m.Len())

	// Unknown button
	err := m.Set(Button{99, "nope"}, Press{Key: KA})
	assert.Error(t, err)

	// Key outside the codomain
	stranger := Key{"K_STRANGER", 99, GroupRegular, ""}
	err = m.Set(b, Press{Key: stranger})
	assert.Error(t, err)

	// A named key does not belong to a plain-keys codomain
	named, ok := NSKeys.Find("K_A")
	require.True(t, ok)
	err = m.Set(b, Press{Key: named})
	assert.Error(t, err)
}

func TestMappingUnset(t *testing.T) {
	m := testMapping(t)
	b := NezobaButtons.At(3)

	require.NoError(t, m.Set(b, Press{Key: KX}))
	m.Unset(b)
	_, ok := m.Get(b)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMappingIsTotal(t *testing.T) {
	m := testMapping(t)
	assert.False(t, m.IsTotal())

	for i := 0; i < NezobaButtons.Len(); i++ {
		require.NoError(t, m.Set(NezobaButtons.At(i), Press{Key: KA}))
	}
	assert.True(t, m.IsTotal())

	m.Unset(NezobaButtons.At(7))
	assert.False(t, m.IsTotal())
}

func TestMappingRaw(t *testing.T) {
	m := NewMapping(NezobaButtons, StandardKeys, 2, "Title", "several   words\n here")

	// Insertion order differs from button order
	require.NoError(t, m.Set(NezobaButtons.At(4), And{Press{Key: KA}, Press{Key: KX, Turbo: TurboDefault}}))
	require.NoError(t, m.Set(NezobaButtons.At(1), Press{Key: KDpUp, Held: true}))

	raw := m.Raw()
	assert.Equal(t, "Title", raw.Title)
	assert.Equal(t, "several words here", raw.Description, "whitespace runs collapse")
	assert.Equal(t, "", raw.Scheme, "plain keys carry no scheme")

	// Entries come in button order, not insertion order
	require.Equal(t, []string{"_K_DP_UP", "K_A & K_X'"}, raw.Presses)
	assert.Equal(t, [][]string{{"K_DP_UP"}, {"K_A", "K_X"}}, raw.Keys)
	assert.Equal(t, [][]bool{{false}, {false, true}}, raw.Turboes)
	assert.Equal(t, [][]bool{{true}, {false, false}}, raw.Holds)
}

func TestMappingRawScheme(t *testing.T) {
	nm := DefaultNamedMapping(PC)
	assert.Equal(t, "PC", nm.Raw().Scheme)
}

func TestMappingsValidation(t *testing.T) {
	m1 := NewMapping(NezobaButtons, StandardKeys, 0, "", "")
	m2 := NewMapping(NezobaButtons, StandardKeys, 1, "", "")
	otherButtons := MustButtons([]Button{{0, "only"}}, LayoutNone)
	m3 := NewMapping(otherButtons, StandardKeys, 2, "", "")

	ms, err := NewMappings([]*Mapping{m1, m2})
	require.NoError(t, err)
	assert.Equal(t, 2, ms.Len())

	// Different domain is rejected, collection unchanged
	err = ms.Append(m3)
	assert.Error(t, err)
	assert.Equal(t, 2, ms.Len())

	// Extend is atomic: one bad element rejects the whole batch
	m4 := NewMapping(NezobaButtons, StandardKeys, 3, "", "")
	err = ms.Extend([]*Mapping{m4, m3})
	assert.Error(t, err)
	assert.Equal(t, 2, ms.Len())

	buttons, ok := ms.Buttons()
	require.True(t, ok)
	assert.True(t, buttons.Equal(NezobaButtons))
}

func TestMappingsMixedNamingSchemesShareKeys(t *testing.T) {
	// NS and PC mappings can live in one collection: their unnamed keys match
	ns := DefaultNamedMapping(NS)
	pc := DefaultNamedMapping(PC)

	ms, err := NewMappings([]*Mapping{ns.Mapping, pc.Mapping})
	require.NoError(t, err)

	keys, ok := ms.Keys()
	require.True(t, ok)
	assert.True(t, keys.Equal(StandardKeys))
}

func TestMappingsRejectsDifferentKeys(t *testing.T) {
	fewKeys := MustKeys([]Key{KNoop, KA})
	m1 := NewMapping(NezobaButtons, StandardKeys, 0, "", "")
	m2 := NewMapping(NezobaButtons, fewKeys, 1, "", "")

	_, err := NewMappings([]*Mapping{m1, m2})
	assert.Error(t, err)
}

func TestMappingsInsertReplaceRemove(t *testing.T) {
	m1 := NewMapping(NezobaButtons, StandardKeys, 1, "one", "")
	m2 := NewMapping(NezobaButtons, StandardKeys, 2, "two", "")
	m3 := NewMapping(NezobaButtons, StandardKeys, 3, "three", "")

	ms, err := NewMappings([]*Mapping{m1, m3})
	require.NoError(t, err)

	require.NoError(t, ms.Insert(1, m2))
	assert.Equal(t, []*Mapping{m1, m2, m3}, ms.All())

	require.NoError(t, ms.Replace(0, m3))
	assert.Equal(t, m3, ms.At(0))

	removed, err := ms.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, m2, removed)
	assert.Equal(t, 2, ms.Len())

	popped, err := ms.Pop()
	require.NoError(t, err)
	assert.Equal(t, m3, popped)

	_, err = ms.Remove(5)
	assert.Error(t, err)
}

func TestMappingsInsertReplaceOutOfRange(t *testing.T) {
	m1 := NewMapping(NezobaButtons, StandardKeys, 1, "one", "")
	m2 := NewMapping(NezobaButtons, StandardKeys, 2, "two", "")

	ms, err := NewMappings([]*Mapping{m1})
	require.NoError(t, err)

	assert.Error(t, ms.Insert(-1, m2))
	assert.Error(t, ms.Insert(2, m2))
	assert.Error(t, ms.Replace(-1, m2))
	assert.Error(t, ms.Replace(1, m2))
	assert.Equal(t, []*Mapping{m1}, ms.All(), "a rejected index leaves the collection unchanged")

	// Inserting right past the last position appends
	require.NoError(t, ms.Insert(1, m2))
	assert.Equal(t, []*Mapping{m1, m2}, ms.All())
}

func TestMappingsPopEmpty(t *testing.T) {
	ms, err := NewMappings(nil)
	require.NoError(t, err)
	_, err = ms.Pop()
	assert.Error(t, err)
}

func TestMappingsFromIdentifier(t *testing.T) {
	m1 := NewMapping(NezobaButtons, StandardKeys, 5, "first", "")
	m2 := NewMapping(NezobaButtons, StandardKeys, 5, "second", "")
	ms, err := NewMappings([]*Mapping{m1, m2})
	require.NoError(t, err)

	found, err := ms.FromIdentifier(5)
	require.NoError(t, err)
	assert.Equal(t, "first", found.Title, "first match in list order wins")

	_, err = ms.FromIdentifier(99)
	assert.Error(t, err)
}
