package serialization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nezoba/nezoba/pkg/remap"
)

func namedKey(t *testing.T, keys remap.NamedKeys, token string) remap.Keyer {
	t.Helper()
	key, ok := keys.Find(token)
	require.True(t, ok)
	return key
}

func TestRoundTripPlainMapping(t *testing.T) {
	m := remap.NewMapping(remap.NezobaButtons, remap.StandardKeys, 3, "Title", "a description")
	require.NoError(t, m.Set(remap.NezobaButtons.At(0), remap.Press{Key: remap.KA, Turbo: remap.TurboDefault}))
	require.NoError(t, m.Set(remap.NezobaButtons.At(2), remap.And{
		remap.Press{Key: remap.KX},
		remap.Press{Key: remap.KZR, Hold: 500, Held: true},
	}))
	ms, err := remap.NewMappings([]*remap.Mapping{m})
	require.NoError(t, err)

	data, err := Marshal(ms)
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())

	got := loaded.At(0)
	assert.Equal(t, 3, got.Identifier)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, "a description", got.Description)
	assert.True(t, got.Buttons().Equal(remap.NezobaButtons))

	combo, ok := got.Get(remap.NezobaButtons.At(0))
	require.True(t, ok)
	assert.Equal(t, remap.Press{Key: remap.KA, Turbo: remap.TurboDefault}, combo)

	combo, ok = got.Get(remap.NezobaButtons.At(2))
	require.True(t, ok)
	assert.Equal(t, remap.And{
		remap.Press{Key: remap.KX},
		remap.Press{Key: remap.KZR, Hold: 500, Held: true},
	}, combo)

	_, ok = got.Get(remap.NezobaButtons.At(1))
	assert.False(t, ok)
}

func TestRoundTripNamedMappings(t *testing.T) {
	ns := remap.DefaultNamedMapping(remap.NS)
	require.NoError(t, ns.Set(remap.NezobaButtons.At(0),
		remap.Press{Key: namedKey(t, remap.NSKeys, "K_A")}))
	pc := remap.DefaultNamedMapping(remap.PC)
	pc.Identifier = 1
	require.NoError(t, pc.Set(remap.NezobaButtons.At(1),
		remap.Press{Key: namedKey(t, remap.PCKeys, "K_B")}))
	ms, err := remap.NewMappings([]*remap.Mapping{ns.Mapping, pc.Mapping})
	require.NoError(t, err)

	data, err := Marshal(ms)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scheme: NS")
	assert.Contains(t, string(data), "scheme: PC")

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	// Key names come back from the per-mapping scheme
	combo, ok := loaded.At(0).Get(remap.NezobaButtons.At(0))
	require.True(t, ok)
	press, isPress := combo.(remap.Press)
	require.True(t, isPress)
	assert.Equal(t, "A", press.Key.DisplayName())

	combo, ok = loaded.At(1).Get(remap.NezobaButtons.At(1))
	require.True(t, ok)
	press, isPress = combo.(remap.Press)
	require.True(t, isPress)
	assert.Equal(t, "A", press.Key.DisplayName(), "K_B is named A under PC naming")
}

func TestMarshalEmptyCollection(t *testing.T) {
	ms, err := remap.NewMappings(nil)
	require.NoError(t, err)

	data, err := Marshal(ms)
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestUnmarshalVersionMismatch(t *testing.T) {
	ms, err := remap.NewMappings(nil)
	require.NoError(t, err)
	data, err := Marshal(ms)
	require.NoError(t, err)

	tampered := strings.Replace(string(data), `"1.0"`, `"2.0"`, 1)
	require.NotEqual(t, string(data), tampered)
	_, err = Unmarshal([]byte(tampered))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestUnmarshalNotYAML(t *testing.T) {
	_, err := Unmarshal([]byte("{not yaml"))
	assert.Error(t, err)
}

const documentHeader = `version: "1.0"
content:
  buttons:
    - identifier: 0
      name: top
  keys:
    - key: K_NOOP
      identifier: 0
      group: NOOP
    - key: K_A
      identifier: 1
      group: BUTTON
`

func TestUnmarshalUnknownComboKind(t *testing.T) {
	doc := documentHeader + `  mappings:
    - identifier: 0
      combos:
        - button: 0
          combo:
            kind: sequence
            key: K_A
`
	_, err := Unmarshal([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown combo kind")
}

func TestUnmarshalUndeclaredKey(t *testing.T) {
	doc := documentHeader + `  mappings:
    - identifier: 0
      combos:
        - button: 0
          combo:
            kind: press
            key: K_X
`
	_, err := Unmarshal([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared key")
}

func TestUnmarshalUndeclaredButton(t *testing.T) {
	doc := documentHeader + `  mappings:
    - identifier: 0
      combos:
        - button: 9
          combo:
            kind: press
            key: K_A
`
	_, err := Unmarshal([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared button")
}

func TestUnmarshalUnknownScheme(t *testing.T) {
	doc := documentHeader + `  mappings:
    - identifier: 0
      scheme: XBOX
      combos: []
`
	_, err := Unmarshal([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "naming scheme")
}

func TestUnmarshalSchemeKeysMismatch(t *testing.T) {
	// NS naming covers the full standard key set, not this two-key document
	doc := documentHeader + `  mappings:
    - identifier: 0
      scheme: NS
      combos: []
`
	_, err := Unmarshal([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not cover")
}
