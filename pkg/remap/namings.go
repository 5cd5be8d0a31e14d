package remap

import "fmt"

// NameScheme denotes a platform and its nomenclature for controller outputs.
type NameScheme int

const (
	// NS is the Nintendo Switch nomenclature. It is the default scheme.
	NS NameScheme = iota
	// PC is the PC/Raspberry Pi (Xbox-style) nomenclature.
	PC
)

// Schemes lists all naming schemes, in default order.
func Schemes() []NameScheme { return []NameScheme{NS, PC} }

// String returns the short scheme name used in encoded mappings.
func (s NameScheme) String() string {
	switch s {
	case PC:
		return "PC"
	default:
		return "NS"
	}
}

// Description returns the platform the scheme names.
func (s NameScheme) Description() string {
	switch s {
	case PC:
		return "PC/Raspberry Pi"
	default:
		return "Nintendo Switch"
	}
}

// SchemeFromName resolves a short scheme name. It reports false for unknown
// names.
func SchemeFromName(name string) (NameScheme, bool) {
	for _, s := range Schemes() {
		if s.String() == name {
			return s, true
		}
	}
	return NS, false
}

// NamedKey is a key with a platform-specific display name. The underlying key
// denotes the controller output, which is named differently under different
// schemes.
type NamedKey struct {
	Key
	Name             string
	Scheme           NameScheme
	NamedDescription string
}

// NewNamedKey names a key under a scheme. An empty namedDescription defaults
// to the key's generic description.
func NewNamedKey(key Key, name string, scheme NameScheme, namedDescription string) NamedKey {
	if namedDescription == "" {
		namedDescription = key.Description
	}
	return NamedKey{Key: key, Name: name, Scheme: scheme, NamedDescription: namedDescription}
}

// Unnamed returns the underlying key without platform-specific names.
func (nk NamedKey) Unnamed() Key { return nk.Key }

// DisplayName returns the scheme-specific name.
func (nk NamedKey) DisplayName() string { return nk.Name }

// NamedKeys is an ordered, immutable collection of named keys that all share
// one naming scheme.
type NamedKeys struct {
	keys   []NamedKey
	scheme NameScheme
}

// NewNamedKeys builds a named key collection, enforcing the uniqueness rules
// of Keys plus a single scheme across all members.
func NewNamedKeys(keys []NamedKey) (NamedKeys, error) {
	unnamed := make([]Key, len(keys))
	for i, nk := range keys {
		unnamed[i] = nk.Unnamed()
	}
	if _, err := NewKeys(unnamed); err != nil {
		return NamedKeys{}, err
	}
	var scheme NameScheme
	for i, nk := range keys {
		if i == 0 {
			scheme = nk.Scheme
		} else if nk.Scheme != scheme {
			return NamedKeys{}, fmt.Errorf("cannot mix naming schemes: %s and %s", scheme, nk.Scheme)
		}
	}
	ks := make([]NamedKey, len(keys))
	copy(ks, keys)
	return NamedKeys{keys: ks, scheme: scheme}, nil
}

// MustNamedKeys is like NewNamedKeys but panics on invalid input.
func MustNamedKeys(keys []NamedKey) NamedKeys {
	ks, err := NewNamedKeys(keys)
	if err != nil {
		panic(err)
	}
	return ks
}

// Scheme reports the naming scheme shared by all keys in the collection.
func (ks NamedKeys) Scheme() NameScheme { return ks.scheme }

// Len reports the number of keys.
func (ks NamedKeys) Len() int { return len(ks.keys) }

// At returns the named key at position i.
func (ks NamedKeys) At(i int) NamedKey { return ks.keys[i] }

// KeyAt returns the named key at position i as a Keyer.
func (ks NamedKeys) KeyAt(i int) Keyer { return ks.keys[i] }

// Find returns the named key with the given token.
func (ks NamedKeys) Find(token string) (Keyer, bool) {
	for _, k := range ks.keys {
		if k.Key.Key == token {
			return k, true
		}
	}
	return nil, false
}

// FindByName returns the first named key with the given display name.
func (ks NamedKeys) FindByName(name string) (Keyer, bool) {
	for _, k := range ks.keys {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}

// Unnamed projects the collection back to plain keys, discarding the
// scheme-specific display data.
func (ks NamedKeys) Unnamed() Keys {
	unnamed := make([]Key, len(ks.keys))
	for i, nk := range ks.keys {
		unnamed[i] = nk.Unnamed()
	}
	return Keys{keys: unnamed}
}

// nsNames maps key tokens to their Nintendo Switch display names and, where
// the generic description is not adequate, a scheme-specific description.
var nsNames = []struct {
	key  Key
	name string
	desc string
}{
	{KNoop, "", ""},
	{KDpUp, "⇑", ""},
	{KDpUpRight, "⇗", ""},
	{KDpRight, "⇒", ""},
	{KDpDownRight, "⇘", ""},
	{KDpDown, "⇓", ""},
	{KDpDownLeft, "⇙", ""},
	{KDpLeft, "⇐", ""},
	{KDpUpLeft, "⇖", ""},
	{KDpCenter, "⬤", ""},
	{KA, "A", ""},
	{KB, "B", ""},
	{KX, "X", ""},
	{KY, "Y", ""},
	{KL, "L", ""},
	{KR, "R", ""},
	{KZL, "ZL", ""},
	{KZR, "ZR", ""},
	{KHome, "⌂", ""},
	{KPlus, "+", "Menu +"},
	{KMinus, "-", "Menu -"},
	{KLsPress, "L✓", ""},
	{KRsPress, "R✓", ""},
	{KCapture, "capture", ""},
	{KLsUp, "L⇑", ""},
	{KLsUpRight, "L⇗", ""},
	{KLsRight, "L⇒", ""},
	{KLsDownRight, "L⇘", ""},
	{KLsDown, "L⇓", ""},
	{KLsDownLeft, "L⇙", ""},
	{KLsLeft, "L⇐", ""},
	{KLsUpLeft, "L⇖", ""},
	{KLsCenter, "L⬤", ""},
	{KRsUp, "R⇑", ""},
	{KRsUpRight, "R⇗", ""},
	{KRsRight, "R⇒", ""},
	{KRsDownRight, "R⇘", ""},
	{KRsDown, "R⇓", ""},
	{KRsDownLeft, "R⇙", ""},
	{KRsLeft, "R⇐", ""},
	{KRsUpLeft, "R⇖", ""},
	{KRsCenter, "R⬤", ""},
}

// pcFromNS overrides NS names for the PC scheme: A/B and X/Y are switched,
// shoulders are bumpers, triggers are LT/RT, and -/+ are select/start.
var pcFromNS = map[string]struct {
	name string
	desc string
}{
	"K_A":     {"B", "Button B"},
	"K_B":     {"A", "Button A"},
	"K_X":     {"Y", "Button Y"},
	"K_Y":     {"X", "Button X"},
	"K_L":     {"LB", "Button left bumper"},
	"K_R":     {"RB", "Button right bumper"},
	"K_ZL":    {"LT", "Button left trigger"},
	"K_ZR":    {"RT", "Button right trigger"},
	"K_MINUS": {"select", "Menu select"},
	"K_PLUS":  {"start", "Menu start"},
}

func buildNSKeys() NamedKeys {
	keys := make([]NamedKey, len(nsNames))
	for i, e := range nsNames {
		keys[i] = NewNamedKey(e.key, e.name, NS, e.desc)
	}
	return MustNamedKeys(keys)
}

func buildPCKeys() NamedKeys {
	keys := make([]NamedKey, len(nsNames))
	for i, e := range nsNames {
		name, desc := e.name, e.desc
		if override, ok := pcFromNS[e.key.Key]; ok {
			name, desc = override.name, override.desc
		}
		keys[i] = NewNamedKey(e.key, name, PC, desc)
	}
	return MustNamedKeys(keys)
}

// NSKeys and PCKeys are the fixed naming tables, both derived from the shared
// StandardKeys catalog so that their unnamed projections are pairwise equal.
var (
	NSKeys = buildNSKeys()
	PCKeys = buildPCKeys()
)

// SchemeKeys returns the fixed naming table of a scheme.
func SchemeKeys(scheme NameScheme) NamedKeys {
	if scheme == PC {
		return PCKeys
	}
	return NSKeys
}

// NamedMapping is a mapping whose codomain keys all share one naming scheme.
type NamedMapping struct {
	*Mapping
	Scheme NameScheme
}

// NewNamedMapping creates an empty named mapping. The key collection must be
// non-empty; the scheme is derived from it.
func NewNamedMapping(buttons Buttons, keys NamedKeys, identifier int, title, description string) (*NamedMapping, error) {
	if keys.Len() == 0 {
		return nil, fmt.Errorf("named mappings must include at least one key")
	}
	return &NamedMapping{
		Mapping: NewMapping(buttons, keys, identifier, title, description),
		Scheme:  keys.Scheme(),
	}, nil
}

// NamedFromMapping copies a plain mapping whose keys are already named.
func NamedFromMapping(m *Mapping) (*NamedMapping, error) {
	keys, ok := m.Keys().(NamedKeys)
	if !ok {
		return nil, fmt.Errorf("named mappings can only use named keys")
	}
	nm, err := NewNamedMapping(m.Buttons(), keys, m.Identifier, m.Title, m.Description)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.Buttons().Len(); i++ {
		b := m.Buttons().At(i)
		if combo, ok := m.Get(b); ok {
			if err := nm.Set(b, combo); err != nil {
				return nil, err
			}
		}
	}
	return nm, nil
}

// DefaultNamedMapping is an empty mapping over the nez-oba buttons and the
// naming table of the given scheme.
func DefaultNamedMapping(scheme NameScheme) *NamedMapping {
	nm, err := NewNamedMapping(NezobaButtons, SchemeKeys(scheme), 0, "", "")
	if err != nil {
		panic(err) // the fixed tables are never empty
	}
	return nm
}
