package remap

import (
	"fmt"
	"strings"
)

// RawMapping is a textual, human-readable projection of a mapping, with one
// entry per assigned button in button order. It is the shape consumed by the
// header-file encoder.
type RawMapping struct {
	Title       string
	Description string
	Scheme      string
	Presses     []string
	Keys        [][]string
	Turboes     [][]bool
	Holds       [][]bool
}

// Mapping assigns combos to buttons: controller outputs to controller inputs.
//
// The domain is a fixed button collection and the codomain a fixed key
// collection; only buttons of the domain can be assigned, and only combos
// whose keys all belong to the codomain.
type Mapping struct {
	buttons Buttons
	keys    KeySet
	combos  map[Button]Combo

	Identifier  int
	Title       string
	Description string
}

// NewMapping creates an empty mapping with the given domain and codomain.
func NewMapping(buttons Buttons, keys KeySet, identifier int, title, description string) *Mapping {
	return &Mapping{
		buttons:     buttons,
		keys:        keys,
		combos:      make(map[Button]Combo),
		Identifier:  identifier,
		Title:       title,
		Description: description,
	}
}

// Buttons returns the mapping's domain.
func (m *Mapping) Buttons() Buttons { return m.buttons }

// Keys returns the mapping's codomain.
func (m *Mapping) Keys() KeySet { return m.keys }

// Set assigns a combo to a button. The button must belong to the domain and
// every key of the combo to the codomain; otherwise the mapping is unchanged
// and an error is returned.
func (m *Mapping) Set(button Button, combo Combo) error {
	if !m.buttons.Contains(button) {
		return fmt.Errorf("cannot remap unknown button: %+v", button)
	}
	for _, k := range combo.Keys() {
		found, ok := m.keys.Find(k.Unnamed().Key)
		if !ok || found != k {
			return fmt.Errorf("cannot remap unknown key: %s", k.Unnamed().Key)
		}
	}
	m.combos[button] = combo
	return nil
}

// Get returns the combo assigned to a button, if any.
func (m *Mapping) Get(button Button) (Combo, bool) {
	combo, ok := m.combos[button]
	return combo, ok
}

// Unset removes the assignment of a button, if any.
func (m *Mapping) Unset(button Button) {
	delete(m.combos, button)
}

// Len reports the number of assigned buttons.
func (m *Mapping) Len() int { return len(m.combos) }

// IsTotal reports whether every button of the domain is assigned a combo.
func (m *Mapping) IsTotal() bool {
	for i := 0; i < m.buttons.Len(); i++ {
		if _, ok := m.combos[m.buttons.At(i)]; !ok {
			return false
		}
	}
	return true
}

// Raw projects the mapping into its textual representation. Assignments are
// listed in button order regardless of insertion order, and the description
// has its whitespace collapsed to single spaces. The scheme name is filled in
// when the codomain carries one.
func (m *Mapping) Raw() RawMapping {
	scheme := ""
	if named, ok := m.keys.(NamedKeys); ok {
		scheme = named.Scheme().String()
	}
	var ordered []Combo
	for i := 0; i < m.buttons.Len(); i++ {
		if combo, ok := m.combos[m.buttons.At(i)]; ok {
			ordered = append(ordered, combo)
		}
	}
	presses := make([]string, len(ordered))
	keys := make([][]string, len(ordered))
	turboes := make([][]bool, len(ordered))
	holds := make([][]bool, len(ordered))
	for i, combo := range ordered {
		presses[i] = combo.AsText()
		flat := combo.Flat()
		keys[i] = make([]string, len(flat))
		turboes[i] = make([]bool, len(flat))
		holds[i] = make([]bool, len(flat))
		for j, press := range flat {
			keys[i][j] = press.Key.Unnamed().Key
			turboes[i][j] = press.IsTurbo()
			holds[i][j] = press.IsHold()
		}
	}
	return RawMapping{
		Title:       m.Title,
		Description: strings.Join(strings.Fields(m.Description), " "),
		Scheme:      scheme,
		Presses:     presses,
		Keys:        keys,
		Turboes:     turboes,
		Holds:       holds,
	}
}

// Mappings is a mutable sequence of mappings that all share one domain and,
// up to naming, one codomain.
//
// Every operation that adds elements validates them first: on error the
// collection is unchanged.
type Mappings struct {
	mappings []*Mapping
	buttons  *Buttons
	keys     *Keys
}

// NewMappings creates a collection from a list of mappings with a common
// domain and codomain.
func NewMappings(mappings []*Mapping) (*Mappings, error) {
	ms := &Mappings{}
	if err := ms.Extend(mappings); err != nil {
		return nil, err
	}
	return ms, nil
}

// Len reports the number of mappings.
func (ms *Mappings) Len() int { return len(ms.mappings) }

// At returns the mapping at position i.
func (ms *Mappings) At(i int) *Mapping { return ms.mappings[i] }

// All returns the mappings in list order. The returned slice is shared; do
// not modify it.
func (ms *Mappings) All() []*Mapping { return ms.mappings }

// Buttons returns the common domain of the collection's mappings, if the
// collection is non-empty.
func (ms *Mappings) Buttons() (Buttons, bool) {
	if ms.buttons == nil {
		return Buttons{}, false
	}
	return *ms.buttons, true
}

// Keys returns the common unnamed codomain of the collection's mappings, if
// the collection is non-empty.
func (ms *Mappings) Keys() (Keys, bool) {
	if ms.keys == nil {
		return Keys{}, false
	}
	return *ms.keys, true
}

// Append adds a mapping at the end of the collection.
func (ms *Mappings) Append(m *Mapping) error {
	return ms.Extend([]*Mapping{m})
}

// Insert adds a mapping at position i, shifting later mappings.
func (ms *Mappings) Insert(i int, m *Mapping) error {
	if i < 0 || i > len(ms.mappings) {
		return fmt.Errorf("mapping index out of range: %d", i)
	}
	if err := ms.validate([]*Mapping{m}); err != nil {
		return err
	}
	ms.mappings = append(ms.mappings, nil)
	copy(ms.mappings[i+1:], ms.mappings[i:])
	ms.mappings[i] = m
	return nil
}

// Replace substitutes the mapping at position i.
func (ms *Mappings) Replace(i int, m *Mapping) error {
	if i < 0 || i >= len(ms.mappings) {
		return fmt.Errorf("mapping index out of range: %d", i)
	}
	if err := ms.validate([]*Mapping{m}); err != nil {
		return err
	}
	ms.mappings[i] = m
	return nil
}

// Extend adds all given mappings at the end of the collection. Validation is
// atomic: if any mapping fails, none is added.
func (ms *Mappings) Extend(mappings []*Mapping) error {
	if err := ms.validate(mappings); err != nil {
		return err
	}
	ms.mappings = append(ms.mappings, mappings...)
	return nil
}

// Pop removes and returns the last mapping.
func (ms *Mappings) Pop() (*Mapping, error) {
	if len(ms.mappings) == 0 {
		return nil, fmt.Errorf("cannot pop from an empty mapping collection")
	}
	m := ms.mappings[len(ms.mappings)-1]
	ms.mappings = ms.mappings[:len(ms.mappings)-1]
	return m, nil
}

// Remove removes and returns the mapping at position i.
func (ms *Mappings) Remove(i int) (*Mapping, error) {
	if i < 0 || i >= len(ms.mappings) {
		return nil, fmt.Errorf("mapping index out of range: %d", i)
	}
	m := ms.mappings[i]
	ms.mappings = append(ms.mappings[:i], ms.mappings[i+1:]...)
	return m, nil
}

// FromIdentifier returns the first mapping in list order with the given
// identifier.
func (ms *Mappings) FromIdentifier(identifier int) (*Mapping, error) {
	for _, m := range ms.mappings {
		if m.Identifier == identifier {
			return m, nil
		}
	}
	return nil, fmt.Errorf("mapping with identifier %d not found", identifier)
}

// validate checks that the given mappings can join the collection without
// mixing domains or (unnamed) codomains, and records the shared domain and
// codomain on success.
func (ms *Mappings) validate(mappings []*Mapping) error {
	buttons, keys := ms.buttons, ms.keys
	for _, m := range mappings {
		if m == nil {
			return fmt.Errorf("mapping collections can only store mappings")
		}
		if buttons == nil {
			b := m.Buttons()
			buttons = &b
		} else if !buttons.Equal(m.Buttons()) {
			return fmt.Errorf("cannot mix mappings over different buttons")
		}
		if keys == nil {
			k := m.Keys().Unnamed()
			keys = &k
		} else if !keys.Equal(m.Keys().Unnamed()) {
			return fmt.Errorf("cannot mix mappings over different keys")
		}
	}
	ms.buttons, ms.keys = buttons, keys
	return nil
}
