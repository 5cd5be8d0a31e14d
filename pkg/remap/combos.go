package remap

import (
	"fmt"
	"strings"
)

// Markers used in the human-readable combo text format.
const (
	TurboMark = "'"
	HoldMark  = "_"
	AndMark   = "&"
)

// Defaults applied when parsing combo text that carries a turbo or hold mark.
const (
	TurboDefault = 75 // Hz
	HoldDefault  = 0  // held until the next press
)

// Combo is a combination of key presses assigned to a single button: either
// the press of one key, or the simultaneous press of several.
type Combo interface {
	// Keys returns all keys referenced by the combo, without duplicates,
	// in first-appearance order.
	Keys() []Keyer
	// Flat returns all presses in the combo as a flat, ordered list.
	Flat() []Press
	// And combines the combo with another into a simultaneous combo.
	And(other Combo) Combo
	// AsText returns the human-readable text of the combo.
	AsText() string
}

// Press is the press of a single key.
//
// A press can be turboed: the key is pressed and released repeatedly with the
// given frequency in Hertz (Turbo > 0). A press can be held (Held true): the
// key stays pressed for Hold milliseconds, or until the next press when Hold
// is not positive. A press that is neither lasts as long as the physical
// button press.
type Press struct {
	Key   Keyer
	Turbo int
	Hold  int
	Held  bool
}

// IsTurbo reports whether the press is turboed.
func (p Press) IsTurbo() bool { return p.Turbo > 0 }

// IsHold reports whether the press is held (for a duration or until the next
// press).
func (p Press) IsHold() bool { return p.Held }

// IsTimed reports whether the press is held for a finite amount of time.
func (p Press) IsTimed() bool { return p.Held && p.Hold > 0 }

func (p Press) Keys() []Keyer { return []Keyer{p.Key} }

func (p Press) Flat() []Press { return []Press{p} }

func (p Press) And(other Combo) Combo {
	if o, ok := other.(Press); ok {
		return And{p, o}
	}
	return other.And(p)
}

func (p Press) AsText() string {
	var hold, turbo string
	if p.IsHold() {
		hold = HoldMark
	}
	if p.IsTurbo() {
		turbo = TurboMark
	}
	return hold + p.Key.DisplayName() + turbo
}

// And is an ordered combination of simultaneous presses. Members may be
// nested combos; Flat always yields a flat list of presses.
type And []Combo

func (a And) Keys() []Keyer {
	var keys []Keyer
	seen := make(map[Keyer]bool)
	for _, c := range a {
		for _, k := range c.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func (a And) Flat() []Press {
	var presses []Press
	for _, c := range a {
		presses = append(presses, c.Flat()...)
	}
	return presses
}

func (a And) And(other Combo) Combo {
	joined := make(And, 0, len(a)+1)
	joined = append(joined, a...)
	if o, ok := other.(And); ok {
		return append(joined, o...)
	}
	return append(joined, other)
}

func (a And) AsText() string {
	parts := make([]string, len(a))
	for i, c := range a {
		parts[i] = c.AsText()
	}
	return strings.Join(parts, " "+AndMark+" ")
}

// ParseCombo parses the human-readable text of a combo, resolving key names
// against the given key set. It is the exact inverse of AsText for any text
// AsText produces, except that segments naming the no-op key are silently
// dropped: no-op means nothing is assigned.
//
// Each segment may carry a trailing turbo mark and a leading hold mark, which
// parse to the default turbo frequency and hold duration. The segment token
// is resolved by exact key-token match first, then by exact display-name
// match. If any segment fails to resolve, the whole parse fails.
func ParseCombo(text string, keys KeySet) (Combo, error) {
	var presses []Combo
	for _, segment := range strings.Split(text, AndMark) {
		segment = strings.TrimSpace(segment)
		noTurbo := strings.TrimSuffix(segment, TurboMark)
		turboed := noTurbo != segment
		noHold := strings.TrimPrefix(noTurbo, HoldMark)
		held := noHold != noTurbo
		token := strings.TrimSpace(noHold)
		key, ok := keys.Find(token)
		if !ok {
			key, ok = keys.FindByName(token)
		}
		if !ok {
			return nil, fmt.Errorf("unknown key in combo text: %q", token)
		}
		if key.Unnamed().Identifier == 0 {
			// the no-op key: nothing is assigned
			continue
		}
		press := Press{Key: key}
		if turboed {
			press.Turbo = TurboDefault
		}
		if held {
			press.Hold = HoldDefault
			press.Held = true
		}
		presses = append(presses, press)
	}
	if len(presses) == 1 {
		return presses[0], nil
	}
	return And(presses), nil
}
