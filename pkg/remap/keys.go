// Package remap models the button-to-key-presses domain of the nez-oba
// controller: physical buttons, logical keys and their platform-specific
// names, key-press combos, and the mappings that tie them together.
package remap

import (
	"fmt"
	"sort"
)

// KeyGroup partitions the keys: regular buttons, D-pad directions, and stick
// directions.
type KeyGroup string

const (
	GroupNoop       KeyGroup = "NOOP"
	GroupDpad       KeyGroup = "DP"
	GroupLeftStick  KeyGroup = "LS"
	GroupRightStick KeyGroup = "RS"
	GroupRegular    KeyGroup = "BUTTON"
)

// Key is a single logical output recognized by the host platform.
//
// The Key field is the unique token used in encoded mappings (for example
// "K_A"). Identifier 0 is reserved for the single no-op key.
type Key struct {
	Key         string
	Identifier  int
	Group       KeyGroup
	Description string
}

// Unnamed returns the key without platform-specific names. A plain key is its
// own unnamed projection.
func (k Key) Unnamed() Key { return k }

// DisplayName returns the name shown in combo text. A plain key is displayed
// by its token.
func (k Key) DisplayName() string { return k.Key }

// Keyer is a key as referenced by a press: either a plain Key or a NamedKey.
type Keyer interface {
	Unnamed() Key
	DisplayName() string
}

// KeySet is the codomain of a mapping: an ordered key collection that can be
// searched by token or by display name. Implemented by Keys and NamedKeys.
type KeySet interface {
	Len() int
	KeyAt(i int) Keyer
	Find(token string) (Keyer, bool)
	FindByName(name string) (Keyer, bool)
	Unnamed() Keys
}

// Keys is an ordered, immutable collection of keys with unique tokens and
// unique identifiers.
type Keys struct {
	keys []Key
}

// NewKeys builds a key collection, enforcing token and identifier uniqueness
// and the reservation of identifier 0 for the no-op key.
func NewKeys(keys []Key) (Keys, error) {
	ids := make(map[int]bool, len(keys))
	tokens := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k.Identifier < 0 || (k.Identifier == 0 && k.Group != GroupNoop) {
			return Keys{}, fmt.Errorf("invalid key identifier: %+v", k)
		}
		if ids[k.Identifier] {
			return Keys{}, fmt.Errorf("duplicate key identifier: %d", k.Identifier)
		}
		if tokens[k.Key] {
			return Keys{}, fmt.Errorf("duplicate key token: %s", k.Key)
		}
		ids[k.Identifier] = true
		tokens[k.Key] = true
	}
	ks := make([]Key, len(keys))
	copy(ks, keys)
	return Keys{keys: ks}, nil
}

// MustKeys is like NewKeys but panics on invalid input.
func MustKeys(keys []Key) Keys {
	ks, err := NewKeys(keys)
	if err != nil {
		panic(err)
	}
	return ks
}

// Len reports the number of keys.
func (ks Keys) Len() int { return len(ks.keys) }

// At returns the key at position i.
func (ks Keys) At(i int) Key { return ks.keys[i] }

// KeyAt returns the key at position i as a Keyer.
func (ks Keys) KeyAt(i int) Keyer { return ks.keys[i] }

// Lookup returns the key with the given token.
func (ks Keys) Lookup(token string) (Key, bool) {
	for _, k := range ks.keys {
		if k.Key == token {
			return k, true
		}
	}
	return Key{}, false
}

// Find returns the key with the given token as a Keyer.
func (ks Keys) Find(token string) (Keyer, bool) {
	k, ok := ks.Lookup(token)
	if !ok {
		return nil, false
	}
	return k, true
}

// FindByName always fails: plain keys have no display name besides their
// token.
func (ks Keys) FindByName(string) (Keyer, bool) { return nil, false }

// Unnamed returns the keys without platform-specific names.
func (ks Keys) Unnamed() Keys { return ks }

// Equal reports whether two collections hold the same keys in the same order.
func (ks Keys) Equal(other Keys) bool {
	if len(ks.keys) != len(other.keys) {
		return false
	}
	for i, k := range ks.keys {
		if k != other.keys[i] {
			return false
		}
	}
	return true
}

// KeyRange is a run of keys with consecutive identifiers within one group.
// Start equals End for a singleton run.
type KeyRange struct {
	Start Key
	End   Key
}

// GroupRanges returns the keys of the given group as ranges of consecutive
// identifiers, in identifier order.
func (ks Keys) GroupRanges(group KeyGroup) []KeyRange {
	var grouped []Key
	for _, k := range ks.keys {
		if k.Group == group {
			grouped = append(grouped, k)
		}
	}
	sort.Slice(grouped, func(i, j int) bool {
		return grouped[i].Identifier < grouped[j].Identifier
	})
	var ranges []KeyRange
	for _, k := range grouped {
		if n := len(ranges); n > 0 && k.Identifier <= ranges[n-1].End.Identifier+1 {
			ranges[n-1].End = k
			continue
		}
		ranges = append(ranges, KeyRange{Start: k, End: k})
	}
	return ranges
}

// Standard keys available as individual variables.
var (
	KNoop        = Key{"K_NOOP", 0, GroupNoop, "Do nothing"}
	KDpUp        = Key{"K_DP_UP", 1, GroupDpad, "D-pad up"}
	KDpUpRight   = Key{"K_DP_UP_RIGHT", 2, GroupDpad, "D-pad up right"}
	KDpRight     = Key{"K_DP_RIGHT", 3, GroupDpad, "D-pad right"}
	KDpDownRight = Key{"K_DP_DOWN_RIGHT", 4, GroupDpad, "D-pad down right"}
	KDpDown      = Key{"K_DP_DOWN", 5, GroupDpad, "D-pad down"}
	KDpDownLeft  = Key{"K_DP_DOWN_LEFT", 6, GroupDpad, "D-pad down left"}
	KDpLeft      = Key{"K_DP_LEFT", 7, GroupDpad, "D-pad left"}
	KDpUpLeft    = Key{"K_DP_UP_LEFT", 8, GroupDpad, "D-pad up left"}
	KDpCenter    = Key{"K_DP_CENTER", 9, GroupDpad, "D-pad centered"}
	KA           = Key{"K_A", 10, GroupRegular, "Button A"}
	KB           = Key{"K_B", 11, GroupRegular, "Button B"}
	KX           = Key{"K_X", 12, GroupRegular, "Button X"}
	KY           = Key{"K_Y", 13, GroupRegular, "Button Y"}
	KL           = Key{"K_L", 14, GroupRegular, "Button left shoulder"}
	KR           = Key{"K_R", 15, GroupRegular, "Button right shoulder"}
	KZL          = Key{"K_ZL", 16, GroupRegular, "Button left trigger"}
	KZR          = Key{"K_ZR", 17, GroupRegular, "Button right trigger"}
	KHome        = Key{"K_HOME", 18, GroupRegular, "Menu home"}
	KPlus        = Key{"K_PLUS", 19, GroupRegular, "Menu right"}
	KMinus       = Key{"K_MINUS", 20, GroupRegular, "Menu left"}
	KLsPress     = Key{"K_LS_PRESS", 21, GroupRegular, "Left stick press"}
	KRsPress     = Key{"K_RS_PRESS", 22, GroupRegular, "Right stick press"}
	KCapture     = Key{"K_CAPTURE", 23, GroupRegular, "Menu capture"}
	KLsUp        = Key{"K_LS_UP", 24, GroupLeftStick, "Left stick up"}
	KLsUpRight   = Key{"K_LS_UP_RIGHT", 25, GroupLeftStick, "Left stick up right"}
	KLsRight     = Key{"K_LS_RIGHT", 26, GroupLeftStick, "Left stick right"}
	KLsDownRight = Key{"K_LS_DOWN_RIGHT", 27, GroupLeftStick, "Left stick down right"}
	KLsDown      = Key{"K_LS_DOWN", 28, GroupLeftStick, "Left stick down"}
	KLsDownLeft  = Key{"K_LS_DOWN_LEFT", 29, GroupLeftStick, "Left stick down left"}
	KLsLeft      = Key{"K_LS_LEFT", 30, GroupLeftStick, "Left stick left"}
	KLsUpLeft    = Key{"K_LS_UP_LEFT", 31, GroupLeftStick, "Left stick up left"}
	KLsCenter    = Key{"K_LS_CENTER", 32, GroupLeftStick, "Left stick center"}
	KRsUp        = Key{"K_RS_UP", 33, GroupRightStick, "Right stick up"}
	KRsUpRight   = Key{"K_RS_UP_RIGHT", 34, GroupRightStick, "Right stick up right"}
	KRsRight     = Key{"K_RS_RIGHT", 35, GroupRightStick, "Right stick right"}
	KRsDownRight = Key{"K_RS_DOWN_RIGHT", 36, GroupRightStick, "Right stick down right"}
	KRsDown      = Key{"K_RS_DOWN", 37, GroupRightStick, "Right stick down"}
	KRsDownLeft  = Key{"K_RS_DOWN_LEFT", 38, GroupRightStick, "Right stick down left"}
	KRsLeft      = Key{"K_RS_LEFT", 39, GroupRightStick, "Right stick left"}
	KRsUpLeft    = Key{"K_RS_UP_LEFT", 40, GroupRightStick, "Right stick up left"}
	KRsCenter    = Key{"K_RS_CENTER", 41, GroupRightStick, "Right stick center"}
)

// StandardKeys is the catalog of keys (including stick movements) available
// on a standard gamepad, in identifier order. Element 0 is the no-op key.
var StandardKeys = MustKeys([]Key{
	KNoop,
	KDpUp, KDpUpRight, KDpRight, KDpDownRight, KDpDown, KDpDownLeft, KDpLeft, KDpUpLeft, KDpCenter,
	KA, KB, KX, KY, KL, KR, KZL, KZR,
	KHome, KPlus, KMinus, KLsPress, KRsPress, KCapture,
	KLsUp, KLsUpRight, KLsRight, KLsDownRight, KLsDown, KLsDownLeft, KLsLeft, KLsUpLeft, KLsCenter,
	KRsUp, KRsUpRight, KRsRight, KRsDownRight, KRsDown, KRsDownLeft, KRsLeft, KRsUpLeft, KRsCenter,
})
