package remap

import "fmt"

// Button is a single pressable input on a controller. Analog inputs are not
// supported: a button is either pressed or released.
type Button struct {
	Identifier int
	Name       string
}

// ButtonLayout denotes a controller model and its available inputs.
type ButtonLayout string

const (
	// LayoutNone marks a button collection with no specific layout.
	LayoutNone ButtonLayout = ""
	// LayoutNezOba is the nez-oba controller layout.
	LayoutNezOba ButtonLayout = "Nez-Oba controller"
)

// Buttons is an ordered, immutable collection of buttons with unique
// identifiers, optionally tagged with the layout they belong to.
type Buttons struct {
	buttons []Button
	layout  ButtonLayout
}

// NewButtons builds a button collection, enforcing identifier uniqueness.
func NewButtons(buttons []Button, layout ButtonLayout) (Buttons, error) {
	seen := make(map[int]bool, len(buttons))
	for _, b := range buttons {
		if seen[b.Identifier] {
			return Buttons{}, fmt.Errorf("duplicate button identifier: %d", b.Identifier)
		}
		seen[b.Identifier] = true
	}
	bs := make([]Button, len(buttons))
	copy(bs, buttons)
	return Buttons{buttons: bs, layout: layout}, nil
}

// MustButtons is like NewButtons but panics on invalid input. It is meant for
// the fixed catalogs built at package initialization.
func MustButtons(buttons []Button, layout ButtonLayout) Buttons {
	bs, err := NewButtons(buttons, layout)
	if err != nil {
		panic(err)
	}
	return bs
}

// Layout reports the layout tag of the collection.
func (bs Buttons) Layout() ButtonLayout { return bs.layout }

// Len reports the number of buttons.
func (bs Buttons) Len() int { return len(bs.buttons) }

// At returns the button at position i.
func (bs Buttons) At(i int) Button { return bs.buttons[i] }

// Contains reports whether b is an element of the collection.
func (bs Buttons) Contains(b Button) bool {
	for _, e := range bs.buttons {
		if e == b {
			return true
		}
	}
	return false
}

// Equal reports whether two collections hold the same buttons in the same
// order, with the same layout tag.
func (bs Buttons) Equal(other Buttons) bool {
	if bs.layout != other.layout || len(bs.buttons) != len(other.buttons) {
		return false
	}
	for i, b := range bs.buttons {
		if b != other.buttons[i] {
			return false
		}
	}
	return true
}

// NezobaButtons is the fixed catalog of remappable buttons on the nez-oba
// controller. The identifier of each button matches its index in the board
// software's BUTTONS2MCP table.
var NezobaButtons = MustButtons([]Button{
	{0, "Button #0"},
	{1, "Button #1"},
	{2, "Button #2"},
	{3, "Button #3"},
	{4, "Button #4"},
	{5, "Button #5"},
	{6, "Button #6"},
	{7, "Button #7"},
	{8, "Button #8"},
	{9, "Button #9"},
	{10, "Button #10"},
	{11, "Button #11"},
	{12, "Button #12"},
	{13, "Button #13"},
	{14, "Button #14"},
}, LayoutNezOba)
