package encoding

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nezoba/nezoba/pkg/logging"
	"github.com/nezoba/nezoba/pkg/remap"
)

// TurboMarker flags a turboed key in the C header encoding.
const TurboMarker = "-"

// DefaultTextWidth is the width in characters of the human-readable output
// produced by Show.
const DefaultTextWidth = 75

// Encoder translates back and forth between mappings and their encoded form
// for a specific board.
//
// Encoding produces a C initializer block that can be written to a header
// file of the board software; decoding parses such a block back into a named
// mapping; showing formats a mapping as a human-readable picture roughly
// resembling the layout of the physical nez-oba board.
type Encoder struct {
	// Board describes the target board. It may be nil, in which case only
	// Show is available.
	Board *BoardInfo

	// Width is the width in characters of the output of Show.
	Width int

	// StrictSlots makes EncodeAll fail when given more mappings than the
	// board has slots. When false, the excess is encoded anyway with a
	// warning.
	StrictSlots bool

	logger   logging.Logger
	decodeRe *regexp.Regexp
}

// NewEncoder creates an encoder for a board with the given information. A nil
// board restricts the encoder to Show.
func NewEncoder(board *BoardInfo) *Encoder {
	logger := logging.NewComponentLogger("encoder")
	if board == nil {
		logger.Warn("No board info given: only show is available")
	}
	return &Encoder{Board: board, Width: DefaultTextWidth, logger: logger}
}

// emptyMapping pads encoding runs that cover fewer mappings than the board
// has slots.
func emptyMapping() *remap.Mapping {
	return remap.NewMapping(remap.Buttons{}, remap.Keys{}, 0, "", "")
}

// IsCompatible checks whether a mapping fits the board's capabilities: at
// most as many assigned buttons as the board has, only keys the board
// supports, and at most as many simultaneous presses per button as the board
// allows. Turbo and hold modifiers are compatible but ignored by the board; a
// warning is logged for each.
func (e *Encoder) IsCompatible(m *remap.Mapping) error {
	if e.Board == nil {
		return fmt.Errorf("no board information: cannot check compatibility")
	}
	raw := m.Raw()
	if !e.Board.CheckNButtons(len(raw.Presses)) {
		return fmt.Errorf("too many buttons: %d (board supports %d)",
			len(raw.Presses), e.Board.NButtons)
	}
	var used []string
	maxPerButton := 0
	turboed, held := false, false
	for i := range raw.Keys {
		used = append(used, raw.Keys[i]...)
		if len(raw.Keys[i]) > maxPerButton {
			maxPerButton = len(raw.Keys[i])
		}
		for j := range raw.Keys[i] {
			turboed = turboed || raw.Turboes[i][j]
			held = held || raw.Holds[i][j]
		}
	}
	if unsupported := e.Board.UnsupportedKeys(used); len(unsupported) > 0 {
		return fmt.Errorf("unsupported key(s): %s", strings.Join(unsupported, ", "))
	}
	if !e.Board.CheckNKeysPerButton(maxPerButton) {
		return fmt.Errorf("too many key presses per button: %d (board supports %d)",
			maxPerButton, e.Board.NKeysPerButton)
	}
	if turboed {
		e.logger.Warn("Turbo frequencies are ignored")
	}
	if held {
		e.logger.Warn("Hold modifiers are ignored")
	}
	return nil
}

// padRunes pads s with spaces to the given display width, counting runes.
func padRunes(s string, width int, leftAlign bool) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	if leftAlign {
		return s + strings.Repeat(" ", pad)
	}
	return strings.Repeat(" ", pad) + s
}

// headerComment formats a title and description as the block comment that
// opens an encoded mapping. Both empty means no comment at all.
func headerComment(title, description string) string {
	if title == "" && description == "" {
		return ""
	}
	text := title
	if description != "" {
		text += ": " + description
	}
	wrapped := indent.String(wordwrap.String(text, 68), 2)
	return "/*\n" + wrapped + "\n*/\n\n"
}

// Encode translates a mapping into a C initializer block for the board
// software. A nil mapping encodes as an empty one: all buttons assigned the
// board's no-op key.
//
// The block lists one row per assigned button (in button order), padded with
// all-noop rows up to the board's button count. Each row carries the combo
// text as a comment, then the combo's key tokens padded with noop to the
// board's keys-per-button count, turboed keys flagged with a leading marker.
// Columns are aligned: the comment column to the left, key columns to the
// right.
func (e *Encoder) Encode(m *remap.Mapping) (string, error) {
	if e.Board == nil {
		return "", fmt.Errorf("no board information: cannot encode")
	}
	if m == nil {
		m = emptyMapping()
	}
	raw := m.Raw()
	nRows := len(raw.Presses)
	if e.Board.NButtons > nRows {
		nRows = e.Board.NButtons
	}
	numCols := 1 + e.Board.NKeysPerButton
	rows := make([][]string, nRows)
	for i := range rows {
		row := make([]string, numCols)
		filled := 0
		if i < len(raw.Presses) {
			if raw.Presses[i] != "" {
				row[0] = "/* " + raw.Presses[i] + " */"
			}
			if len(raw.Keys[i]) > e.Board.NKeysPerButton {
				return "", fmt.Errorf("too many key presses per button: %d (board supports %d)",
					len(raw.Keys[i]), e.Board.NKeysPerButton)
			}
			for j, token := range raw.Keys[i] {
				marker := ""
				if raw.Turboes[i][j] {
					marker = TurboMarker
				}
				row[1+j] = marker + token
			}
			filled = len(raw.Keys[i])
		}
		for j := filled; j < e.Board.NKeysPerButton; j++ {
			row[1+j] = e.Board.Noop()
		}
		rows[i] = row
	}
	widths := make([]int, numCols)
	for _, row := range rows {
		for c, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		parts := make([]string, numCols)
		for c, cell := range row {
			padded := padRunes(cell, widths[c]+2, c == 0)
			if 0 < c && c < numCols-1 {
				padded += ","
			}
			parts[c] = padded
		}
		lines[i] = "   " + strings.Join(parts, " ")
	}
	return headerComment(raw.Title, raw.Description) +
		"// " + raw.Scheme + "\n" +
		"{\n" +
		strings.Join(lines, ",\n") +
		"\n}", nil
}

// EncodeAll encodes a collection of mappings, one block per board slot.
// Collections with fewer mappings than slots are padded with empty mappings;
// collections with more either fail (StrictSlots) or encode the excess with a
// warning.
func (e *Encoder) EncodeAll(ms *remap.Mappings) ([]string, error) {
	if e.Board == nil {
		return nil, fmt.Errorf("no board information: cannot encode")
	}
	n := ms.Len()
	if !e.Board.CheckNMappings(n) {
		if e.StrictSlots {
			return nil, fmt.Errorf("too many mappings: %d (board supports %d)",
				n, e.Board.NMappings)
		}
		e.logger.Warn("Too many mappings", "count", n, "slots", e.Board.NMappings)
	}
	total := n
	if e.Board.NMappings > total {
		total = e.Board.NMappings
	}
	encoded := make([]string, total)
	for i := 0; i < total; i++ {
		m := emptyMapping()
		if i < n {
			m = ms.At(i)
		}
		if err := e.IsCompatible(m); err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
		block, err := e.Encode(m)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
		encoded[i] = block
	}
	return encoded, nil
}

// The physical layout of the nez-oba board, with one placeholder per button
// and a $ at the boundary between the left and right half of each row.
var showTemplate = []string{
	"[{12}] [{13}]  [{14}]$",
	"$",
	"[{0}] [{1}] [{2}]$[{4}] [{5}] [{6}] [{7}]",
	"$[{8}] [{9}] [{10}] [{11}]",
	"[{3}]$",
}

const showSlots = 15

// CfgBits formats a configuration slot number the way the board's DIP
// switches display it.
func CfgBits(n int) string { return fmt.Sprintf("%04b", n) }

// Show formats a mapping as a human-readable picture of the board, centered
// on the encoder's text width. The cfg label is displayed in the top-right
// corner, where the board's configuration switches sit. With buttonNumbers,
// each slot also displays its button number.
func (e *Encoder) Show(m *remap.Mapping, cfg string, buttonNumbers bool) (string, error) {
	raw := m.Raw()
	if len(raw.Presses) > showSlots {
		return "", fmt.Errorf("show only works for mappings with at most %d buttons", showSlots)
	}
	presses := make([]string, showSlots)
	copy(presses, raw.Presses)
	if buttonNumbers {
		for k, p := range presses {
			presses[k] = fmt.Sprintf("%s %d", p, k)
		}
	}
	filled := make([][]string, len(showTemplate))
	for i, tmpl := range showTemplate {
		for k, p := range presses {
			tmpl = strings.ReplaceAll(tmpl, fmt.Sprintf("{%d}", k), p)
		}
		left, right, _ := strings.Cut(tmpl, "$")
		filled[i] = []string{left, right}
	}
	filled[0][1] = "[" + cfg + "]"

	var maxLeft, maxRight int
	for _, row := range filled {
		if w := utf8.RuneCountInString(row[0]); w > maxLeft {
			maxLeft = w
		}
		if w := utf8.RuneCountInString(row[1]); w > maxRight {
			maxRight = w
		}
	}
	left := func(r int) string { return padRunes(filled[r][0], maxLeft, false) }
	right := func(r int) string { return padRunes(filled[r][1], maxRight, false) }
	leftAl := func(r int) string { return padRunes(filled[r][0], maxLeft, true) }
	rightAl := func(r int) string { return padRunes(filled[r][1], maxRight, true) }
	aligned := [][2]string{
		{leftAl(0), right(0)},
		{leftAl(1), right(1)},
		{leftAl(2), rightAl(2)},
		{leftAl(3), rightAl(3)},
		{left(4), right(4)},
	}
	joined := make([]string, len(aligned))
	for i, row := range aligned {
		joined[i] = row[0] + "    " + row[1]
	}
	ruler := "+-" + strings.Repeat("-", utf8.RuneCountInString(joined[0])) + "-+"
	boxed := []string{ruler}
	for _, row := range joined {
		boxed = append(boxed, "| "+row+" |")
	}
	boxed = append(boxed, ruler)
	scheme := center("( "+raw.Scheme+" )", utf8.RuneCountInString(ruler))
	boxed = append([]string{scheme}, boxed...)

	pad := ""
	if w := utf8.RuneCountInString(boxed[0]); e.Width > w {
		pad = strings.Repeat(" ", (e.Width-w)/2)
	}
	for i, row := range boxed {
		boxed[i] = pad + row
	}
	board := strings.Join(boxed, "\n")

	header := raw.Title
	if raw.Description != "" {
		header += ": " + raw.Description
	}
	if header != "" {
		return wordwrap.String(header, e.Width) + "\n\n" + board, nil
	}
	return board, nil
}

// ShowAll formats a collection of mappings, labeling each with its slot
// number in the board's DIP-switch notation (slot numbers start at 1).
func (e *Encoder) ShowAll(ms *remap.Mappings) ([]string, error) {
	shown := make([]string, ms.Len())
	for i := 0; i < ms.Len(); i++ {
		s, err := e.Show(ms.At(i), CfgBits(i+1), false)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
		shown[i] = s
	}
	return shown, nil
}

// center pads s with spaces on both sides to the given rune width, with the
// extra space on the right when the padding is odd.
func center(s string, width int) string {
	total := width - utf8.RuneCountInString(s)
	if total <= 0 {
		return s
	}
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// Decode parses an encoded mapping back into a named mapping over the
// nez-oba buttons and the naming table of the scheme declared in the encoded
// text (defaulting to the first scheme when unknown). Keys and buttons the
// decoder's tables do not cover are skipped with a warning, as are noop
// entries.
func (e *Encoder) Decode(encoded string) (*remap.NamedMapping, error) {
	if e.Board == nil {
		return nil, fmt.Errorf("no board information: cannot decode")
	}
	re := e.decodeRegexp()
	match := re.FindStringSubmatch(encoded)
	if match == nil {
		return nil, fmt.Errorf("parsing of mapping failed")
	}
	group := func(name string) string {
		if i := re.SubexpIndex(name); i >= 0 {
			return match[i]
		}
		return ""
	}
	scheme, _ := remap.SchemeFromName(group("scheme"))
	mapping := remap.DefaultNamedMapping(scheme)
	title, description := splitHeader(group("header"))
	mapping.Title = title
	mapping.Description = description
	for b := 0; b < e.Board.NButtons; b++ {
		if b >= mapping.Buttons().Len() {
			e.logger.Warn("Button is unavailable: skipping", "button", b)
			continue
		}
		button := mapping.Buttons().At(b)
		var combo remap.Combo
		for k := 0; k < e.Board.NKeysPerButton; k++ {
			token := group(fmt.Sprintf("B%dK%d", b, k))
			if token == e.Board.Noop() {
				continue
			}
			key, ok := mapping.Keys().Find(token)
			if !ok {
				e.logger.Warn("Key is unavailable: skipping", "key", token)
				continue
			}
			press := remap.Press{Key: key}
			if group(fmt.Sprintf("B%dT%d", b, k)) != "" {
				press.Turbo = remap.TurboDefault
			}
			if combo == nil {
				combo = press
			} else {
				combo = combo.And(press)
			}
		}
		if combo != nil {
			if err := mapping.Set(button, combo); err != nil {
				return nil, err
			}
		}
	}
	return mapping, nil
}

// splitHeader breaks an encoded header comment into a title and a
// description, splitting at the first colon if there is one and at the first
// whitespace otherwise, and collapsing runs of whitespace.
func splitHeader(header string) (string, string) {
	if header == "" {
		return "", ""
	}
	var title, description string
	if before, after, found := strings.Cut(header, ":"); found {
		title, description = before, after
	} else if before, after, found := strings.Cut(header, " "); found {
		title, description = before, after
	}
	return collapse(title), collapse(description)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// decodeRegexp builds (once) the expression matching an encoded mapping for
// this board: an optional header comment, the scheme line, and one row per
// board button with an optional comment and the board's keys-per-button
// tokens, each optionally flagged as turboed.
func (e *Encoder) decodeRegexp() *regexp.Regexp {
	if e.decodeRe != nil {
		return e.decodeRe
	}
	var sb strings.Builder
	sb.WriteString(`(?s)\A\s*`)
	sb.WriteString(`(/\*(?P<header>.*?)\*/)?\s*`)
	sb.WriteString(`(?m-s:^\s*//\s*(?P<scheme>\w*).*$)\s*`)
	sb.WriteString(`\{\s*`)
	rows := make([]string, e.Board.NButtons)
	for b := 0; b < e.Board.NButtons; b++ {
		keys := make([]string, e.Board.NKeysPerButton)
		for k := 0; k < e.Board.NKeysPerButton; k++ {
			keys[k] = fmt.Sprintf(`(?P<B%dT%d>%s)?(?P<B%dK%d>\w+)`,
				b, k, regexp.QuoteMeta(TurboMarker), b, k)
		}
		rows[b] = fmt.Sprintf(`(/\*(?P<B%ddesc>.*?)\*/)?\s*`, b) +
			strings.Join(keys, `\s*,\s*`)
	}
	sb.WriteString(strings.Join(rows, `\s*,\s*`))
	sb.WriteString(`\s*\}`)
	e.decodeRe = regexp.MustCompile(sb.String())
	return e.decodeRe
}
