// Package shell implements the interactive mapping editor behind the edit
// command.
package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nezoba/nezoba/pkg/encoding"
	"github.com/nezoba/nezoba/pkg/logging"
	"github.com/nezoba/nezoba/pkg/remap"
	"github.com/nezoba/nezoba/pkg/serialization"
)

// Message types for the editor transcript
type messageType int

const (
	commandMessage messageType = iota
	outputMessage
	infoMessage
	errorMessage
)

// Styles
var (
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	outputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)
)

const noSelection = -1

// Model holds the state of the mapping editor.
type Model struct {
	// UI components
	input    textinput.Model
	viewport viewport.Model

	// Transcript state
	messages []string
	ready    bool

	// Editor state
	mappingsYAML string
	mappings     *remap.Mappings
	selected     int
	changed      map[int]bool
	quitWarned   bool

	// Dimensions
	width  int
	height int
}

// initialModel creates the editor model for a mappings file. A missing file
// starts an empty collection.
func initialModel(mappingsYAML string) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Type a command or 'help'..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 50

	vp := viewport.New(80, 20)
	vp.SetContent("")

	mappings, err := loadMappings(mappingsYAML)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		input:        ti,
		viewport:     vp,
		messages:     []string{},
		mappingsYAML: mappingsYAML,
		mappings:     mappings,
		selected:     noSelection,
		changed:      make(map[int]bool),
	}
	m.setPrompt()
	return m, nil
}

func loadMappings(path string) (*remap.Mappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return remap.NewMappings(nil)
		}
		return nil, fmt.Errorf("failed to read mappings file %s: %w", path, err)
	}
	ms, err := serialization.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("invalid mappings file %s: %w", path, err)
	}
	return ms, nil
}

// setPrompt reflects the selected mapping in the input prompt.
func (m *Model) setPrompt() {
	if m.selected == noSelection {
		m.input.Prompt = "<nezoba> "
		return
	}
	m.input.Prompt = fmt.Sprintf("<nezoba:map %02d (%04b)> ", m.selected, m.selected)
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m.handleInput()
		case "up", "down", "pgup", "pgdown", "home", "end":
			// Handle viewport scrolling
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 4 // space for input
		m.input.Width = msg.Width - 7      // border(2) + padding(2) + margin(3)

		if !m.ready {
			m.ready = true
			m.addMessage(infoMessage, "Welcome to the nez-oba mapping editor. Type 'help' to list commands.")
		}

		return m, nil
	}

	var inputCmd tea.Cmd
	var viewportCmd tea.Cmd

	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)

	return m, tea.Batch(inputCmd, viewportCmd)
}

// View renders the model with viewport and input at bottom
func (m Model) View() string {
	if !m.ready {
		return "Loading mappings..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), inputStyle.Render(m.input.View()))
}

// handleInput processes one command line
func (m Model) handleInput() (Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.addMessage(commandMessage, m.input.Prompt+line)
	m.input.SetValue("")

	fields := strings.Fields(line)
	command, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	if command != "quit" && command != "exit" {
		m.quitWarned = false
	}

	switch command {
	case "help":
		m.showHelp()
	case "list":
		m.listMappings()
	case "map":
		m.selectMapping(rest)
	case "show":
		m.showMapping()
	case "keys":
		m.listKeys()
	case "new":
		m.newMapping(rest)
	case "copy":
		m.copyMapping()
	case "delete":
		m.deleteMapping()
	case "set":
		m.setCombo(fields[1:])
	case "unset":
		m.unsetCombo(rest)
	case "title":
		m.setTitle(rest)
	case "desc":
		m.setDescription(rest)
	case "save":
		m.save()
	case "quit", "exit":
		if len(m.changed) == 0 || m.quitWarned {
			return m, tea.Quit
		}
		m.quitWarned = true
		m.addMessage(errorMessage, fmt.Sprintf(
			"Unsaved changes to mappings: %s. Repeat the command to discard them.",
			m.changedList()))
	default:
		m.addMessage(errorMessage, "Unknown command. Type 'help'.")
	}
	return m, nil
}

func (m *Model) showHelp() {
	for _, line := range []string{
		"list                 - list all mappings",
		"map N                - select mapping #N (decimal or binary digits)",
		"show                 - display the selected mapping",
		"keys                 - list the keys available to the selected mapping",
		"new SCHEME           - append a new mapping (schemes: NS, PC)",
		"copy                 - append a copy of the selected mapping's metadata",
		"delete               - delete the selected mapping",
		"set BUTTON COMBO     - assign a combo to a button, e.g. set 4 A & _ZR",
		"unset BUTTON         - clear the combo of a button",
		"title TEXT           - set the selected mapping's title",
		"desc TEXT            - set the selected mapping's description",
		"save                 - save all mappings to file",
		"quit                 - exit the editor",
	} {
		m.addMessage(infoMessage, line)
	}
}

func (m *Model) listMappings() {
	if m.mappings.Len() == 0 {
		m.addMessage(infoMessage, "No mappings. Create one with 'new NS' or 'new PC'.")
		return
	}
	for i := 0; i < m.mappings.Len(); i++ {
		mapping := m.mappings.At(i)
		title := mapping.Title
		if title == "" {
			title = "(untitled)"
		}
		marker := " "
		if m.changed[i] {
			marker = "*"
		}
		m.addMessage(outputMessage, fmt.Sprintf("%s%02d (%04b)  %s", marker, i, i, title))
	}
}

// parseCfg accepts a mapping number in decimal or as binary digits
// (optionally space-separated, the way the board's DIP switches read).
func parseCfg(arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return n, nil
	}
	digits := strings.ReplaceAll(arg, " ", "")
	n, err := strconv.ParseInt(digits, 2, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid configuration number: %s", arg)
	}
	return int(n), nil
}

func (m *Model) selectMapping(arg string) {
	n, err := parseCfg(arg)
	if err != nil || n < 0 || n >= m.mappings.Len() {
		m.addMessage(errorMessage, fmt.Sprintf("Invalid configuration number: %s", arg))
		return
	}
	m.selected = n
	m.setPrompt()
	m.addMessage(infoMessage, fmt.Sprintf("Selected mapping %02d (%04b).", n, n))
}

// current returns the selected mapping, reporting an error message when none
// is selected.
func (m *Model) current() (*remap.Mapping, bool) {
	if m.selected == noSelection {
		m.addMessage(errorMessage, "Select a mapping first.")
		return nil, false
	}
	return m.mappings.At(m.selected), true
}

func (m *Model) showMapping() {
	mapping, ok := m.current()
	if !ok {
		return
	}
	encoder := encoding.NewEncoder(nil)
	shown, err := encoder.Show(mapping, encoding.CfgBits(m.selected), true)
	if err != nil {
		m.addMessage(errorMessage, err.Error())
		return
	}
	m.addMessage(outputMessage, shown)
}

// listKeys lists the selected mapping's available keys, one line per key
// group, with runs of consecutive keys shown by their endpoints.
func (m *Model) listKeys() {
	mapping, ok := m.current()
	if !ok {
		return
	}
	keys := mapping.Keys()
	display := func(k remap.Key) string {
		if named, found := keys.Find(k.Key); found && named.DisplayName() != k.Key {
			return named.DisplayName() + "|" + k.Key
		}
		return k.Key
	}
	groups := []struct {
		label string
		group remap.KeyGroup
	}{
		{"D-pad", remap.GroupDpad},
		{"Buttons", remap.GroupRegular},
		{"Left stick", remap.GroupLeftStick},
		{"Right stick", remap.GroupRightStick},
	}
	for _, g := range groups {
		var parts []string
		for _, r := range keys.Unnamed().GroupRanges(g.group) {
			if r.Start == r.End {
				parts = append(parts, display(r.Start))
			} else {
				parts = append(parts, display(r.Start)+" .. "+display(r.End))
			}
		}
		if len(parts) > 0 {
			m.addMessage(outputMessage, fmt.Sprintf("%-12s %s", g.label+":", strings.Join(parts, ", ")))
		}
	}
	m.addMessage(infoMessage, fmt.Sprintf(
		"Use a key's name or token in combos. Mark turbo with %s, hold with %s, combine with %s.",
		remap.TurboMark, remap.HoldMark, remap.AndMark))
}

func (m *Model) newMapping(arg string) {
	scheme, ok := remap.SchemeFromName(strings.TrimSpace(arg))
	if !ok {
		m.addMessage(errorMessage, fmt.Sprintf("Invalid naming scheme: %s", arg))
		return
	}
	if err := m.mappings.Append(remap.DefaultNamedMapping(scheme).Mapping); err != nil {
		m.addMessage(errorMessage, err.Error())
		return
	}
	m.changed[m.mappings.Len()-1] = true
	m.addMessage(infoMessage, fmt.Sprintf("Created mapping %02d (%s).", m.mappings.Len()-1, scheme))
}

func (m *Model) copyMapping() {
	mapping, ok := m.current()
	if !ok {
		return
	}
	copied := remap.NewMapping(mapping.Buttons(), mapping.Keys(),
		mapping.Identifier, mapping.Title, mapping.Description)
	if err := m.mappings.Append(copied); err != nil {
		m.addMessage(errorMessage, err.Error())
		return
	}
	m.changed[m.mappings.Len()-1] = true
	m.addMessage(infoMessage, fmt.Sprintf("Copied to mapping %02d.", m.mappings.Len()-1))
}

func (m *Model) deleteMapping() {
	if _, ok := m.current(); !ok {
		return
	}
	if _, err := m.mappings.Remove(m.selected); err != nil {
		m.addMessage(errorMessage, err.Error())
		return
	}
	changed := make(map[int]bool, len(m.changed))
	for n := range m.changed {
		switch {
		case n > m.selected:
			changed[n-1] = true
		case n < m.selected:
			changed[n] = true
		}
	}
	m.changed = changed
	m.selected = noSelection
	m.setPrompt()
	m.addMessage(infoMessage, "Mapping deleted.")
}

func (m *Model) setCombo(args []string) {
	mapping, ok := m.current()
	if !ok {
		return
	}
	if len(args) < 2 {
		m.addMessage(errorMessage, "Usage: set BUTTON COMBO")
		return
	}
	button, ok := m.findButton(mapping, args[0])
	if !ok {
		return
	}
	combo, err := remap.ParseCombo(strings.Join(args[1:], " "), mapping.Keys())
	if err != nil {
		m.addMessage(errorMessage, fmt.Sprintf("Invalid combo: %v", err))
		return
	}
	if err := mapping.Set(button, combo); err != nil {
		m.addMessage(errorMessage, err.Error())
		return
	}
	m.changed[m.selected] = true
	m.addMessage(infoMessage, fmt.Sprintf("Button %d set to: %s", button.Identifier, combo.AsText()))
}

func (m *Model) unsetCombo(arg string) {
	mapping, ok := m.current()
	if !ok {
		return
	}
	button, ok := m.findButton(mapping, strings.TrimSpace(arg))
	if !ok {
		return
	}
	mapping.Unset(button)
	m.changed[m.selected] = true
	m.addMessage(infoMessage, fmt.Sprintf("Button %d cleared.", button.Identifier))
}

func (m *Model) findButton(mapping *remap.Mapping, arg string) (remap.Button, bool) {
	n, err := strconv.Atoi(arg)
	if err == nil {
		buttons := mapping.Buttons()
		for i := 0; i < buttons.Len(); i++ {
			if b := buttons.At(i); b.Identifier == n {
				return b, true
			}
		}
	}
	m.addMessage(errorMessage, fmt.Sprintf("Invalid button number: %s", arg))
	return remap.Button{}, false
}

func (m *Model) setTitle(text string) {
	mapping, ok := m.current()
	if !ok {
		return
	}
	mapping.Title = strings.TrimSpace(text)
	m.changed[m.selected] = true
	m.addMessage(infoMessage, "Title changed.")
}

func (m *Model) setDescription(text string) {
	mapping, ok := m.current()
	if !ok {
		return
	}
	mapping.Description = strings.TrimSpace(text)
	m.changed[m.selected] = true
	m.addMessage(infoMessage, "Description changed.")
}

func (m *Model) save() {
	if len(m.changed) == 0 {
		m.addMessage(infoMessage, "No unsaved changes.")
		return
	}
	data, err := serialization.Marshal(m.mappings)
	if err != nil {
		m.addMessage(errorMessage, err.Error())
		return
	}
	if _, err := os.Stat(m.mappingsYAML); err == nil {
		if err := os.Rename(m.mappingsYAML, m.mappingsYAML+encoding.BakExt); err != nil {
			m.addMessage(errorMessage, fmt.Sprintf("Failed to back up mappings file: %v", err))
			return
		}
	}
	if err := os.WriteFile(m.mappingsYAML, data, 0644); err != nil {
		m.addMessage(errorMessage, fmt.Sprintf("Failed to write mappings file: %v", err))
		return
	}
	m.changed = make(map[int]bool)
	m.addMessage(infoMessage, fmt.Sprintf("Saved %d mappings to %s.", m.mappings.Len(), m.mappingsYAML))
}

func (m *Model) changedList() string {
	var ns []string
	for i := 0; i < m.mappings.Len(); i++ {
		if m.changed[i] {
			ns = append(ns, strconv.Itoa(i))
		}
	}
	return strings.Join(ns, ", ")
}

// addMessage appends a styled, wrapped message to the transcript
func (m *Model) addMessage(msgType messageType, content string) {
	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80 // fallback width
	}

	var msg string
	switch msgType {
	case commandMessage:
		msg = commandStyle.Render(wordwrap.String(content, wrapWidth))
	case outputMessage:
		msg = outputStyle.Render(content)
	case infoMessage:
		msg = infoStyle.Render(wordwrap.String(content, wrapWidth))
	case errorMessage:
		msg = errorStyle.Render(wordwrap.String(content, wrapWidth))
	}

	m.messages = append(m.messages, msg)
	m.viewport.SetContent(strings.Join(m.messages, "\n"))
	m.viewport.GotoBottom()
}

// Run starts the interactive editor on a mappings file.
func Run(mappingsYAML string) error {
	// Log output would tear the TUI; route it to the debug file (NEZOBA_DEBUG_FILE,
	// NEZOBA_DEBUG_LEVEL) while the editor runs
	previous := logging.GetGlobalLogger()
	logging.SetGlobalLogger(logging.NewFileLoggerFromEnv("nezoba-debug.log"))
	defer logging.SetGlobalLogger(previous)

	model, err := initialModel(mappingsYAML)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
