// Package encoding translates mappings to and from the C header files
// consumed by the nez-oba board software.
package encoding

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// BoardInfo describes the buttons and keys supported by a physical controller
// board, as declared in its keys header file.
type BoardInfo struct {
	// NButtons is the number of physical buttons on the board.
	NButtons int
	// NMappings is the number of mapping slots on the board.
	NMappings int
	// NKeysPerButton is the maximum number of simultaneous key presses per
	// button.
	NKeysPerButton int
	// Keys lists all key tokens supported by the board, in declaration
	// order. The first token is the no-op key.
	Keys []string
}

// Noop returns the token of the key associated with no assignment (the first
// declared key).
func (bi *BoardInfo) Noop() string { return bi.Keys[0] }

// CheckNButtons reports whether the board supports n buttons.
func (bi *BoardInfo) CheckNButtons(n int) bool { return n <= bi.NButtons }

// CheckNMappings reports whether the board supports n mappings.
func (bi *BoardInfo) CheckNMappings(n int) bool { return n <= bi.NMappings }

// CheckNKeysPerButton reports whether the board supports n simultaneous key
// presses on one button.
func (bi *BoardInfo) CheckNKeysPerButton(n int) bool { return n <= bi.NKeysPerButton }

// CheckKeys reports whether the board supports every one of the given key
// tokens.
func (bi *BoardInfo) CheckKeys(keys []string) bool {
	supported := make(map[string]bool, len(bi.Keys))
	for _, k := range bi.Keys {
		supported[k] = true
	}
	for _, k := range keys {
		if !supported[k] {
			return false
		}
	}
	return true
}

// UnsupportedKeys returns the subset of the given tokens that the board does
// not support, without duplicates.
func (bi *BoardInfo) UnsupportedKeys(keys []string) []string {
	supported := make(map[string]bool, len(bi.Keys))
	for _, k := range bi.Keys {
		supported[k] = true
	}
	var unsupported []string
	seen := make(map[string]bool)
	for _, k := range keys {
		if !supported[k] && !seen[k] {
			seen[k] = true
			unsupported = append(unsupported, k)
		}
	}
	return unsupported
}

var (
	nButtonsRe       = regexp.MustCompile(`^\s*#define\s+N_BUTTONS\s+(\d+)`)
	nKeysPerButtonRe = regexp.MustCompile(`^\s*#define\s+N_KEYS_PER_BUTTON\s+(\d+)`)
	nMappingsRe      = regexp.MustCompile(`^\s*#define\s+N_REMAPPINGS\s+(\d+)`)
	keyEnumStartRe   = regexp.MustCompile(`^\s*enum\s+key`)
	keyEnumEndRe     = regexp.MustCompile(`^\s*};`)
)

// ParseBoardInfo extracts board information from the content of a keys header
// file: the N_BUTTONS, N_REMAPPINGS, and N_KEYS_PER_BUTTON macros, and the
// members of the `key` enum in declaration order.
func ParseBoardInfo(content string) (*BoardInfo, error) {
	info := &BoardInfo{NButtons: -1, NMappings: -1, NKeysPerButton: -1}
	inKeyEnum := false
	for _, line := range strings.Split(content, "\n") {
		if m := nButtonsRe.FindStringSubmatch(line); m != nil {
			info.NButtons, _ = strconv.Atoi(m[1])
			continue
		}
		if m := nKeysPerButtonRe.FindStringSubmatch(line); m != nil {
			info.NKeysPerButton, _ = strconv.Atoi(m[1])
			continue
		}
		if m := nMappingsRe.FindStringSubmatch(line); m != nil {
			info.NMappings, _ = strconv.Atoi(m[1])
			continue
		}
		if inKeyEnum {
			if keyEnumEndRe.MatchString(line) {
				inKeyEnum = false
				continue
			}
			token, _, _ := strings.Cut(strings.TrimSpace(line), "=")
			token = strings.TrimSuffix(strings.TrimSpace(token), ",")
			if token != "" {
				info.Keys = append(info.Keys, token)
			}
			continue
		}
		if keyEnumStartRe.MatchString(line) {
			inKeyEnum = true
		}
	}
	switch {
	case info.NButtons < 0:
		return nil, fmt.Errorf("missing N_BUTTONS definition")
	case info.NMappings < 0:
		return nil, fmt.Errorf("missing N_REMAPPINGS definition")
	case info.NKeysPerButton < 0:
		return nil, fmt.Errorf("missing N_KEYS_PER_BUTTON definition")
	case len(info.Keys) == 0:
		return nil, fmt.Errorf("missing key enum definition")
	}
	return info, nil
}

// ReadBoardInfo reads board information from a keys header file.
func ReadBoardInfo(path string) (*BoardInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keys file %s: %w", path, err)
	}
	info, err := ParseBoardInfo(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse keys file %s: %w", path, err)
	}
	return info, nil
}
