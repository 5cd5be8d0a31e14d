package encoding

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nezoba/nezoba/pkg/logging"
	"github.com/nezoba/nezoba/pkg/remap"
	"github.com/nezoba/nezoba/pkg/serialization"
)

// Defaults for the files an Exporter works with.
const (
	// DefaultKeysFile is the header file declaring the board's buttons
	// and keys.
	DefaultKeysFile = "keys.h"
	// DefaultMappingPattern is the filename pattern of the encoded slot
	// files, taking the slot number.
	DefaultMappingPattern = "remap%02d.h"
	// BakExt is the extension appended to backup files.
	BakExt = ".bak"
)

// Exporter moves encoded and decoded mappings between a mappings YAML file
// and the project directory holding the board software.
type Exporter struct {
	// ProjectDir is the directory where the board software is stored. It
	// may be empty, in which case only Show is available.
	ProjectDir string
	// MappingYAML is the path of the serialized mappings file.
	MappingYAML string
	// KeysFile is the name, within ProjectDir, of the board's keys header.
	KeysFile string
	// MappingPattern is the filename pattern of the encoded slot files.
	MappingPattern string
	// Board is the board information read from KeysFile at construction.
	Board *BoardInfo
	// StrictSlots makes Encode fail instead of warn when the mappings file
	// holds more mappings than the board has slots.
	StrictSlots bool

	logger logging.Logger
}

// NewExporter creates an exporter for the board software in projectDir and
// the mappings file mappingYAML, reading the board information from the
// default keys header. An empty projectDir restricts the exporter to Show.
func NewExporter(projectDir, mappingYAML string) (*Exporter, error) {
	return NewExporterWithFiles(projectDir, mappingYAML, DefaultKeysFile, DefaultMappingPattern)
}

// NewExporterWithFiles is like NewExporter with explicit names for the keys
// header and the slot file pattern.
func NewExporterWithFiles(projectDir, mappingYAML, keysFile, mappingPattern string) (*Exporter, error) {
	e := &Exporter{
		ProjectDir:     projectDir,
		MappingYAML:    mappingYAML,
		KeysFile:       keysFile,
		MappingPattern: mappingPattern,
		logger:         logging.NewComponentLogger("exporter"),
	}
	if projectDir == "" {
		e.logger.Warn("No project directory given: only show is available")
		return e, nil
	}
	board, err := ReadBoardInfo(filepath.Join(projectDir, keysFile))
	if err != nil {
		return nil, err
	}
	e.Board = board
	return e, nil
}

// readMappings loads the mappings YAML file.
func (e *Exporter) readMappings() (*remap.Mappings, error) {
	data, err := os.ReadFile(e.MappingYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file %s: %w", e.MappingYAML, err)
	}
	ms, err := serialization.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings file %s: %w", e.MappingYAML, err)
	}
	return ms, nil
}

// slotPath returns the path of the encoded file for a mapping slot.
func (e *Exporter) slotPath(slot int) string {
	return filepath.Join(e.ProjectDir, fmt.Sprintf(e.MappingPattern, slot))
}

// backup renames path to path plus the backup extension, if path exists.
func backup(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.Rename(path, path+BakExt); err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return nil
}

// Show reads the mappings file and renders every mapping as a human-readable
// picture of the board, joined by a dashed ruler.
func (e *Exporter) Show(width int) (string, error) {
	ms, err := e.readMappings()
	if err != nil {
		return "", err
	}
	encoder := NewEncoder(e.Board)
	encoder.Width = width
	shown, err := encoder.ShowAll(ms)
	if err != nil {
		return "", err
	}
	separator := "\n\n" + strings.Repeat("-", width) + "\n\n"
	return strings.Join(shown, separator), nil
}

// Encode reads the mappings file and writes one encoded slot file per board
// slot into the project directory. With bak, existing slot files are renamed
// with the backup extension before being overwritten. It returns the
// mappings read from the file.
func (e *Exporter) Encode(bak bool) (*remap.Mappings, error) {
	if e.Board == nil {
		return nil, fmt.Errorf("no project directory given: cannot encode")
	}
	ms, err := e.readMappings()
	if err != nil {
		return nil, err
	}
	encoder := NewEncoder(e.Board)
	encoder.StrictSlots = e.StrictSlots
	encoded, err := encoder.EncodeAll(ms)
	if err != nil {
		return nil, err
	}
	for slot, block := range encoded {
		path := e.slotPath(slot)
		if bak {
			if err := backup(path); err != nil {
				return nil, err
			}
		}
		if err := os.WriteFile(path, []byte(block), 0644); err != nil {
			return nil, fmt.Errorf("failed to write mapping file %s: %w", path, err)
		}
	}
	return ms, nil
}

// Decode reads the encoded slot files from the project directory and writes
// the decoded mappings into the mappings file. Missing slot files are skipped
// with a warning. With bak, an existing mappings file is renamed with the
// backup extension before being overwritten. It returns the decoded mappings.
func (e *Exporter) Decode(bak bool) (*remap.Mappings, error) {
	if e.Board == nil {
		return nil, fmt.Errorf("no project directory given: cannot decode")
	}
	encoder := NewEncoder(e.Board)
	var decoded []*remap.Mapping
	for slot := 0; slot < e.Board.NMappings; slot++ {
		path := e.slotPath(slot)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				e.logger.Warn("Mapping file does not exist: skipping", "file", path)
				continue
			}
			return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
		}
		mapping, err := encoder.Decode(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode mapping file %s: %w", path, err)
		}
		decoded = append(decoded, mapping.Mapping)
	}
	ms, err := remap.NewMappings(decoded)
	if err != nil {
		return nil, err
	}
	data, err := serialization.Marshal(ms)
	if err != nil {
		return nil, err
	}
	if bak {
		if err := backup(e.MappingYAML); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(e.MappingYAML, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write mappings file %s: %w", e.MappingYAML, err)
	}
	return ms, nil
}
