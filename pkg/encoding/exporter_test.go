package encoding

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nezoba/nezoba/pkg/remap"
	"github.com/nezoba/nezoba/pkg/serialization"
)

const tinyKeysHeader = `#define N_BUTTONS 3
#define N_REMAPPINGS 2
#define N_KEYS_PER_BUTTON 1

enum key {
   K_NOOP=0,
   K_DP_UP=1,
   K_A=10
};
`

// exporterFixture sets up a project directory with a keys header and a
// serialized mappings file with one mapping.
func exporterFixture(t *testing.T) (projectDir, yamlPath string) {
	t.Helper()
	projectDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, DefaultKeysFile),
		[]byte(tinyKeysHeader), 0644))

	nm := remap.DefaultNamedMapping(remap.NS)
	nm.Title = "Fixture"
	require.NoError(t, nm.Set(nm.Buttons().At(0), remap.Press{Key: namedKey(t, "K_A")}))
	require.NoError(t, nm.Set(nm.Buttons().At(1), remap.Press{Key: namedKey(t, "K_DP_UP")}))
	ms, err := remap.NewMappings([]*remap.Mapping{nm.Mapping})
	require.NoError(t, err)
	data, err := serialization.Marshal(ms)
	require.NoError(t, err)

	yamlPath = filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(yamlPath, data, 0644))
	return projectDir, yamlPath
}

func TestNewExporter(t *testing.T) {
	projectDir, yamlPath := exporterFixture(t)

	e, err := NewExporter(projectDir, yamlPath)
	require.NoError(t, err)
	require.NotNil(t, e.Board)
	assert.Equal(t, 3, e.Board.NButtons)
	assert.Equal(t, 2, e.Board.NMappings)

	// Without a project directory the exporter can still show
	e, err = NewExporter("", yamlPath)
	require.NoError(t, err)
	assert.Nil(t, e.Board)

	// A project directory without a keys header is an error
	_, err = NewExporter(t.TempDir(), yamlPath)
	assert.Error(t, err)
}

func TestExporterEncode(t *testing.T) {
	projectDir, yamlPath := exporterFixture(t)
	e, err := NewExporter(projectDir, yamlPath)
	require.NoError(t, err)

	ms, err := e.Encode(true)
	require.NoError(t, err)
	assert.Equal(t, 1, ms.Len())

	// One slot file per board slot, mappings padded with empty ones
	for slot := 0; slot < e.Board.NMappings; slot++ {
		path := filepath.Join(projectDir, fmt.Sprintf(DefaultMappingPattern, slot))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		if slot == 0 {
			assert.Contains(t, string(data), "K_A")
		} else {
			assert.NotContains(t, string(data), "K_A")
		}
		assert.NoFileExists(t, path+BakExt)
	}

	// A second run backs up the previous slot files
	_, err = e.Encode(true)
	require.NoError(t, err)
	for slot := 0; slot < e.Board.NMappings; slot++ {
		path := filepath.Join(projectDir, fmt.Sprintf(DefaultMappingPattern, slot))
		assert.FileExists(t, path+BakExt)
	}
}

func TestExporterEncodeNoBackup(t *testing.T) {
	projectDir, yamlPath := exporterFixture(t)
	e, err := NewExporter(projectDir, yamlPath)
	require.NoError(t, err)

	_, err = e.Encode(false)
	require.NoError(t, err)
	_, err = e.Encode(false)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(projectDir, "remap00.h"+BakExt))
}

func TestExporterDecode(t *testing.T) {
	projectDir, yamlPath := exporterFixture(t)
	e, err := NewExporter(projectDir, yamlPath)
	require.NoError(t, err)
	_, err = e.Encode(true)
	require.NoError(t, err)

	ms, err := e.Decode(true)
	require.NoError(t, err)
	assert.Equal(t, e.Board.NMappings, ms.Len())
	assert.FileExists(t, yamlPath+BakExt)

	// The decoded mappings round-trip through the mappings file
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	reloaded, err := serialization.Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Len())

	first := reloaded.At(0)
	assert.Equal(t, 2, first.Len())
	combo, ok := first.Get(first.Buttons().At(0))
	require.True(t, ok)
	assert.Equal(t, remap.Press{Key: namedKey(t, "K_A")}, combo)
	assert.Equal(t, 0, reloaded.At(1).Len(), "the padding slot decodes to an empty mapping")
}

func TestExporterDecodeSkipsMissingSlots(t *testing.T) {
	projectDir, yamlPath := exporterFixture(t)
	e, err := NewExporter(projectDir, yamlPath)
	require.NoError(t, err)
	_, err = e.Encode(true)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(projectDir, fmt.Sprintf(DefaultMappingPattern, 1))))

	ms, err := e.Decode(false)
	require.NoError(t, err)
	assert.Equal(t, 1, ms.Len())
}

func TestExporterShow(t *testing.T) {
	_, yamlPath := exporterFixture(t)

	e, err := NewExporter("", yamlPath)
	require.NoError(t, err)

	shown, err := e.Show(DefaultTextWidth)
	require.NoError(t, err)
	assert.Contains(t, shown, "( NS )")
	assert.Contains(t, shown, "Fixture")
	assert.Contains(t, shown, "[0001]")
}

func TestExporterEncodeWithoutProjectDir(t *testing.T) {
	_, yamlPath := exporterFixture(t)
	e, err := NewExporter("", yamlPath)
	require.NoError(t, err)

	_, err = e.Encode(true)
	assert.Error(t, err)
	_, err = e.Decode(true)
	assert.Error(t, err)
}
