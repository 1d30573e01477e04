package smartcam

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{"unix", "???\nperson\nbicycle", []string{"???", "person", "bicycle"}},
		{"trailing newline kept", "???\nperson\n", []string{"???", "person", ""}},
		{"windows line endings", "???\r\nperson\r\ncar", []string{"???", "person", "car"}},
		{"no trimming", "???\n  person \n", []string{"???", "  person ", ""}},
		{"duplicates kept", "???\ncat\ncat", []string{"???", "cat", "cat"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			labels, err := ParseLabels(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expect, labels.Names())
			assert.Equal(t, len(tc.expect), labels.Len())
		})
	}
}

func TestParseLabelsInvalidUTF8(t *testing.T) {
	_, err := ParseLabels(strings.NewReader("???\n\xff\xfe"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLabelsUnavailable))
}

func TestLoadLabelsMissingFile(t *testing.T) {
	_, err := LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLabelsUnavailable))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadLabels(t *testing.T) {
	file := filepath.Join(t.TempDir(), "labelmap.txt")
	require.NoError(t, os.WriteFile(file, []byte("???\nperson\nbicycle\ncar\n"), 0o644))

	labels, err := LoadLabels(file)
	require.NoError(t, err)
	assert.Equal(t, 5, labels.Len())
	assert.Equal(t, "car", labels.Lookup(2))
}

func TestLookupOffset(t *testing.T) {
	labels := NewLabels([]string{"???", "person", "bicycle"})

	// class id 0 is on the second line, never the placeholder
	assert.Equal(t, "person", labels.Lookup(0))
	assert.Equal(t, "bicycle", labels.Lookup(1))
}

func TestLookupOutOfRangePanics(t *testing.T) {
	labels := NewLabels([]string{"???", "person"})

	assert.Panics(t, func() { labels.Lookup(1) })
	assert.Panics(t, func() { labels.Lookup(-1) })
	assert.NotPanics(t, func() { labels.Lookup(0) })
}

func TestNamesReturnsCopy(t *testing.T) {
	labels := NewLabels([]string{"???", "person"})
	names := labels.Names()
	names[1] = "changed"
	assert.Equal(t, "person", labels.Lookup(0))
}
