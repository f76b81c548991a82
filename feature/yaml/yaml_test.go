package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMetadata(t *testing.T) {
	testCases := map[string]struct {
		input    string
		expected *Metadata
		err      bool
	}{
		"attribute list": {
			input:    "label: class\nattributes: [hue, texture, height]\n",
			expected: &Metadata{Label: "class", Attributes: []string{"hue", "texture", "height"}},
		},
		"attribute count": {
			input:    "label: class\nattributes: 3\n",
			expected: &Metadata{Label: "class", Attributes: []string{"a0", "a1", "a2"}},
		},
		"numeric attribute names": {
			input:    "label: class\nattributes:\n  - 1\n  - 2\n",
			expected: &Metadata{Label: "class", Attributes: []string{"1", "2"}},
		},
		"missing label":       {input: "attributes: 3\n", err: true},
		"missing attributes":  {input: "label: class\n", err: true},
		"zero attributes":     {input: "label: class\nattributes: 0\n", err: true},
		"duplicate attribute": {input: "label: class\nattributes: [a, b, a]\n", err: true},
		"label as attribute":  {input: "label: class\nattributes: [a, class]\n", err: true},
		"invalid attributes":  {input: "label: class\nattributes: {a: b}\n", err: true},
		"invalid yml":         {input: "label: [class\n", err: true},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			md, err := ReadMetadata([]byte(tc.input))
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, md)
		})
	}
}

func TestReadMetadataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte("label: class\nattributes: 2\n"), 0644))

	md, err := ReadMetadataFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "a1"}, md.Attributes)

	_, err = ReadMetadataFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
