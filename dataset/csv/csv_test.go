package csv

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/feature/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metadata = &yaml.Metadata{Label: "class", Attributes: []string{"a0", "a1", "a2"}}

func TestReadSamples(t *testing.T) {
	testCases := map[string]struct {
		input    string
		expected []dataset.Sample
		err      bool
	}{
		"label names and codes": {
			input: "a0,a1,a2,class\n1,2,3,window\n0,0,1,4\n",
			expected: []dataset.Sample{
				dataset.NewSample(feature.Window, 1, 2, 3),
				dataset.NewSample(feature.Shop, 0, 0, 1),
			},
		},
		"columns in any order plus extra ones": {
			input: "id,class,a2,a0,a1\n7,sky,3,1,2\n",
			expected: []dataset.Sample{
				dataset.NewSample(feature.Sky, 1, 2, 3),
			},
		},
		"only header": {
			input:    "class,a0,a1,a2\n",
			expected: []dataset.Sample{},
		},
		"missing label column":     {input: "a0,a1,a2\n1,2,3\n", err: true},
		"missing attribute column": {input: "class,a0,a1\nwall,1,2\n", err: true},
		"invalid label":            {input: "class,a0,a1,a2\nchimney,1,2,3\n", err: true},
		"invalid code":             {input: "class,a0,a1,a2\nwall,1,x,3\n", err: true},
		"short row":                {input: "class,a0,a1,a2\nwall,1,2\n", err: true},
		"empty":                    {input: "", err: true},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			samples, err := ReadSamples(strings.NewReader(tc.input), metadata)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, samples)
		})
	}
}

func TestReadBySampleStops(t *testing.T) {
	input := "class,a0,a1,a2\nwall,1,2,3\ndoor,1,2,3\nroof,1,2,3\n"
	var read []int
	err := ReadBySample(strings.NewReader(input), metadata, func(i int, _ dataset.Sample) (bool, error) {
		read = append(read, i)
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, read)
}

func TestWriterRoundTrip(t *testing.T) {
	samples := []dataset.Sample{
		dataset.NewSample(feature.Balcony, 3, 1, 4),
		dataset.NewSample(feature.Unknown, 1, 5, 9),
	}
	var buf bytes.Buffer
	w, err := NewWriter(&buf, metadata)
	require.NoError(t, err)
	n, err := w.Write(samples)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Flush())
	assert.Equal(t, "class,a0,a1,a2\nbalcony,3,1,4\nunknown,1,5,9\n", buf.String())

	read, err := ReadSamples(&buf, metadata)
	require.NoError(t, err)
	assert.Equal(t, samples, read)
}

func TestWriterShape(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, metadata)
	require.NoError(t, err)
	n, err := w.Write([]dataset.Sample{dataset.NewSample(feature.Wall, 1, 2, 3), dataset.NewSample(feature.Wall, 1)})
	assert.Equal(t, 1, n)
	assert.Equal(t, &dataset.ShapeError{Index: 1, Want: 3, Got: 1}, err)
}

func TestReadErrorsKeepCause(t *testing.T) {
	_, err := ReadSamplesFromFilePath(filepath.Join(t.TempDir(), "missing.csv"), metadata)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = ReadSamples(strings.NewReader("class,a0,a1,a2\nwall,1,x,3\n"), metadata)
	var numErr *strconv.NumError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, "x", numErr.Num)
}
