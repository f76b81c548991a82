package tree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestAttribute(t *testing.T) {
	ds := dataset.New([]dataset.Sample{
		dataset.NewSample(feature.Wall, 0, 1, 0),
		dataset.NewSample(feature.Wall, 0, 0, 0),
		dataset.NewSample(feature.Door, 1, 1, 1),
		dataset.NewSample(feature.Door, 1, 0, 1),
	})
	testCases := map[string]struct {
		candidates []int
		expected   int
		entropy    float64
	}{
		"all":                {candidates: []int{0, 1, 2}, expected: 0, entropy: 0.0},
		"tie goes to first":  {candidates: []int{2, 0}, expected: 2, entropy: 0.0},
		"only uninformative": {candidates: []int{1}, expected: 1, entropy: 1.0},
		"none":               {candidates: nil, expected: NoAttribute},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			a, e, err := BestAttribute(ds, tc.candidates)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, a)
			if tc.expected != NoAttribute {
				assert.InDelta(t, tc.entropy, e, 1e-12)
			}
		})
	}
}

func TestCandidateAttributes(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, candidateAttributes(4, false, nil))
	for width, k := range map[int]int{1: 1, 3: 1, 4: 2, 10: 3, 16: 4} {
		c := candidateAttributes(width, true, rand.New(rand.NewSource(int64(width))))
		require.Len(t, c, k, "width %d", width)
		sorted := append([]int(nil), c...)
		sort.Ints(sorted)
		for i := 1; i < len(sorted); i++ {
			assert.NotEqual(t, sorted[i-1], sorted[i])
		}
		for _, a := range c {
			assert.True(t, a >= 0 && a < width)
		}
	}
}
