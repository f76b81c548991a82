package json

import (
	"bytes"
	"testing"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) *tree.DecisionTree {
	ds := dataset.New([]dataset.Sample{
		dataset.NewSample(feature.Shop, 0, 2),
		dataset.NewSample(feature.Shop, 0, 1),
		dataset.NewSample(feature.Wall, 1, 2),
		dataset.NewSample(feature.Door, 1, 1),
		dataset.NewSample(feature.Door, 1, 1),
	})
	dt := &tree.DecisionTree{}
	require.NoError(t, dt.Construct(ds, false, -1, nil))
	return dt
}

func TestRoundTrip(t *testing.T) {
	original := sampleTree(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSONTree(&buf, original))
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
	read, err := UnmarshalTree(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, original.String(), read.String())
	assert.Equal(t, original.Root(), read.Root())
}

func TestMarshalLeaf(t *testing.T) {
	leaf := tree.NewLeaf(0, feature.Roof)
	leaf.Samples = 3
	b, err := MarshalTree(tree.New(leaf))
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":{"label":"roof","samples":3}}`, string(b))
}

func TestMarshalEmpty(t *testing.T) {
	b, err := MarshalTree(tree.New(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":null}`, string(b))
	dt, err := UnmarshalTree(b)
	require.NoError(t, err)
	assert.Nil(t, dt.Root())
}

func TestUnmarshalInvalid(t *testing.T) {
	testCases := map[string]string{
		"invalid label":          `{"root":{"label":"attic"}}`,
		"internal without split": `{"root":{"label":"wall","children":{"0":{"label":"door"}}}}`,
		"negative split":         `{"root":{"attribute":-1,"label":"wall","children":{"0":{"label":"door"}}}}`,
		"null child":             `{"root":{"attribute":0,"label":"wall","children":{"0":null}}}`,
		"not json":               `{"root":`,
	}
	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalTree([]byte(doc))
			assert.Error(t, err)
		})
	}
}
