package forest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/metrics"
	"github.com/pbanos/canopy/tree"
	"github.com/pbanos/canopy/tree/xml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facadeSamples() *dataset.Dataset {
	rows := []struct {
		data  []int
		label feature.Label
	}{
		{[]int{0, 0, 0, 0, 0, 2}, feature.Door},
		{[]int{2, 0, 0, 0, 0, 1}, feature.Window},
		{[]int{1, 2, 0, 0, 0, 1}, feature.Window},
		{[]int{1, 1, 0, 0, 0, 1}, feature.Window},
		{[]int{1, 3, 2, 2, 0, 1}, feature.Window},
		{[]int{0, 0, 0, 0, 4, 1}, feature.Window},
		{[]int{1, 4, 0, 0, 1, 1}, feature.Door},
		{[]int{1, 4, 0, 0, 2, 1}, feature.Door},
		{[]int{1, 4, 0, 0, 3, 1}, feature.Door},
		{[]int{1, 3, 1, 1, 1, 1}, feature.Door},
		{[]int{1, 3, 1, 1, 2, 1}, feature.Door},
		{[]int{1, 3, 1, 2, 1, 1}, feature.Door},
		{[]int{1, 3, 1, 2, 2, 1}, feature.Door},
		{[]int{1, 3, 1, 1, 3, 1}, feature.Window},
		{[]int{1, 3, 1, 2, 3, 1}, feature.Door},
	}
	samples := make([]dataset.Sample, len(rows))
	for i, r := range rows {
		samples[i] = dataset.NewSample(r.label, r.data...)
	}
	return dataset.New(samples)
}

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func grownForest(t *testing.T, opts ...Option) *Forest {
	f := New(append([]Option{Logger(quietLogger())}, opts...)...)
	require.NoError(t, f.Construct(context.Background(), facadeSamples()))
	return f
}

func TestConstruct(t *testing.T) {
	f := grownForest(t, NumTrees(7), Ratio(0.6), MaxDepth(4), Seed(11))
	require.Len(t, f.Trees(), 7)
	for i, dt := range f.Trees() {
		require.NotNil(t, dt.Root(), "tree %d", i)
		assert.Equal(t, 9, dt.Root().Samples, "tree %d", i)
		assert.LessOrEqual(t, dt.Depth(), 4, "tree %d", i)
	}
	assert.Equal(t, Config{NumTrees: 7, Ratio: 0.6, MaxDepth: 4, Seed: 11}, f.Config())
}

func TestConstructDeterministic(t *testing.T) {
	var encoded [][]byte
	for _, workers := range []int{1, 3, 8} {
		f := grownForest(t, NumTrees(6), Seed(2024), Workers(workers))
		b, err := f.MarshalJSON()
		require.NoError(t, err)
		encoded = append(encoded, b)
	}
	for _, b := range encoded[1:] {
		assert.JSONEq(t, string(encoded[0]), string(b))
	}

	other, err := grownForest(t, NumTrees(6), Seed(2025)).MarshalJSON()
	require.NoError(t, err)
	assert.NotEqual(t, string(encoded[0]), string(other))
}

func TestConstructUnseeded(t *testing.T) {
	f := grownForest(t, NumTrees(2))
	assert.NotZero(t, f.Config().Seed)
	assert.Len(t, f.Trees(), 2)
}

func TestConstructInvalid(t *testing.T) {
	testCases := map[string]struct {
		opts    []Option
		samples *dataset.Dataset
	}{
		"no trees":        {opts: []Option{NumTrees(0)}, samples: facadeSamples()},
		"zero ratio":      {opts: []Option{Ratio(0)}, samples: facadeSamples()},
		"ratio above one": {opts: []Option{Ratio(1.5)}, samples: facadeSamples()},
		"empty subsample": {opts: []Option{Ratio(0.05)}, samples: facadeSamples()},
		"no samples":      {opts: nil, samples: dataset.New(nil)},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			f := New(append([]Option{Logger(quietLogger())}, tc.opts...)...)
			assert.Error(t, f.Construct(context.Background(), tc.samples))
			assert.Empty(t, f.Trees())
		})
	}
}

func TestConstructShapeError(t *testing.T) {
	ds := dataset.New([]dataset.Sample{
		dataset.NewSample(feature.Wall, 1, 2),
		dataset.NewSample(feature.Door, 1),
	})
	err := New(Logger(quietLogger())).Construct(context.Background(), ds)
	var shapeErr *dataset.ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}

func TestConstructCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := New(Logger(quietLogger()), Seed(1))
	assert.Error(t, f.Construct(ctx, facadeSamples()))
}

func TestConstructLogsProgress(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	f := New(Logger(log), NumTrees(3), Seed(1))
	require.NoError(t, f.Construct(context.Background(), facadeSamples()))

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "growing random forest")
	assert.Contains(t, messages, "tree 1/3 grown")
	assert.Contains(t, messages, "tree 3/3 grown")
}

func TestConstructMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	f := grownForest(t, NumTrees(4), Seed(9), Metrics(m))
	_, err = f.Test(dataset.NewSample(feature.Unknown, 1, 3, 1, 1, 1, 1))
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 4.0, values["canopy_trees_grown_total"])
	assert.Equal(t, 1.0, values["canopy_classifications_total"])
}

func TestTestMajority(t *testing.T) {
	leaf := func(l feature.Label) *tree.DecisionTree {
		return tree.New(tree.NewLeaf(0, l))
	}
	testCases := map[string]struct {
		trees    []*tree.DecisionTree
		expected feature.Label
	}{
		"unanimous":          {trees: []*tree.DecisionTree{leaf(feature.Roof), leaf(feature.Roof)}, expected: feature.Roof},
		"majority":           {trees: []*tree.DecisionTree{leaf(feature.Sky), leaf(feature.Door), leaf(feature.Sky)}, expected: feature.Sky},
		"tie to lowest code": {trees: []*tree.DecisionTree{leaf(feature.Sky), leaf(feature.Window)}, expected: feature.Window},
		"three way tie":      {trees: []*tree.DecisionTree{leaf(feature.Shop), leaf(feature.Unknown), leaf(feature.Balcony)}, expected: feature.Balcony},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			f := FromTrees(Config{NumTrees: len(tc.trees)}, tc.trees)
			l, err := f.Test(dataset.NewSample(feature.Unknown, 0))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, l)

			votes, err := f.Votes(dataset.NewSample(feature.Unknown, 0))
			require.NoError(t, err)
			assert.Equal(t, len(tc.trees), votes.Total())
		})
	}
}

func TestTestEmptyForest(t *testing.T) {
	_, err := New().Test(dataset.NewSample(feature.Unknown, 1, 2))
	assert.Equal(t, ErrEmptyForest, err)
	_, err = New().Votes(dataset.NewSample(feature.Unknown, 1, 2))
	assert.Equal(t, ErrEmptyForest, err)
}

func TestTestTreeError(t *testing.T) {
	f := FromTrees(Config{NumTrees: 2}, []*tree.DecisionTree{tree.New(tree.NewLeaf(0, feature.Wall)), tree.New(nil)})
	_, err := f.Test(dataset.NewSample(feature.Unknown, 0))
	assert.True(t, errors.Is(err, tree.ErrNotConstructed))
}

func TestJSONRoundTrip(t *testing.T) {
	f := grownForest(t, NumTrees(5), Ratio(0.8), MaxDepth(-1), Seed(77))
	var buf bytes.Buffer
	require.NoError(t, f.WriteJSON(&buf))
	read, err := ReadJSON(&buf, Logger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, f.Config(), read.Config())
	require.Len(t, read.Trees(), 5)
	for _, s := range facadeSamples().Samples() {
		expected, err := f.Votes(s)
		require.NoError(t, err)
		votes, err := read.Votes(s)
		require.NoError(t, err)
		assert.Equal(t, expected, votes)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(bytes.NewBufferString(`{"config":{},"trees":[{"root":{"label":"nope"}}]}`))
	assert.Error(t, err)
	_, err = ReadJSON(bytes.NewBufferString(`[`))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	f := grownForest(t, NumTrees(3), Seed(5))
	path := filepath.Join(t.TempDir(), "forest.xml")
	require.NoError(t, f.Save(path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	trees, err := xml.ReadForest(file)
	require.NoError(t, err)
	require.Len(t, trees, 3)
	for i := range trees {
		assert.Equal(t, f.Trees()[i].Size(), trees[i].Size())
	}

	assert.Error(t, f.Save(filepath.Join(t.TempDir(), "missing", "forest.xml")))
}
