package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/forest"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"
)

func newStore(t *testing.T) (forest.Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(rc, "canopy:forests")
	t.Cleanup(func() { s.Close(context.Background()) })
	return s, mr
}

func grownForest(t *testing.T) *forest.Forest {
	log, _ := test.NewNullLogger()
	ds := dataset.New([]dataset.Sample{
		dataset.NewSample(feature.Door, 0, 0, 2),
		dataset.NewSample(feature.Window, 2, 0, 1),
		dataset.NewSample(feature.Window, 1, 2, 1),
		dataset.NewSample(feature.Door, 1, 4, 1),
		dataset.NewSample(feature.Door, 1, 3, 1),
		dataset.NewSample(feature.Window, 0, 1, 1),
	})
	f := forest.New(forest.NumTrees(3), forest.Ratio(1), forest.Seed(5), forest.Logger(log))
	require.NoError(t, f.Construct(context.Background(), ds))
	return f
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	missing, err := s.Get(ctx, "facades")
	require.NoError(t, err)
	assert.Nil(t, missing)

	f := grownForest(t)
	require.NoError(t, s.Put(ctx, "facades", f))
	assert.True(t, mr.Exists("canopy:forests:facades"))

	read, err := s.Get(ctx, "facades")
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.Equal(t, f.Config(), read.Config())
	require.Len(t, read.Trees(), 3)
	for i := range read.Trees() {
		assert.Equal(t, f.Trees()[i].String(), read.Trees()[i].String())
	}
	sample := dataset.NewSample(feature.Unknown, 1, 4, 1)
	expected, err := f.Test(sample)
	require.NoError(t, err)
	actual, err := read.Test(sample)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	require.NoError(t, s.Delete(ctx, "facades"))
	assert.False(t, mr.Exists("canopy:forests:facades"))
	missing, err = s.Get(ctx, "facades")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetCorrupted(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, mr.Set("canopy:forests:broken", "{not json"))
	_, err := s.Get(context.Background(), "broken")
	assert.Error(t, err)
}

func TestServerErrors(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)
	mr.SetError("READONLY unavailable")
	assert.Error(t, s.Put(ctx, "facades", grownForest(t)))
	_, err := s.Get(ctx, "facades")
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, "facades"))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newStore(t)
	assert.Equal(t, context.Canceled, s.Put(ctx, "facades", forest.New()))
	_, err := s.Get(ctx, "facades")
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, context.Canceled, s.Delete(ctx, "facades"))
}
