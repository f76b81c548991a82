/*
Package forest implements random forests of decision trees: ensembles of
trees grown on random subsamples of the training data, sampling the
attributes evaluated on every node, and classifying samples by majority
vote.
*/
package forest

import (
	"context"
	"math/rand"
	"time"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/metrics"
	"github.com/pbanos/canopy/queue"
	"github.com/pbanos/canopy/tree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultNumTrees is the number of trees grown unless configured otherwise
	DefaultNumTrees = 10
	// DefaultRatio is the share of the training samples each tree is grown on
	DefaultRatio = 0.5
	// DefaultMaxDepth is the depth at which nodes stop splitting
	DefaultMaxDepth = 18
)

// UsageError represents an error caused by using a forest in a state that
// does not allow the operation.
type UsageError string

// ErrEmptyForest is the error returned when classifying with a forest
// that has no trees.
const ErrEmptyForest = UsageError("random forest is not constructed")

func (ue UsageError) Error() string {
	return string(ue)
}

/*
Config holds the parameters a forest is grown with. Seed is the seed of the
source of randomness every tree's own seed is drawn from: forests grown with
the same seed, parameters and training data are identical.
*/
type Config struct {
	NumTrees int     `json:"numTrees" yaml:"numTrees"`
	Ratio    float64 `json:"ratio" yaml:"ratio"`
	MaxDepth int     `json:"maxDepth" yaml:"maxDepth"`
	Seed     int64   `json:"seed" yaml:"seed"`
}

/*
Forest represents a random forest: an ordered collection of decision trees.
It is built once with Construct and read-only afterwards.
*/
type Forest struct {
	config  Config
	seeded  bool
	workers int
	trees   []*tree.DecisionTree
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures a Forest
type Option func(*Forest)

// NumTrees sets the number of trees grown
func NumTrees(n int) Option {
	return func(f *Forest) { f.config.NumTrees = n }
}

// Ratio sets the share of the training samples each tree is grown on,
// a value in (0, 1]
func Ratio(r float64) Option {
	return func(f *Forest) { f.config.Ratio = r }
}

// MaxDepth sets the depth at which nodes stop splitting; a negative value
// means no limit
func MaxDepth(d int) Option {
	return func(f *Forest) { f.config.MaxDepth = d }
}

// Seed makes construction reproducible by seeding its source of randomness.
// Without it, the seed is taken from the clock.
func Seed(seed int64) Option {
	return func(f *Forest) {
		f.config.Seed = seed
		f.seeded = true
	}
}

// Workers sets the number of trees grown concurrently. The grown forest does
// not depend on it.
func Workers(n int) Option {
	return func(f *Forest) { f.workers = n }
}

// Logger sets the logger construction progress is reported to.
func Logger(l logrus.FieldLogger) Option {
	return func(f *Forest) { f.log = l }
}

// Metrics sets the collectors updated on construction and classification.
func Metrics(m *metrics.Metrics) Option {
	return func(f *Forest) { f.metrics = m }
}

// New returns a forest without trees configured with the given options.
func New(opts ...Option) *Forest {
	f := &Forest{
		config: Config{
			NumTrees: DefaultNumTrees,
			Ratio:    DefaultRatio,
			MaxDepth: DefaultMaxDepth,
		},
		workers: 1,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

/*
FromTrees takes a configuration and a slice of trees and returns a forest
made of them, as decoders need. Options other than the configuration ones
apply.
*/
func FromTrees(config Config, trees []*tree.DecisionTree, opts ...Option) *Forest {
	f := New(opts...)
	f.config = config
	f.seeded = true
	f.trees = trees
	return f
}

// Config returns the configuration of the forest. After construction it
// includes the seed actually used.
func (f *Forest) Config() Config {
	return f.config
}

// Trees returns the trees of the forest in order.
func (f *Forest) Trees() []*tree.DecisionTree {
	return f.trees
}

/*
Construct takes a context and a dataset and grows the forest's trees,
replacing any previous ones.

A seed is drawn for every tree in order from a source seeded with the
forest's seed. Every tree then uses its own source, seeded with its seed, to
draw its subsample (the first floor(count x ratio) samples of a random
permutation of the dataset, that is, without replacement) and to sample
attributes on every node, growing up to the forest's maximum depth. Trees are
grown by the configured number of workers and kept in the order their seeds
were drawn, so the result does not depend on the number of workers.

An error is returned if the configuration is invalid, the dataset samples do
not share a width, the ratio leaves trees without samples, or the context
is cancelled or times out.
*/
func (f *Forest) Construct(ctx context.Context, ds *dataset.Dataset) error {
	if err := f.validate(ds); err != nil {
		return err
	}
	if !f.seeded {
		f.config.Seed = time.Now().UnixNano()
		f.seeded = true
	}
	q := queue.New()
	master := rand.New(rand.NewSource(f.config.Seed))
	for i := 0; i < f.config.NumTrees; i++ {
		err := q.Push(ctx, &queue.Task{Index: i, Seed: master.Int63()})
		if err != nil {
			return errors.Wrap(err, "queueing trees")
		}
	}
	workers := f.workers
	if workers < 1 {
		workers = 1
	}
	if workers > f.config.NumTrees {
		workers = f.config.NumTrees
	}
	f.log.WithFields(logrus.Fields{
		"samples": ds.Count(),
		"trees":   f.config.NumTrees,
		"ratio":   f.config.Ratio,
		"depth":   f.config.MaxDepth,
		"seed":    f.config.Seed,
		"workers": workers,
	}).Debug("growing random forest")
	trees := make([]*tree.DecisionTree, f.config.NumTrees)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return f.work(gctx, q, ds, trees)
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "growing random forest")
	}
	pending, running, err := q.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "growing random forest")
	}
	if pending+running > 0 {
		return errors.Errorf("growing random forest: %d trees left ungrown", pending+running)
	}
	f.trees = trees
	return nil
}

func (f *Forest) validate(ds *dataset.Dataset) error {
	if f.config.NumTrees < 1 {
		return errors.Errorf("invalid number of trees %d", f.config.NumTrees)
	}
	if f.config.Ratio <= 0 || f.config.Ratio > 1 {
		return errors.Errorf("invalid ratio %v, must be in (0, 1]", f.config.Ratio)
	}
	if _, err := ds.Width(); err != nil {
		return errors.Wrap(err, "growing random forest")
	}
	if int(float64(ds.Count())*f.config.Ratio) == 0 {
		return errors.Errorf("ratio %v of %d samples leaves trees without samples", f.config.Ratio, ds.Count())
	}
	return nil
}

/*
Test takes a sample and returns the label most trees of the forest predict
for it. Ties go to the smallest label code. ErrEmptyForest is returned if the
forest has no trees, and the error of the first tree that fails to classify
the sample otherwise.
*/
func (f *Forest) Test(s dataset.Sample) (feature.Label, error) {
	votes, err := f.Votes(s)
	if err != nil {
		return feature.Unknown, err
	}
	label, _ := votes.Plurality()
	f.metrics.ObserveClassification(label)
	return label, nil
}

/*
Votes takes a sample and returns a tally of the labels predicted for it by
the trees of the forest. It fails like Test.
*/
func (f *Forest) Votes(s dataset.Sample) (feature.Tally, error) {
	if len(f.trees) == 0 {
		return nil, ErrEmptyForest
	}
	votes := make(feature.Tally)
	for i, t := range f.trees {
		l, err := t.Test(s)
		if err != nil {
			return nil, errors.Wrapf(err, "testing tree %d", i)
		}
		votes.Add(l)
	}
	return votes, nil
}
