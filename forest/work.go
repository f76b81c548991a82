package forest

import (
	"context"
	"math/rand"
	"time"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/queue"
	"github.com/pbanos/canopy/tree"
	"github.com/pkg/errors"
)

// work takes a context, a queue, a dataset and the slice
// where grown trees go and enters a loop in which it:
//   - pulls a task from the queue,
//   - grows the task's tree on a subsample of the dataset
//   - stores the tree at the task's index
//   - marks the task as completed on the queue
//
// Tasks are all queued before workers start, so when no
// task can be pulled the worker ends returning nil.
// It returns a non-nil error if the context is cancelled,
// a tree cannot be grown or an operation with the queue
// fails. Failed tasks are dropped back into the queue.
func (f *Forest) work(ctx context.Context, q queue.Queue, ds *dataset.Dataset, trees []*tree.DecisionTree) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		task, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			return nil
		}
		t, err := f.grow(task, ds)
		if err != nil {
			q.Drop(ctx, task.ID())
			return errors.Wrapf(err, "growing tree %d", task.Index)
		}
		trees[task.Index] = t
		if err = q.Complete(ctx, task.ID()); err != nil {
			return err
		}
	}
}

func (f *Forest) grow(task *queue.Task, ds *dataset.Dataset) (*tree.DecisionTree, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(task.Seed))
	subset := ds.Subsample(rng, f.config.Ratio)
	t := &tree.DecisionTree{}
	err := t.Construct(subset, true, f.config.MaxDepth, rng)
	if err != nil {
		return nil, err
	}
	size := t.Size()
	elapsed := time.Since(start)
	f.metrics.ObserveTree(size, elapsed)
	f.log.WithField("nodes", size).WithField("elapsed", elapsed).Debugf("tree %d/%d grown", task.Index+1, f.config.NumTrees)
	return t, nil
}
