package queue

import (
	"fmt"
	"strconv"
)

// Task represents a tree to be grown for a forest.
type Task struct {
	// Position of the tree on the forest
	Index int
	// Seed for the source of randomness used to subsample
	// the training data and the attributes of the tree
	Seed int64
}

// ID returns a string that identifies the
// task, the index of its tree.
func (t *Task) ID() string {
	return strconv.Itoa(t.Index)
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %d seed:%d}", t.Index, t.Seed)
}
