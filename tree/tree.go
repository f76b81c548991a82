package tree

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pkg/errors"
)

// DecisionTree represents a decision tree classifying samples into labels.
// It owns the root of its node graph, which is nil until constructed.
type DecisionTree struct {
	root *Node
}

// New returns a tree with the given root node, which may be nil.
// Decoders use it to rebuild trees.
func New(root *Node) *DecisionTree {
	return &DecisionTree{root}
}

// Root returns the root node of the tree or nil if it is not constructed.
func (t *DecisionTree) Root() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

/*
Construct takes a dataset, whether to sample the attributes evaluated on each
node, a maximum depth and a source of randomness and grows the tree from the
dataset, replacing any previous root unless the dataset is empty.

Nodes whose samples all share a label become leaves with that label. Nodes
at maxDepth (unless it is negative, meaning no limit) become leaves with the
plurality label of their samples. Otherwise the node is split by the
candidate attribute leaving the least label entropy and a child is grown for
every value the attribute takes, one level deeper. When sampleAttributes is
true the candidates are a fresh random draw of floor(sqrt(width))
attributes on every node; otherwise all attributes are candidates.
Once grown, internal nodes get the plurality of their children's labels as
fallback label.

An empty dataset returns nil and leaves the tree as it was: without root
unless it had been grown before. A dataset
whose samples do not share a width returns a *dataset.ShapeError. rng may be
nil, in which case a time-seeded source is used when attributes are
sampled.
*/
func (t *DecisionTree) Construct(ds *dataset.Dataset, sampleAttributes bool, maxDepth int, rng *rand.Rand) error {
	if ds.Count() == 0 {
		return nil
	}
	width, err := ds.Width()
	if err != nil {
		return errors.Wrap(err, "constructing tree")
	}
	if sampleAttributes && rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &grower{width: width, sampleAttributes: sampleAttributes, maxDepth: maxDepth, rng: rng}
	root, err := g.grow(ds, 0)
	if err != nil {
		return errors.Wrap(err, "constructing tree")
	}
	root.SetLabelFromChildren()
	t.root = root
	return nil
}

type grower struct {
	width            int
	sampleAttributes bool
	maxDepth         int
	rng              *rand.Rand
}

func (g *grower) grow(ds *dataset.Dataset, depth int) (*Node, error) {
	counts := ds.LabelCounts()
	if len(counts) == 1 {
		label, _ := counts.Plurality()
		return g.leaf(ds, depth, label), nil
	}
	plurality, _ := counts.Plurality()
	if g.maxDepth >= 0 && depth >= g.maxDepth {
		return g.leaf(ds, depth, plurality), nil
	}
	candidates := candidateAttributes(g.width, g.sampleAttributes, g.rng)
	best, _, err := BestAttribute(ds, candidates)
	if err != nil {
		return nil, err
	}
	if best == NoAttribute {
		return g.leaf(ds, depth, plurality), nil
	}
	parts, err := ds.Partition(best)
	if err != nil {
		return nil, err
	}
	// no attribute tells these samples apart, deeper nodes would not either
	if len(parts) == 1 && (!g.sampleAttributes || !ds.Separable()) {
		return g.leaf(ds, depth, plurality), nil
	}
	n := &Node{
		Depth:          depth,
		SplitAttribute: best,
		Label:          plurality,
		Samples:        ds.Count(),
		Children:       make(map[int]*Node, len(parts)),
	}
	for _, v := range sortedValues(parts) {
		child, err := g.grow(parts[v], depth+1)
		if err != nil {
			return nil, err
		}
		n.Children[v] = child
	}
	return n, nil
}

func (g *grower) leaf(ds *dataset.Dataset, depth int, label feature.Label) *Node {
	n := NewLeaf(depth, label)
	n.Samples = ds.Count()
	return n
}

// Size returns the number of nodes on the tree.
func (t *DecisionTree) Size() int {
	var count int
	t.Traverse(false, func(*Node) error {
		count++
		return nil
	})
	return count
}

// Leaves returns the number of leaves on the tree.
func (t *DecisionTree) Leaves() int {
	var count int
	t.Traverse(false, func(n *Node) error {
		if n.IsLeaf() {
			count++
		}
		return nil
	})
	return count
}

// Depth returns the depth of the deepest node on the tree, or -1 for a tree
// without root.
func (t *DecisionTree) Depth() int {
	depth := -1
	t.Traverse(false, func(n *Node) error {
		if n.Depth > depth {
			depth = n.Depth
		}
		return nil
	})
	return depth
}

// Traverse takes a bottomUp boolean and an error-returning function that
// takes a node as parameter, and goes through the tree running the
// function with every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomUp is false, and
// call it after its children if bottomUp is true. Children are visited in
// ascending order of the value leading to them.
// If the call to the function returns an error, the traversing is
// aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *DecisionTree) Traverse(bottomUp bool, f func(*Node) error) error {
	if t.Root() == nil {
		return nil
	}
	return traverse(t.root, bottomUp, f)
}

func traverse(n *Node, bottomUp bool, f func(*Node) error) error {
	var err error
	if !bottomUp {
		err = f(n)
	}
	if err != nil {
		return err
	}
	for _, v := range n.Values() {
		err = traverse(n.Children[v], bottomUp, f)
		if err != nil {
			return err
		}
	}
	if bottomUp {
		err = f(n)
	}
	return err
}

func (t *DecisionTree) String() string {
	if t.Root() == nil {
		return "[empty tree]\n"
	}
	return subtreeString(t.root)
}

func subtreeString(n *Node) string {
	var result string
	if n.IsLeaf() {
		result = fmt.Sprintf("{ %s } [ %d ]\n", n.Label, n.Samples)
	} else {
		result = fmt.Sprintf("{ a%d ? %s } [ %d ]\n", n.SplitAttribute, n.Label, n.Samples)
	}
	values := n.Values()
	if len(values) > 0 {
		result = fmt.Sprintf("%s|\n", result)
	} else {
		result = fmt.Sprintf("%s \n", result)
	}
	for i, v := range values {
		for j, line := range strings.Split(subtreeString(n.Children[v]), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__(%d) %s\n", result, v, line)
				} else {
					if i == len(values)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}

func sortedValues(parts map[int]*dataset.Dataset) []int {
	values := make([]int, 0, len(parts))
	for v := range parts {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}
