package tree

import (
	"sort"

	"github.com/pbanos/canopy/feature"
)

// NoAttribute is the split attribute of leaves.
const NoAttribute = -1

/*
Node is a node of the tree
*/
type Node struct {
	// Distance to the root of the tree, which has depth 0
	Depth int
	// Index on the samples' data of the attribute whose value selects the
	// child to continue with. NoAttribute for leaves.
	SplitAttribute int
	// For leaves, the label predicted for samples reaching the node. For
	// internal nodes, the fallback label for samples whose value for the
	// split attribute matches no child: the plurality of the labels
	// resolved for its children.
	Label feature.Label
	// Number of training samples that reached the node
	Samples int
	// Children of the node by the value of the split attribute that leads
	// to them. Each child is owned by this node alone.
	Children map[int]*Node
}

// NewLeaf returns a leaf at the given depth predicting the given label.
func NewLeaf(depth int, label feature.Label) *Node {
	return &Node{Depth: depth, SplitAttribute: NoAttribute, Label: label}
}

// IsLeaf returns whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Values returns the attribute values leading to children in ascending order.
func (n *Node) Values() []int {
	values := make([]int, 0, len(n.Children))
	for v := range n.Children {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}

/*
SetLabelFromChildren goes through the subtree under the node bottom-up
setting the label of every internal node to the plurality of the labels
resolved for its children, and returns the label resolved for the node.
Ties go to the smallest label code. Leaves keep their label.
*/
func (n *Node) SetLabelFromChildren() feature.Label {
	if n.IsLeaf() {
		return n.Label
	}
	votes := make(feature.Tally)
	for _, v := range n.Values() {
		votes.Add(n.Children[v].SetLabelFromChildren())
	}
	n.Label, _ = votes.Plurality()
	return n.Label
}
