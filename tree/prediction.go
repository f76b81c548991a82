package tree

import (
	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

/*
Test takes a sample and returns the label the tree predicts for it.

The sample is routed from the root, at each internal node following the
child for the sample's value of the node's split attribute. When no child
matches that value, the traversal stops and the node's fallback label is
returned. The label of the reached leaf is returned otherwise.

ErrNotConstructed is returned for a tree without root, ErrUnknownSplit if an
internal node without split attribute is reached, and a *dataset.ShapeError
if the sample has no value for a split attribute on its path.
*/
func (t *DecisionTree) Test(s dataset.Sample) (feature.Label, error) {
	n, err := t.Route(s)
	if err != nil {
		return feature.Unknown, err
	}
	return n.Label, nil
}

/*
Route takes a sample and returns the node on which its traversal of the tree
stops: either a leaf or an internal node with no child for the sample's
value. It fails like Test.
*/
func (t *DecisionTree) Route(s dataset.Sample) (*Node, error) {
	if t.Root() == nil {
		return nil, ErrNotConstructed
	}
	n := t.root
	for !n.IsLeaf() {
		if n.SplitAttribute == NoAttribute {
			return nil, ErrUnknownSplit
		}
		v, err := s.ValueFor(n.SplitAttribute)
		if err != nil {
			return nil, err
		}
		child, ok := n.Children[v]
		if !ok {
			break
		}
		n = child
	}
	return n, nil
}

/*
Accuracy takes a dataset and returns the ratio of its samples for which the
tree predicts their label, or an error if any prediction fails.
An empty dataset has 0 accuracy.
*/
func (t *DecisionTree) Accuracy(ds *dataset.Dataset) (float64, error) {
	if ds.Count() == 0 {
		return 0.0, nil
	}
	var hits int
	for _, s := range ds.Samples() {
		l, err := t.Test(s)
		if err != nil {
			return 0.0, err
		}
		if l == s.Label {
			hits++
		}
	}
	return float64(hits) / float64(ds.Count()), nil
}
