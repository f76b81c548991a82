/*
Package json serializes decision trees as JSON documents keeping everything
needed to classify samples with them once read back: split attributes,
labels of every node (fallback labels included) and the number of training
samples that reached each node.
*/
package json

import (
	"encoding/json"
	"io"

	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/tree"
	"github.com/pkg/errors"
)

type node struct {
	Attribute *int          `json:"attribute,omitempty"`
	Label     feature.Label `json:"label"`
	Samples   int           `json:"samples,omitempty"`
	Children  map[int]*node `json:"children,omitempty"`
}

type jsonTree struct {
	Root *node `json:"root"`
}

/*
MarshalTree returns a slice of bytes with the given tree serialized to JSON
and an error.
A tree is serialized as a JSON object with a "root" property holding its root
node, or null for a tree without root. Nodes are serialized recursively as
objects with the following properties:
  - "attribute": the split attribute, omitted for leaves
  - "label": the name of the node's label
  - "samples": the number of training samples that reached the node
  - "children": an object with a property per attribute value holding the
    child node for that value, omitted for leaves
*/
func MarshalTree(t *tree.DecisionTree) ([]byte, error) {
	jt := &jsonTree{}
	if root := t.Root(); root != nil {
		jt.Root = encodeNode(root)
	}
	return json.Marshal(jt)
}

/*
UnmarshalTree takes a slice of bytes containing a tree serialized with
MarshalTree and returns the tree or an error.
*/
func UnmarshalTree(b []byte) (*tree.DecisionTree, error) {
	jt := &jsonTree{}
	err := json.Unmarshal(b, jt)
	if err != nil {
		return nil, err
	}
	if jt.Root == nil {
		return tree.New(nil), nil
	}
	root, err := decodeNode(jt.Root, 0)
	if err != nil {
		return nil, err
	}
	return tree.New(root), nil
}

/*
WriteJSONTree takes an io.Writer and a tree and writes the tree onto the
writer serialized with MarshalTree, followed by a newline.
*/
func WriteJSONTree(w io.Writer, t *tree.DecisionTree) error {
	b, err := MarshalTree(t)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func encodeNode(n *tree.Node) *node {
	jn := &node{Label: n.Label, Samples: n.Samples}
	if n.IsLeaf() {
		return jn
	}
	attribute := n.SplitAttribute
	jn.Attribute = &attribute
	jn.Children = make(map[int]*node, len(n.Children))
	for v, c := range n.Children {
		jn.Children[v] = encodeNode(c)
	}
	return jn
}

func decodeNode(jn *node, depth int) (*tree.Node, error) {
	if !jn.Label.Valid() {
		return nil, errors.Errorf("unmarshalling node at depth %d: invalid label %d", depth, jn.Label)
	}
	if len(jn.Children) == 0 {
		n := tree.NewLeaf(depth, jn.Label)
		n.Samples = jn.Samples
		return n, nil
	}
	if jn.Attribute == nil || *jn.Attribute < 0 {
		return nil, errors.Errorf("unmarshalling node at depth %d: internal node without valid attribute", depth)
	}
	n := &tree.Node{
		Depth:          depth,
		SplitAttribute: *jn.Attribute,
		Label:          jn.Label,
		Samples:        jn.Samples,
		Children:       make(map[int]*tree.Node, len(jn.Children)),
	}
	for v, jc := range jn.Children {
		if jc == nil {
			return nil, errors.Errorf("unmarshalling node at depth %d: null child for value %d", depth, v)
		}
		c, err := decodeNode(jc, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children[v] = c
	}
	return n, nil
}
