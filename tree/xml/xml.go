/*
Package xml reads and writes decision trees and forests as XML documents.

A single tree is a tree element holding the root node element. A forest is a
random_forest element holding a tree element per tree, in order. Leaf nodes
carry a label attribute with the code of their label; internal nodes carry a
child node element per value of their split attribute, each child carrying
that value on a value attribute. No other metadata is written.

That format does not record split attributes, so trees read from it keep
their structure and leaf labels but cannot classify samples. Writing with
SplitAttributes set adds an attribute attribute to internal nodes with the
index of their split attribute, and trees read from such documents are
fully usable.
*/
package xml

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/tree"
	"github.com/pkg/errors"
)

const indent = "    "

/*
Encoder writes trees and forests as XML. The zero value writes the plain
format; set SplitAttributes to also record split attributes.
*/
type Encoder struct {
	SplitAttributes bool
}

type xmlNode struct {
	XMLName   xml.Name  `xml:"node"`
	Label     *int      `xml:"label,attr,omitempty"`
	Value     *int      `xml:"value,attr,omitempty"`
	Attribute *int      `xml:"attribute,attr,omitempty"`
	Children  []xmlNode `xml:"node"`
}

type xmlTree struct {
	XMLName xml.Name `xml:"tree"`
	Root    *xmlNode `xml:"node"`
}

type xmlForest struct {
	XMLName xml.Name  `xml:"random_forest"`
	Trees   []xmlTree `xml:"tree"`
}

/*
WriteTree takes an io.Writer and a tree and writes the tree onto the writer
as a tree element. A tree without root is written as an empty tree element.
*/
func (e Encoder) WriteTree(w io.Writer, t *tree.DecisionTree) error {
	return e.write(w, e.tree(t))
}

/*
WriteForest takes an io.Writer and a slice of trees and writes them onto the
writer as a random_forest element with a tree element per tree, in order.
*/
func (e Encoder) WriteForest(w io.Writer, trees []*tree.DecisionTree) error {
	xf := &xmlForest{Trees: make([]xmlTree, 0, len(trees))}
	for _, t := range trees {
		xf.Trees = append(xf.Trees, *e.tree(t))
	}
	return e.write(w, xf)
}

/*
WriteTreeFile takes a file path and a tree and writes the tree onto the file
with WriteTree, creating or truncating it. An error is returned if the file
cannot be created or written.
*/
func (e Encoder) WriteTreeFile(filepath string, t *tree.DecisionTree) error {
	return writeFile(filepath, func(w io.Writer) error {
		return e.WriteTree(w, t)
	})
}

/*
WriteForestFile takes a file path and a slice of trees and writes them onto
the file with WriteForest, creating or truncating it. An error is returned if
the file cannot be created or written.
*/
func (e Encoder) WriteForestFile(filepath string, trees []*tree.DecisionTree) error {
	return writeFile(filepath, func(w io.Writer) error {
		return e.WriteForest(w, trees)
	})
}

func (e Encoder) write(w io.Writer, v interface{}) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding xml")
	}
	if err := enc.Flush(); err != nil {
		return errors.Wrap(err, "encoding xml")
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (e Encoder) tree(t *tree.DecisionTree) *xmlTree {
	xt := &xmlTree{}
	if root := t.Root(); root != nil {
		xt.Root = e.node(root)
	}
	return xt
}

func (e Encoder) node(n *tree.Node) *xmlNode {
	xn := &xmlNode{}
	if n.IsLeaf() {
		label := int(n.Label)
		xn.Label = &label
		return xn
	}
	if e.SplitAttributes && n.SplitAttribute != tree.NoAttribute {
		attribute := n.SplitAttribute
		xn.Attribute = &attribute
	}
	for _, v := range n.Values() {
		child := e.node(n.Children[v])
		value := v
		child.Value = &value
		xn.Children = append(xn.Children, *child)
	}
	return xn
}

func writeFile(filepath string, write func(io.Writer) error) (err error) {
	f, err := os.Create(filepath)
	if err != nil {
		return errors.Wrapf(err, "opening %s for writing", filepath)
	}
	defer func() {
		cerr := f.Close()
		if err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", filepath)
		}
	}()
	if err = write(f); err != nil {
		return errors.Wrapf(err, "writing %s", filepath)
	}
	return nil
}

/*
ReadTree takes an io.Reader with a tree element and returns the tree it
describes or an error if it cannot be parsed. Fallback labels of internal
nodes are recomputed from their children. Internal nodes without attribute
attribute get tree.NoAttribute as split attribute.
*/
func ReadTree(r io.Reader) (*tree.DecisionTree, error) {
	xt := &xmlTree{}
	if err := xml.NewDecoder(r).Decode(xt); err != nil {
		return nil, errors.Wrap(err, "decoding xml tree")
	}
	return decodeTree(xt)
}

/*
ReadForest takes an io.Reader with a random_forest element and returns the
trees it holds, in order, or an error if it cannot be parsed.
*/
func ReadForest(r io.Reader) ([]*tree.DecisionTree, error) {
	xf := &xmlForest{}
	if err := xml.NewDecoder(r).Decode(xf); err != nil {
		return nil, errors.Wrap(err, "decoding xml forest")
	}
	trees := make([]*tree.DecisionTree, 0, len(xf.Trees))
	for i := range xf.Trees {
		t, err := decodeTree(&xf.Trees[i])
		if err != nil {
			return nil, errors.Wrapf(err, "decoding tree %d", i)
		}
		trees = append(trees, t)
	}
	return trees, nil
}

func decodeTree(xt *xmlTree) (*tree.DecisionTree, error) {
	if xt.Root == nil {
		return tree.New(nil), nil
	}
	root, err := decodeNode(xt.Root, 0)
	if err != nil {
		return nil, err
	}
	root.SetLabelFromChildren()
	return tree.New(root), nil
}

func decodeNode(xn *xmlNode, depth int) (*tree.Node, error) {
	if len(xn.Children) == 0 {
		if xn.Label == nil {
			return nil, errors.Errorf("leaf node at depth %d has no label", depth)
		}
		if *xn.Label < 0 || *xn.Label > int(feature.Unknown) {
			return nil, errors.Errorf("leaf node at depth %d has invalid label %d", depth, *xn.Label)
		}
		return tree.NewLeaf(depth, feature.Label(*xn.Label)), nil
	}
	n := &tree.Node{
		Depth:          depth,
		SplitAttribute: tree.NoAttribute,
		Label:          feature.Unknown,
		Children:       make(map[int]*tree.Node, len(xn.Children)),
	}
	if xn.Attribute != nil {
		if *xn.Attribute < 0 {
			return nil, errors.Errorf("node at depth %d has invalid attribute %d", depth, *xn.Attribute)
		}
		n.SplitAttribute = *xn.Attribute
	}
	for i := range xn.Children {
		xc := &xn.Children[i]
		if xc.Value == nil {
			return nil, errors.Errorf("child %d of node at depth %d has no value", i, depth)
		}
		if _, ok := n.Children[*xc.Value]; ok {
			return nil, errors.Errorf("node at depth %d has two children for value %s", depth, strconv.Itoa(*xc.Value))
		}
		child, err := decodeNode(xc, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children[*xc.Value] = child
	}
	return n, nil
}
