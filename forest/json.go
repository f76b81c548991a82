package forest

import (
	"encoding/json"
	"io"

	treejson "github.com/pbanos/canopy/tree/json"
	"github.com/pbanos/canopy/tree/xml"
	"github.com/pkg/errors"
)

type jsonForest struct {
	Config Config            `json:"config"`
	Trees  []json.RawMessage `json:"trees"`
}

/*
MarshalJSON returns a slice of bytes with the forest serialized to JSON and an
error. A forest is serialized as an object with the following properties:
  - "config": the number of trees, ratio, maximum depth and seed it was
    grown with
  - "trees": an array with its trees, in order, as serialized by the
    tree/json package
*/
func (f *Forest) MarshalJSON() ([]byte, error) {
	jf := &jsonForest{Config: f.config, Trees: make([]json.RawMessage, 0, len(f.trees))}
	for i, t := range f.trees {
		b, err := treejson.MarshalTree(t)
		if err != nil {
			return nil, errors.Wrapf(err, "marshalling tree %d", i)
		}
		jf.Trees = append(jf.Trees, b)
	}
	return json.Marshal(jf)
}

/*
UnmarshalJSON takes a slice of bytes containing a forest serialized with
MarshalJSON and loads its configuration and trees, keeping the forest's
logger, metrics and workers.
*/
func (f *Forest) UnmarshalJSON(b []byte) error {
	jf := &jsonForest{}
	if err := json.Unmarshal(b, jf); err != nil {
		return err
	}
	f.config = jf.Config
	f.seeded = true
	f.trees = f.trees[:0]
	for i, jt := range jf.Trees {
		t, err := treejson.UnmarshalTree(jt)
		if err != nil {
			return errors.Wrapf(err, "unmarshalling tree %d", i)
		}
		f.trees = append(f.trees, t)
	}
	if f.log == nil {
		f.log = New().log
	}
	return nil
}

// ReadJSON takes an io.Reader and returns the forest serialized on it with
// MarshalJSON, configured with the given options.
func ReadJSON(r io.Reader, opts ...Option) (*Forest, error) {
	f := New(opts...)
	if err := json.NewDecoder(r).Decode(f); err != nil {
		return nil, errors.Wrap(err, "decoding forest")
	}
	return f, nil
}

// WriteJSON takes an io.Writer and writes the forest onto it serialized with
// MarshalJSON.
func (f *Forest) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(f)
}

/*
Save takes a file path and writes the forest's trees onto it as a
random_forest XML document (see the tree/xml package). Only the trees are
written: neither the split attributes of their nodes nor the forest's
configuration are part of that format. An error is returned if the file
cannot be opened for writing.
*/
func (f *Forest) Save(filepath string) error {
	return xml.Encoder{}.WriteForestFile(filepath, f.trees)
}
