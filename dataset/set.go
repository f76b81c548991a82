package dataset

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pbanos/canopy/feature"
)

/*
Dataset represents a read-only collection of samples.

Its Entropy method returns the expected entropy of the labels of its samples
after splitting them by the value of an attribute: a measure of the
disinformation we would still have on their classes.

Its Partition method splits it into subsets by the exact value of an
attribute.

Its Width method returns the number of attributes shared by all its samples
or a *ShapeError if they do not share one.
*/
type Dataset struct {
	samples  []Sample
	width    int
	shapeErr error
}

/*
New takes a slice of samples and returns a dataset built with them.
The slice is not copied nor modified: callers must not change it while the
dataset is in use, and may drop it once they are done with the dataset and
anything built from it.
*/
func New(samples []Sample) *Dataset {
	ds := &Dataset{samples: samples}
	if len(samples) == 0 {
		return ds
	}
	ds.width = len(samples[0].Data)
	for i, s := range samples[1:] {
		if len(s.Data) != ds.width {
			ds.shapeErr = &ShapeError{Index: i + 1, Want: ds.width, Got: len(s.Data)}
			break
		}
	}
	return ds
}

func subset(samples []Sample, width int) *Dataset {
	return &Dataset{samples: samples, width: width}
}

// Count returns the number of samples on the dataset.
func (ds *Dataset) Count() int {
	return len(ds.samples)
}

// Samples returns the samples on the dataset.
func (ds *Dataset) Samples() []Sample {
	return ds.samples
}

/*
Width returns the number of attributes every sample on the dataset has, or a
*ShapeError for the first sample whose data length differs from the first
sample's. An empty dataset has width 0.
*/
func (ds *Dataset) Width() (int, error) {
	if ds.shapeErr != nil {
		return 0, ds.shapeErr
	}
	return ds.width, nil
}

// LabelCounts returns a tally of the labels of the samples on the dataset.
func (ds *Dataset) LabelCounts() feature.Tally {
	result := make(feature.Tally)
	for _, s := range ds.samples {
		result.Add(s.Label)
	}
	return result
}

/*
Entropy takes an attribute index and returns the count-weighted average of
the base-2 Shannon entropy of the labels on each subset obtained by
partitioning the dataset by that attribute's value.

Since the entropy of the whole dataset is the same for every attribute,
the attribute minimizing this value is the one maximizing information gain.
Subsets with a single label contribute exactly 0. An empty dataset has 0
entropy. A *ShapeError is returned if the samples do not share a width or
the attribute is beyond it.
*/
func (ds *Dataset) Entropy(attribute int) (float64, error) {
	if err := ds.checkAttribute(attribute); err != nil {
		return 0.0, err
	}
	if len(ds.samples) == 0 {
		return 0.0, nil
	}
	histogram := make(map[int]feature.Tally)
	for _, s := range ds.samples {
		v := s.Data[attribute]
		t, ok := histogram[v]
		if !ok {
			t = make(feature.Tally)
			histogram[v] = t
		}
		t.Add(s.Label)
	}
	var result float64
	// summation order is fixed so equal splits compare equal
	for _, v := range sortedKeys(histogram) {
		t := histogram[v]
		count := t.Total()
		result += LabelEntropy(t) * float64(count)
	}
	return result / float64(len(ds.samples)), nil
}

/*
LabelEntropy returns the base-2 Shannon entropy of the label distribution
described by the given tally. A tally with less than two labels has exactly
0 entropy.
*/
func LabelEntropy(t feature.Tally) float64 {
	if len(t) <= 1 {
		return 0.0
	}
	count := float64(t.Total())
	var result float64
	for l := feature.Wall; l <= feature.Unknown; l++ {
		c, ok := t[l]
		if !ok || c == 0 {
			continue
		}
		p := float64(c) / count
		result -= p * math.Log2(p)
	}
	return result
}

/*
Partition takes an attribute index and returns a map of each value taken by
that attribute on the dataset to the subset of samples with that value.
Samples keep their relative order within each subset.
*/
func (ds *Dataset) Partition(attribute int) (map[int]*Dataset, error) {
	if err := ds.checkAttribute(attribute); err != nil {
		return nil, err
	}
	buckets := make(map[int][]Sample)
	for _, s := range ds.samples {
		v := s.Data[attribute]
		buckets[v] = append(buckets[v], s)
	}
	result := make(map[int]*Dataset, len(buckets))
	for v, samples := range buckets {
		result[v] = subset(samples, ds.width)
	}
	return result, nil
}

/*
Separable returns whether any attribute takes more than one value on the
dataset, that is, whether some split could tell its samples apart.
*/
func (ds *Dataset) Separable() bool {
	if len(ds.samples) < 2 {
		return false
	}
	first := ds.samples[0].Data
	for _, s := range ds.samples[1:] {
		for a := 0; a < ds.width && a < len(s.Data); a++ {
			if s.Data[a] != first[a] {
				return true
			}
		}
	}
	return false
}

/*
Subsample takes a source of randomness and a ratio and returns a dataset with
floor(count x ratio) samples drawn without replacement: the first ones on a
random permutation of the dataset.
*/
func (ds *Dataset) Subsample(rng *rand.Rand, ratio float64) *Dataset {
	n := int(float64(len(ds.samples)) * ratio)
	if n > len(ds.samples) {
		n = len(ds.samples)
	}
	perm := rng.Perm(len(ds.samples))
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = ds.samples[perm[i]]
	}
	return &Dataset{samples: samples, width: ds.width, shapeErr: ds.shapeErr}
}

func (ds *Dataset) checkAttribute(attribute int) error {
	if ds.shapeErr != nil {
		return ds.shapeErr
	}
	if len(ds.samples) > 0 && (attribute < 0 || attribute >= ds.width) {
		return &ShapeError{Index: -1, Want: attribute + 1, Got: ds.width}
	}
	return nil
}

func sortedKeys(m map[int]feature.Tally) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
