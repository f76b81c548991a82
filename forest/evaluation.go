package forest

import (
	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pkg/errors"
)

// Classifier is implemented by forests and by single decision trees.
type Classifier interface {
	Test(dataset.Sample) (feature.Label, error)
}

/*
Confusion is a confusion matrix: the count of samples with each label (row)
classified with each label (column), Unknown included.
*/
type Confusion [feature.Unknown + 1][feature.Unknown + 1]int

/*
Evaluate takes a classifier and a dataset and returns the confusion matrix
obtained classifying its samples, or the first classification error.
*/
func Evaluate(c Classifier, ds *dataset.Dataset) (*Confusion, error) {
	result := &Confusion{}
	for i, s := range ds.Samples() {
		if !s.Label.Valid() {
			return nil, errors.Errorf("sample %d has invalid label %v", i, s.Label)
		}
		l, err := c.Test(s)
		if err != nil {
			return nil, errors.Wrapf(err, "classifying sample %d", i)
		}
		result[s.Label][l]++
	}
	return result, nil
}

// Confusion returns the confusion matrix of the forest on the given dataset.
func (f *Forest) Confusion(ds *dataset.Dataset) (*Confusion, error) {
	return Evaluate(f, ds)
}

// Accuracy returns the ratio of samples on the dataset the forest classifies
// with their own label.
func (f *Forest) Accuracy(ds *dataset.Dataset) (float64, error) {
	c, err := Evaluate(f, ds)
	if err != nil {
		return 0.0, err
	}
	return c.Accuracy(), nil
}

// Total returns the number of classified samples.
func (c *Confusion) Total() int {
	var total int
	for _, row := range c {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Accuracy returns the ratio of samples classified with their own label,
// or 0 if there are none.
func (c *Confusion) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0.0
	}
	var hits int
	for l := range c {
		hits += c[l][l]
	}
	return float64(hits) / float64(total)
}

// RowRatio returns the share of samples labelled actual that were
// classified as predicted, or 0 if no sample is labelled actual.
func (c *Confusion) RowRatio(actual, predicted feature.Label) float64 {
	var total int
	for _, n := range c[actual] {
		total += n
	}
	if total == 0 {
		return 0.0
	}
	return float64(c[actual][predicted]) / float64(total)
}

/*
Remap returns a copy of the matrix where samples classified as from are
counted as classified as to, as done when an unknown prediction is taken as
a default class.
*/
func (c *Confusion) Remap(from, to feature.Label) *Confusion {
	result := *c
	if from == to {
		return &result
	}
	for l := range result {
		result[l][to] += result[l][from]
		result[l][from] = 0
	}
	return &result
}
