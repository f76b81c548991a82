package dataset

import (
	"fmt"

	"github.com/pbanos/canopy/feature"
)

/*
Sample represents an item to classify or from which to learn how to classify
them: a vector of discrete attribute codes and the label of its class.
*/
type Sample struct {
	Data  []int
	Label feature.Label
}

/*
NewSample takes a label and the attribute codes of a sample and returns it.
The data slice is copied so later changes by the caller do not reach the
sample.
*/
func NewSample(label feature.Label, data ...int) Sample {
	return Sample{Data: append([]int(nil), data...), Label: label}
}

/*
ValueFor returns the code of the sample for the given attribute or a
*ShapeError if the sample data has no such position.
*/
func (s Sample) ValueFor(attribute int) (int, error) {
	if attribute < 0 || attribute >= len(s.Data) {
		return 0, &ShapeError{Index: -1, Want: attribute + 1, Got: len(s.Data)}
	}
	return s.Data[attribute], nil
}

func (s Sample) String() string {
	return fmt.Sprintf("%v:%s", s.Data, s.Label)
}
