package dataset

import "fmt"

/*
ShapeError is the error returned when a sample's data vector does not have
the length an operation requires: samples of a set with differing lengths,
or a sample too short for the attribute a tree asks about.

Index is the position of the offending sample on its set, or -1 when the
sample is not part of one.
*/
type ShapeError struct {
	Index int
	Want  int
	Got   int
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("sample has %d attributes, at least %d required", e.Got, e.Want)
	}
	return fmt.Sprintf("sample %d has %d attributes, expected %d", e.Index, e.Got, e.Want)
}
