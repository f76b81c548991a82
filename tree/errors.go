package tree

// UsageError represents an error caused by using a tree in a state that
// does not allow the operation.
type UsageError string

/*
ErrNotConstructed is the error returned by Test when the tree has no root:
it was never constructed or it was constructed with no samples.
*/
const ErrNotConstructed = UsageError("tree is not constructed")

/*
ErrUnknownSplit is the error returned by Test when it reaches an internal
node without split attribute, as happens with trees loaded from documents
that do not record them.
*/
const ErrUnknownSplit = UsageError("tree node has children but no split attribute")

func (ue UsageError) Error() string {
	return string(ue)
}
