package forest

import "context"

/*
Store is an interface to manage a store where grown forests
can be saved, retrieved and deleted by name.

All its methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Put takes a name and a forest and stores the forest
	// under that name, replacing any forest stored with it.
	// It returns an error if the forest cannot be stored.
	Put(ctx context.Context, name string, f *Forest) error
	// Get takes a name and returns the forest stored with
	// that name (or nil if there is none) or an error if the
	// store cannot be queried. Options are applied to the
	// returned forest.
	Get(ctx context.Context, name string, opts ...Option) (*Forest, error)
	// Delete takes a name and deletes the forest stored
	// with it. It returns an error if the forest exists
	// but the deletion cannot be performed.
	Delete(ctx context.Context, name string) error
	// Close closes the store, implementations should
	// free any resources in use before returning
	// (unless the context expires).
	Close(ctx context.Context) error
}
