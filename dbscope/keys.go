package dbscope

import "context"

// One key type per descriptor kind. The types are unexported so no other
// package can read or overwrite the slots.
type (
	poolKey struct{}
	txKey   struct{}
)

func poolFrom(ctx context.Context) (*poolDescriptor, error) {
	d, ok := ctx.Value(poolKey{}).(*poolDescriptor)
	if !ok || d == nil {
		return nil, ErrPoolNotSet
	}
	return d, nil
}

func txFrom(ctx context.Context) (*txDescriptor, error) {
	d, ok := ctx.Value(txKey{}).(*txDescriptor)
	if !ok || d == nil {
		return nil, ErrTxNotSet
	}
	return d, nil
}
