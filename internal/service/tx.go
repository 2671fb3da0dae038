package service

import "context"

// TxManager runs fn in a transaction carried by the returned context.
// It is satisfied by go-transaction-manager's *manager.Manager.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxManager runs fn directly, for storages without transactions.
type NopTxManager struct{}

func (NopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
