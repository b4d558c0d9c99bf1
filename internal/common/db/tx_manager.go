package db

import (
	"context"
	"errors"
)

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Finish commits tx when err is nil and rolls it back otherwise. A failed
// rollback is joined onto err.
func Finish(ctx context.Context, tx Tx, err error) error {
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}
