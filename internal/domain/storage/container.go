package storage

import (
	"context"
	"errors"
	"fmt"

	"souq/internal/domain/companies"
	"souq/internal/domain/filequeue"
	"souq/internal/domain/products"
	"souq/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Container struct {
	pool          dbx.Pool // IMPORTANT: set the pool so WithCatalogTx works
	Companies     companies.Store
	Products      products.Store
	FileDeletions filequeue.Store
}

func NewContainer(db dbx.Pool) *Container {
	return &Container{
		pool:          db,
		Companies:     companies.NewRepository(db),
		Products:      products.NewRepository(db),
		FileDeletions: filequeue.NewRepository(db),
	}
}

// CatalogTx is a temporary, tx-scoped set of repos for atomic units of work.
type CatalogTx struct {
	Companies     companies.Store
	Products      products.Store
	FileDeletions filequeue.Store
}

// WithCatalogTx runs a catalog unit-of-work atomically.
func (c *Container) WithCatalogTx(ctx context.Context, fn func(s *CatalogTx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil (did you forget to set pool in NewContainer?)")
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			fmt.Printf("warning: rollback failed: %v\n", err)
		}
	}()

	s := &CatalogTx{
		Companies:     companies.NewRepository(tx),
		Products:      products.NewRepository(tx),
		FileDeletions: filequeue.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
