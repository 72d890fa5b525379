package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/elite/internal/client/config"
	"github.com/dmitrijs2005/elite/internal/client/store"
	"github.com/dmitrijs2005/elite/internal/filex"
)

// openStore builds the durable session store: SQLite at StorePath, or
// process memory when the path is empty. A StoreSecret seals the values.
func openStore(ctx context.Context, c *config.Config) (store.Repository, func() error, error) {
	var (
		repo    store.Repository
		closeFn = func() error { return nil }
	)

	if c.StorePath == "" {
		repo = store.NewMemory()
	} else {
		if _, err := filex.EnsureParentDir(c.StorePath); err != nil {
			return nil, nil, fmt.Errorf("prepare store dir: %w", err)
		}
		db, err := store.OpenSQLite(ctx, c.StorePath)
		if err != nil {
			return nil, nil, err
		}
		repo = store.NewSQLiteRepository(db)
		closeFn = db.Close
	}

	if c.StoreSecret != "" {
		sealed, err := store.NewSealed(ctx, repo, []byte(c.StoreSecret))
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("seal store: %w", err)
		}
		repo = sealed
	}

	return repo, closeFn, nil
}
