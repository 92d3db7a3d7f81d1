package root

import (
	"context"

	"habitforge/internal/config"
	"habitforge/internal/engine"
	"habitforge/internal/storage"
)

// openCoordinator loads the world from the database and hands back a
// ready coordinator. The cleanup flushes pending state and closes the
// database; every one-shot command defers it.
func openCoordinator(ctx context.Context, opts ...engine.Option) (*engine.Coordinator, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := cfg.Logger()

	path := cfg.DBPath
	if path == "" {
		path, err = storage.DefaultDBPath()
		if err != nil {
			return nil, nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, nil, err
	}

	store := storage.NewStore(db, logger)
	state := store.LoadState(ctx, cfg.PlayerName)

	opts = append([]engine.Option{
		engine.WithPersister(store),
		engine.WithLogger(logger),
	}, opts...)
	coord := engine.New(state, opts...)

	cleanup := func() {
		coord.Flush(ctx)
		_ = db.Close()
	}
	return coord, cfg, cleanup, nil
}
