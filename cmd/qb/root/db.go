package root

import (
	"context"
	"database/sql"

	"github.com/israice/ToDo-Game/internal/config"
	"github.com/israice/ToDo-Game/internal/storage"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}
