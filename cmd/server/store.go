package main

import (
	"context"
	"fmt"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/config"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store/filestore"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store/redisstore"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store/sqlstore"
)

// openStore builds the job store selected by store.driver.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "file":
		st, err = filestore.New(cfg.Store.Dir)
	case "redis":
		st, err = redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Prefix:   cfg.Store.RedisPrefix,
		})
	case "sqlite":
		st, err = sqlstore.OpenSQLite(cfg.Store.SQLitePath)
	case "memory":
		st = store.NewMemory()
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return st, nil
}
