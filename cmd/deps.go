package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/fetcher"
	"github.com/sells-group/qbstats/internal/store"
	"github.com/sells-group/qbstats/internal/teams"
)

// errStoreDisabled is returned by commands that need a store when
// store.driver is "none".
var errStoreDisabled = eris.New("store is disabled (store.driver: none)")

// initStore opens and migrates the configured store. It returns a nil store
// when the driver is "none".
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "none":
		return nil, nil
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "qbstats.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initNormalizer builds the team normalizer, applying the alias overlay
// when one is configured.
func initNormalizer() (*teams.Normalizer, error) {
	if cfg.Scrape.TeamAliasesPath == "" {
		return teams.Default(), nil
	}
	extra, err := teams.LoadAliases(cfg.Scrape.TeamAliasesPath)
	if err != nil {
		return nil, err
	}
	zap.L().Info("loaded team aliases",
		zap.String("path", cfg.Scrape.TeamAliasesPath),
		zap.Int("count", len(extra)),
	)
	return teams.New(extra)
}

// initFetcher builds the page fetcher: HTTP with 429 backoff and pacing,
// fronted by the store's page cache when a TTL is configured.
func initFetcher(st store.Store) fetcher.Fetcher {
	var f fetcher.Fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:        cfg.Scrape.Timeout(),
		MaxRetries:     cfg.Scrape.MaxRetries,
		InitialBackoff: cfg.Scrape.InitialBackoff(),
		Limiter:        fetcher.PerMinute(cfg.Scrape.RequestsPerMinute),
	})
	if st != nil && cfg.Scrape.CacheTTL() > 0 {
		f = fetcher.NewCachedFetcher(f, st, cfg.Scrape.CacheTTL())
	}
	return f
}
