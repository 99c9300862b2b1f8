// Package pg bootstraps the Postgres layer backing the notification engine:
// a pgx/v5 connection pool with startup retries, goose schema migrations,
// and a health probe.
//
// Typical startup sequence:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
package pg
