// Package pg connects to PostgreSQL with github.com/jackc/pgx/v5 and applies
// schema migrations with github.com/pressly/goose/v3.
//
// Migrations are embedded in the binary (see internal/db) and applied at
// startup before the HTTP server accepts traffic:
//
//	pool, err := pg.Connect(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, db.Migrations, cfg, log); err != nil {
//	    return err
//	}
//
// IsDuplicateKeyError and IsNotFoundError classify pgx errors for stores.
package pg
