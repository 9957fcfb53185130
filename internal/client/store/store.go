// Package store opens the durable database behind the kv repository and keeps
// its schema current through embedded goose migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/relief/internal/client/migrations"
	"github.com/dmitrijs2005/relief/internal/client/repositories/kv"
	"github.com/dmitrijs2005/relief/internal/dbx"
	"github.com/dmitrijs2005/relief/internal/filex"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Store owns the database handle and the kv repository bound to it.
type Store struct {
	db      *sql.DB
	dialect dbx.Dialect
	KV      kv.Repository
}

func driverName(d dbx.Dialect) (string, string, error) {
	switch d {
	case dbx.DialectSQLite:
		return "sqlite", "sqlite3", nil
	case dbx.DialectPostgres:
		return "pgx", "postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported storage driver %q", d)
	}
}

// RunMigrations applies the embedded migrations for d.
func RunMigrations(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	_, gooseDialect, err := driverName(d)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, string(d))
}

// Open connects to dsn with the driver for d and migrates the schema.
func Open(ctx context.Context, d dbx.Dialect, dsn string) (*Store, error) {
	driver, _, err := driverName(d)
	if err != nil {
		return nil, err
	}

	if d == dbx.DialectSQLite && filex.IsSQLiteFile(dsn) {
		if dsn, err = filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if d == dbx.DialectSQLite {
		// one writer keeps in-memory databases alive and avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}

	if err := RunMigrations(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", d, err)
	}

	return &Store{db: db, dialect: d, KV: kv.New(db, d)}, nil
}

// Forget deletes keys in a single transaction, so a device reset never leaves
// half of the records behind.
func (s *Store) Forget(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.New(tx, s.dialect)
		for _, k := range keys {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
