// Package bundb owns the Postgres connection and hands out the per-module
// repositories bound to it.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	playerdb "github.com/fairway-collective/foursome/app/modules/player/infrastructure/repositories"
	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/fairway-collective/foursome/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService bundles the bun connection with the module repositories.
type DBService struct {
	RoundDB  rounddb.Repository
	PlayerDB *playerdb.Impl
	db       *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// NewBunDBService initializes a new DBService with the provided Postgres
// configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel((*playerdb.User)(nil))
	db.RegisterModel((*playerdb.Player)(nil))
	db.RegisterModel((*rounddb.Round)(nil))
	db.RegisterModel((*rounddb.Entry)(nil))

	return &DBService{
		RoundDB:  rounddb.NewRepository(db),
		PlayerDB: playerdb.NewRepository(db),
		db:       db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqldb, nil
}
