package server

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for the catalog database

	"github.com/quarrydb/native-connector-go/app/server/config"
	"github.com/quarrydb/native-connector-go/common"
)

func newMetastoreDB(cfg *config.MetastoreConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	connMaxLifetime, err := common.DurationFromString(cfg.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("parse conn_max_lifetime: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
