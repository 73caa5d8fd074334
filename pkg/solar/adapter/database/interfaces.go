// Package database defines how solarsink reaches a relational store.
package database

import (
	"context"
	"database/sql"

	dbconfig "github.com/tigerroll/solarsink/pkg/solar/adapter/database/config"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
)

// DBConnection is an open, named connection pool.
type DBConnection interface {
	tx.SessionFactory

	Type() string
	Name() string
	Close() error
	// RefreshConnection pings the pool.
	RefreshConnection(ctx context.Context) error
	Config() dbconfig.DatabaseConfig
	GetSQLDB() (*sql.DB, error)
}

// DBProvider opens and caches connections for one database type.
type DBProvider interface {
	GetConnection(name string) (DBConnection, error)
	CloseAll() error
	Type() string
	ForceReconnect(name string) (DBConnection, error)
}

// DBConnectionResolver finds the provider for a named connection and returns the connection.
type DBConnectionResolver interface {
	ResolveDBConnection(ctx context.Context, name string) (DBConnection, error)
}

// DBProviderGroup is the Fx value group DBProviders are collected in.
const DBProviderGroup = "db_providers"
