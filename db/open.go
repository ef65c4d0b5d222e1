// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open opens and pings a database of the given type
func Open(dbType, url string) (*sql.DB, error) {
	var dsn string
	switch dbType {
	case TypeSQLite:
		dsn = sqliteDSN(url)
	case TypePostgres:
		dsn = url
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbType == TypeSQLite {
		// One writer at a time; busy_timeout covers the rest
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// sqliteDSN turns on foreign keys and a busy timeout unless the caller set pragmas
func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
