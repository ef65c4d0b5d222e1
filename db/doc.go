// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation and demo data.

# Connecting

Open selects the driver by type and pings the database:

	conn, err := db.Open(db.TypeSQLite, "online-voting.db")   // modernc.org/sqlite
	conn, err := db.Open(db.TypePostgres, "postgres://...")   // lib/pq

SQLite connections get foreign_keys and busy_timeout pragmas unless the
URL already sets pragmas.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The dialects differ only in the auto-increment id column.

# Tables

  - users: voter accounts, bcrypt hash, verification and lockout state
  - otp_codes: one-time codes per (email, purpose) with attempt counter
  - constituencies, parties, candidates: the ballot
  - votes: one row per user (UNIQUE user_id), uuid transaction id

# Relationships

	party 1──* candidate *──1 constituency
	user 1──0..1 vote
	vote *──1 candidate, party, constituency

# Seed Data

Seed inserts four constituencies, four parties and fifteen candidates
with fixed ids. It uses ON CONFLICT DO NOTHING and may run on every start.
*/
package db
