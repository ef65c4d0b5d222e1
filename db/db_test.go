// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"path/filepath"
	"testing"
)

func TestCreateSchemaAndSeed_SQLite(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	// Twice: IF NOT EXISTS / ON CONFLICT make both idempotent
	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn, TypeSQLite); err != nil {
			t.Fatalf("CreateSchema() pass %d error = %v", i, err)
		}
		if err := Seed(conn); err != nil {
			t.Fatalf("Seed() pass %d error = %v", i, err)
		}
	}

	counts := []struct {
		table string
		want  int
	}{
		{"constituencies", len(seedConstituencies)},
		{"parties", len(seedParties)},
		{"candidates", len(seedCandidates)},
		{"users", 0},
		{"votes", 0},
	}
	for _, c := range counts {
		var got int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", c.table, err)
		}
		if got != c.want {
			t.Errorf("Expected %d rows in %s, got %d", c.want, c.table, got)
		}
	}

	// Candidate 11 stands for party 2 in constituency 3
	var partyID, constituencyID int64
	err = conn.QueryRow(`SELECT party_id, constituency_id FROM candidates WHERE id = $1`, 11).Scan(&partyID, &constituencyID)
	if err != nil {
		t.Fatal(err)
	}
	if partyID != 2 || constituencyID != 3 {
		t.Errorf("Expected candidate 11 in (party 2, constituency 3), got (%d, %d)", partyID, constituencyID)
	}
}

func TestSchema_OneVotePerUser(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "votes.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := CreateSchema(conn, TypeSQLite); err != nil {
		t.Fatal(err)
	}
	if err := Seed(conn); err != nil {
		t.Fatal(err)
	}

	_, err = conn.Exec(`
		INSERT INTO users (first_name, last_name, email, password_hash, is_verified, created_at)
		VALUES ('A', 'B', 'a@b.com', 'x', TRUE, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		t.Fatal(err)
	}

	insert := `
		INSERT INTO votes (transaction_id, user_id, constituency_id, candidate_id, party_id, voted_at)
		VALUES ($1, 1, 3, 11, 2, CURRENT_TIMESTAMP)
	`
	if _, err := conn.Exec(insert, "tx-1"); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if _, err := conn.Exec(insert, "tx-2"); err == nil {
		t.Error("Expected second vote for the same user to violate UNIQUE(user_id)")
	}
}

func TestOpen_UnknownType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"app.db", "app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:app.db?mode=rwc", "file:app.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"app.db?_pragma=journal_mode(WAL)", "app.db?_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
