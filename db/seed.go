// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

type seedConstituency struct {
	id         int64
	name       string
	district   string
	voterCount int64
}

type seedParty struct {
	id     int64
	name   string
	symbol string
	color  string
}

type seedCandidate struct {
	id             int64
	name           string
	partyID        int64
	constituencyID int64
	qualification  string
	bio            string
}

var seedConstituencies = []seedConstituency{
	{1, "Central City", "Metro District", 184500},
	{2, "Riverside", "Valley District", 152300},
	{3, "Northfield", "Highland District", 128750},
	{4, "Lakeshore", "Coastal District", 97420},
}

var seedParties = []seedParty{
	{1, "People's Progressive Party", "Sun", "#f59e0b"},
	{2, "National Unity Front", "Tree", "#16a34a"},
	{3, "Democratic Reform Party", "Wheel", "#2563eb"},
	{4, "Independent", "Star", "#6b7280"},
}

var seedCandidates = []seedCandidate{
	{1, "Asha Menon", 1, 1, "MA Public Policy", "Two-term city councillor."},
	{2, "Daniel Ortiz", 2, 1, "BSc Civil Engineering", "Led the metro transit expansion."},
	{3, "Priya Raman", 3, 1, "LLB", "Housing rights lawyer."},
	{4, "Samuel Green", 4, 1, "BCom", "Small business owner."},
	{5, "Leela Kapoor", 1, 2, "MBBS", "Runs the district health clinic."},
	{6, "Marcus Hill", 2, 2, "BA History", "Former school principal."},
	{7, "Nina Patel", 3, 2, "MSc Environmental Science", "River conservation advocate."},
	{8, "Omar Haddad", 4, 2, "Diploma Agriculture", "Farmers' cooperative chair."},
	{9, "Ravi Shankar", 1, 3, "PhD Economics", "University lecturer."},
	{10, "Helen Park", 3, 3, "MBA", "Regional development officer."},
	{11, "Thomas Reed", 2, 3, "BEd", "Youth sports organiser."},
	{12, "Fatima Noor", 4, 3, "BSc Nursing", "Community health volunteer."},
	{13, "Arjun Das", 1, 4, "BTech", "Harbour logistics manager."},
	{14, "Grace Liu", 2, 4, "MA Journalism", "Local newspaper editor."},
	{15, "Victor Mensah", 3, 4, "LLM", "Fisheries policy adviser."},
}

// Seed inserts the demo constituencies, parties and candidates.
// Existing rows are left untouched, so it is safe to call on every start.
func Seed(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, c := range seedConstituencies {
		_, err := tx.Exec(`
			INSERT INTO constituencies (id, name, district, voter_count, is_active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, c.id, c.name, c.district, c.voterCount, true)
		if err != nil {
			return fmt.Errorf("failed to seed constituency %d: %w", c.id, err)
		}
	}

	for _, p := range seedParties {
		_, err := tx.Exec(`
			INSERT INTO parties (id, name, symbol, color_code, is_active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, p.id, p.name, p.symbol, p.color, true)
		if err != nil {
			return fmt.Errorf("failed to seed party %d: %w", p.id, err)
		}
	}

	for _, c := range seedCandidates {
		_, err := tx.Exec(`
			INSERT INTO candidates (id, name, party_id, constituency_id, qualification, bio, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`, c.id, c.name, c.partyID, c.constituencyID, c.qualification, c.bio, true)
		if err != nil {
			return fmt.Errorf("failed to seed candidate %d: %w", c.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
