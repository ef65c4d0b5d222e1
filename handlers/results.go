// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/VENUHARGI/OnlineVoting/cliparse"
	"github.com/VENUHARGI/OnlineVoting/middleware"
	"github.com/VENUHARGI/OnlineVoting/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// Results handles GET /api/voting/results/{constituencyId}
// Returns 403 while voting is still open (results are sealed until the close time)
func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	constituencyID, err := strconv.ParseInt(r.PathValue("constituencyId"), 10, 64)
	if err != nil || constituencyID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "constituency id must be a positive integer")
		return
	}

	if !h.cfg.VotingCloses.IsZero() && time.Now().Before(h.cfg.VotingCloses) {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeResultsSealed, "Results are sealed until voting closes")
		return
	}

	results := models.ConstituencyResults{ConstituencyID: constituencyID}
	err = h.db.QueryRow(`SELECT name FROM constituencies WHERE id = $1`, constituencyID).Scan(&results.ConstituencyName)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Constituency not found")
		return
	}
	if err != nil {
		slog.Error("failed to query constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	tallies, err := h.tally(constituencyID)
	if err != nil {
		slog.Error("failed to tally votes", "error", err, "constituency_id", constituencyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	for _, t := range tallies {
		results.TotalVotes += t.Votes
	}
	results.Candidates = tallies

	middleware.SuccessResponse(w, http.StatusOK, "", results)
}

// tally counts votes per candidate, highest first. Equal counts share a
// rank and the next rank skips (1, 1, 3).
func (h *ResultsHandler) tally(constituencyID int64) ([]models.CandidateTally, error) {
	rows, err := h.db.Query(`
		SELECT c.id, c.name, p.name, COUNT(v.id)
		FROM candidates c
		JOIN parties p ON p.id = c.party_id
		LEFT JOIN votes v ON v.candidate_id = c.id
		WHERE c.constituency_id = $1
		GROUP BY c.id, c.name, p.name
		ORDER BY COUNT(v.id) DESC, c.name
	`, constituencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tallies := []models.CandidateTally{}
	for rows.Next() {
		var t models.CandidateTally
		if err := rows.Scan(&t.CandidateID, &t.CandidateName, &t.PartyName, &t.Votes); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tallies {
		if i > 0 && tallies[i].Votes == tallies[i-1].Votes {
			tallies[i].Rank = tallies[i-1].Rank
		} else {
			tallies[i].Rank = i + 1
		}
	}
	return tallies, nil
}
