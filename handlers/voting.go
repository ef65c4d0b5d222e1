// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/VENUHARGI/OnlineVoting/auth"
	"github.com/VENUHARGI/OnlineVoting/cliparse"
	"github.com/VENUHARGI/OnlineVoting/middleware"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/validate"
)

// Max length of the stored user agent
const maxUserAgent = 255

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// Status handles GET /api/voting/status
// hasVoted is only known when a valid bearer token is sent
func (h *VotingHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := models.VotingStatus{VotingOpen: h.cfg.VotingOpen(time.Now())}

	if claims, err := middleware.BearerClaims(r, h.cfg.TokenSecret); err == nil {
		if userID, err := claims.UserID(); err == nil {
			hasVoted, err := h.hasVoted(userID)
			if err != nil {
				slog.Error("failed to check vote", "error", err, "user_id", userID)
				middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
				return
			}
			status.HasVoted = hasVoted
		}
	}

	switch {
	case status.HasVoted:
		status.Message = "You have already cast your vote"
	case !status.VotingOpen:
		status.Message = "Voting is currently closed"
	default:
		status.Message = "Voting is open"
	}

	middleware.SuccessResponse(w, http.StatusOK, "", status)
}

// Constituencies handles GET /api/voting/constituencies
func (h *VotingHandler) Constituencies(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, district, voter_count
		FROM constituencies
		WHERE is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query constituencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	constituencies := []models.Constituency{}
	for rows.Next() {
		var c models.Constituency
		if err := rows.Scan(&c.ID, &c.Name, &c.District, &c.VoterCount); err != nil {
			slog.Error("failed to scan constituency", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		constituencies = append(constituencies, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read constituencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, "", constituencies)
}

// Candidates handles GET /api/voting/constituencies/{id}/parties
func (h *VotingHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	constituencyID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || constituencyID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "constituency id must be a positive integer")
		return
	}

	var exists int
	err = h.db.QueryRow(`SELECT COUNT(*) FROM constituencies WHERE id = $1 AND is_active = TRUE`, constituencyID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query constituency", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if exists == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Constituency not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT c.id, c.name, p.id, p.name, p.symbol, COALESCE(p.color_code, ''),
		       COALESCE(c.qualification, ''), COALESCE(c.bio, '')
		FROM candidates c
		JOIN parties p ON p.id = c.party_id
		WHERE c.constituency_id = $1 AND c.is_active = TRUE AND p.is_active = TRUE
		ORDER BY p.name
	`, constituencyID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		err := rows.Scan(&c.ID, &c.Name, &c.PartyID, &c.PartyName, &c.PartySymbol,
			&c.PartyColorCode, &c.Qualification, &c.Bio)
		if err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, "", candidates)
}

// CastVote handles POST /api/voting/cast-vote
// Requires RequireAuth; the body userId must be the token subject
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}
	tokenUser, err := claims.UserID()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	if req.UserID != tokenUser {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeUnauthorized, "You can only vote for your own account")
		return
	}

	now := time.Now().UTC()
	if !h.cfg.VotingOpen(now) {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeVotingClosed, "Voting is currently closed")
		return
	}

	var verified bool
	err = h.db.QueryRow(`SELECT is_verified FROM users WHERE id = $1`, req.UserID).Scan(&verified)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if !verified {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeAccountNotVerified, "Account not verified")
		return
	}

	hasVoted, err := h.hasVoted(req.UserID)
	if err != nil {
		slog.Error("failed to check vote", "error", err, "user_id", req.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	if hasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyVoted, "You have already voted")
		return
	}

	// Candidate must stand for the given party in the given constituency
	var constituencyName, candidateName string
	err = h.db.QueryRow(`
		SELECT co.name, c.name
		FROM candidates c
		JOIN constituencies co ON co.id = c.constituency_id
		JOIN parties p ON p.id = c.party_id
		WHERE c.id = $1 AND c.constituency_id = $2 AND c.party_id = $3
		  AND c.is_active = TRUE AND co.is_active = TRUE AND p.is_active = TRUE
	`, req.CandidateID, req.ConstituencyID, req.PartyID).Scan(&constituencyName, &candidateName)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidSelection, "Invalid candidate selection")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	userAgent := r.UserAgent()
	if len(userAgent) > maxUserAgent {
		userAgent = userAgent[:maxUserAgent]
	}

	txID := uuid.NewString()
	var voteID int64
	err = h.db.QueryRow(`
		INSERT INTO votes (transaction_id, user_id, constituency_id, candidate_id, party_id, voted_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, txID, req.UserID, req.ConstituencyID, req.CandidateID, req.PartyID, now,
		auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt), userAgent).Scan(&voteID)
	if err != nil {
		// UNIQUE(user_id) catches a concurrent second vote
		if voted, _ := h.hasVoted(req.UserID); voted {
			middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyVoted, "You have already voted")
			return
		}
		slog.Error("failed to insert vote", "error", err, "user_id", req.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to record vote")
		return
	}

	slog.Info("vote cast", "vote_id", voteID, "user_id", req.UserID, "constituency_id", req.ConstituencyID)

	middleware.SuccessResponse(w, http.StatusCreated, "Vote cast successfully", models.CastVoteResponse{
		TransactionID: txID,
		VoteID:        voteID,
		Constituency:  constituencyName,
		Candidate:     candidateName,
		VotedAt:       now,
	})
}

// Receipt handles GET /api/voting/receipt?userId=
// Requires RequireAuth; userId, when given, must be the token subject
func (h *VotingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	if q := r.URL.Query().Get("userId"); q != "" {
		requested, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "userId must be an integer")
			return
		}
		if requested != userID {
			middleware.ErrorResponse(w, http.StatusForbidden, models.CodeUnauthorized, "You can only view your own receipt")
			return
		}
	}

	receipt := models.VoteReceipt{VoterID: userID, Status: models.VoteStatusConfirmed}
	err = h.db.QueryRow(`
		SELECT v.transaction_id, co.name, c.name, p.name, v.voted_at
		FROM votes v
		JOIN constituencies co ON co.id = v.constituency_id
		JOIN candidates c ON c.id = v.candidate_id
		JOIN parties p ON p.id = v.party_id
		WHERE v.user_id = $1
	`, userID).Scan(&receipt.TransactionID, &receipt.ConstituencyName,
		&receipt.CandidateName, &receipt.PartyName, &receipt.Timestamp)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "No vote found for this account")
		return
	}
	if err != nil {
		slog.Error("failed to query receipt", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, "", receipt)
}

// ElectionInfo handles GET /api/voting/election-info
func (h *VotingHandler) ElectionInfo(w http.ResponseWriter, r *http.Request) {
	var info models.ElectionInfo
	err := h.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(voter_count), 0)
		FROM constituencies
		WHERE is_active = TRUE
	`).Scan(&info.ActiveConstituencies, &info.TotalRegisteredVoters)
	if err != nil {
		slog.Error("failed to query constituencies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if err := h.db.QueryRow(`SELECT COUNT(*) FROM votes`).Scan(&info.TotalVotesCast); err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	if info.TotalRegisteredVoters > 0 {
		pct := float64(info.TotalVotesCast) / float64(info.TotalRegisteredVoters) * 100
		info.TurnoutPercentage = math.Round(pct*100) / 100
	}
	if !h.cfg.VotingOpens.IsZero() {
		info.StartDate = h.cfg.VotingOpens.Format(time.DateOnly)
	}
	if !h.cfg.VotingCloses.IsZero() {
		info.EndDate = h.cfg.VotingCloses.Format(time.DateOnly)
	}

	middleware.SuccessResponse(w, http.StatusOK, "", info)
}

// Health handles GET /api/voting/health
func (h *VotingHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.SuccessResponse(w, http.StatusOK, "Voting service is running", models.HealthStatus{
		Service: "voting",
		Status:  "UP",
	})
}

func (h *VotingHandler) hasVoted(userID int64) (bool, error) {
	var id int64
	err := h.db.QueryRow(`SELECT id FROM votes WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
