// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/models"
)

// API is the part of the voting API the wizard needs
type API interface {
	VotingStatus(ctx context.Context) (models.VotingStatus, error)
	Constituencies(ctx context.Context) ([]models.Constituency, error)
	Candidates(ctx context.Context, constituencyID int64) ([]models.Candidate, error)
	CastVote(ctx context.Context, req models.CastVoteRequest) (models.CastVoteResponse, error)
}

// Wizard runs the transitions that need the server
type Wizard struct {
	api    API
	userID int64
	logger *slog.Logger
	now    func() time.Time
}

func New(api API, userID int64, logger *slog.Logger) *Wizard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Wizard{api: api, userID: userID, logger: logger, now: time.Now}
}

// Start checks the voter may vote and loads the constituency list.
// A failed status check is logged and the wizard continues; the server
// rejects the vote itself if the voter cannot vote.
func (w *Wizard) Start(ctx context.Context) (State, error) {
	status, err := w.api.VotingStatus(ctx)
	switch {
	case err != nil:
		w.logger.Warn("voting status check failed", "error", err)
	case status.HasVoted:
		return State{}, ErrAlreadyVoted
	case !status.VotingOpen:
		return State{}, ErrVotingClosed
	}

	list, err := w.api.Constituencies(ctx)
	if err != nil {
		return State{}, fmt.Errorf("failed to load constituencies: %w", err)
	}
	return State{Step: StepSelectConstituency, Constituencies: list}, nil
}

// ToCandidates loads the candidates of the selected constituency and
// moves to the candidate page
func (w *Wizard) ToCandidates(ctx context.Context, s State) (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Step != StepSelectConstituency {
		return s, fmt.Errorf("%w: %s", ErrWrongStep, s.Step)
	}
	if s.Constituency == nil {
		return s, ErrNoConstituency
	}

	list, err := w.api.Candidates(ctx, s.Constituency.ID)
	if err != nil {
		return s, fmt.Errorf("failed to load candidates: %w", err)
	}
	s.Candidates = list
	if s.Candidate != nil && !containsCandidate(list, s.Candidate.ID) {
		s.Candidate = nil
	}
	s.Step = StepSelectCandidate
	s.Confirmed = false
	return s, nil
}

// Submit casts the vote. On success the state is final and carries the
// receipt built from the transaction id and the local selections.
func (w *Wizard) Submit(ctx context.Context, s State) (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Constituency == nil || s.Candidate == nil {
		return s, ErrIncomplete
	}
	if s.Step != StepConfirm {
		return s, fmt.Errorf("%w: %s", ErrWrongStep, s.Step)
	}
	if !s.Confirmed {
		return s, ErrNotConfirmed
	}

	resp, err := w.api.CastVote(ctx, models.CastVoteRequest{
		UserID:         w.userID,
		ConstituencyID: s.Constituency.ID,
		CandidateID:    s.Candidate.ID,
		PartyID:        s.Candidate.PartyID,
	})
	if err != nil {
		switch apiclient.CodeOf(err) {
		case models.CodeAlreadyVoted:
			return s, ErrAlreadyVoted
		case models.CodeVotingClosed:
			return s, ErrVotingClosed
		}
		return s, err
	}

	votedAt := resp.VotedAt
	if votedAt.IsZero() {
		votedAt = w.now().UTC()
	}
	s.Receipt = &models.VoteReceipt{
		TransactionID:    resp.TransactionID,
		VoterID:          w.userID,
		ConstituencyName: s.Constituency.Name,
		CandidateName:    s.Candidate.Name,
		PartyName:        s.Candidate.PartyName,
		Timestamp:        votedAt,
		Status:           models.VoteStatusConfirmed,
	}
	s.Step = StepSubmitted
	w.logger.Info("vote submitted", "transaction_id", resp.TransactionID, "constituency_id", s.Constituency.ID)
	return s, nil
}

func containsCandidate(list []models.Candidate, id int64) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}
