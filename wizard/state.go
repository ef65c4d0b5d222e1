// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"errors"
	"fmt"

	"github.com/VENUHARGI/OnlineVoting/models"
)

// Step is the wizard page currently shown
type Step int

const (
	StepSelectConstituency Step = iota + 1
	StepSelectCandidate
	StepConfirm
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepSelectConstituency:
		return "select constituency"
	case StepSelectCandidate:
		return "select candidate"
	case StepConfirm:
		return "confirm"
	case StepSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Number is the position shown in the step indicator, 1 to 3
func (s Step) Number() int {
	if s >= StepConfirm {
		return 3
	}
	return int(s)
}

var (
	ErrAlreadyVoted        = errors.New("you have already cast your vote")
	ErrVotingClosed        = errors.New("voting is currently closed")
	ErrNoConstituency      = errors.New("please select a constituency first")
	ErrNoCandidate         = errors.New("please select a candidate first")
	ErrNotConfirmed        = errors.New("please confirm your vote selection")
	ErrIncomplete          = errors.New("please complete all selections")
	ErrUnknownConstituency = errors.New("constituency is not in the list")
	ErrUnknownCandidate    = errors.New("candidate is not standing in this constituency")
	ErrLocked              = errors.New("the vote has been submitted and can no longer change")
	ErrWrongStep           = errors.New("not available on this step")
)

// State is everything the wizard knows. Transitions take a State and
// return the next one; a rejected transition returns the input unchanged
// together with the error.
type State struct {
	Step           Step
	Constituencies []models.Constituency
	Candidates     []models.Candidate
	Constituency   *models.Constituency
	Candidate      *models.Candidate
	Confirmed      bool
	Receipt        *models.VoteReceipt
}

// SelectConstituency picks one of the loaded constituencies. Changing the
// constituency drops a candidate chosen for the previous one.
func (s State) SelectConstituency(id int64) (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Step != StepSelectConstituency {
		return s, fmt.Errorf("%w: %s", ErrWrongStep, s.Step)
	}
	for i := range s.Constituencies {
		if s.Constituencies[i].ID == id {
			c := s.Constituencies[i]
			if s.Constituency == nil || s.Constituency.ID != id {
				s.Candidates = nil
				s.Candidate = nil
			}
			s.Constituency = &c
			s.Confirmed = false
			return s, nil
		}
	}
	return s, fmt.Errorf("%w: %d", ErrUnknownConstituency, id)
}

// SelectCandidate picks one of the loaded candidates
func (s State) SelectCandidate(id int64) (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Step != StepSelectCandidate {
		return s, fmt.Errorf("%w: %s", ErrWrongStep, s.Step)
	}
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			c := s.Candidates[i]
			s.Candidate = &c
			return s, nil
		}
	}
	return s, fmt.Errorf("%w: %d", ErrUnknownCandidate, id)
}

// ToConfirm moves to the confirmation page, unconfirmed
func (s State) ToConfirm() (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Step != StepSelectCandidate {
		return s, fmt.Errorf("%w: %s", ErrWrongStep, s.Step)
	}
	if s.Candidate == nil {
		return s, ErrNoCandidate
	}
	s.Step = StepConfirm
	s.Confirmed = false
	return s, nil
}

// Confirm ticks or unticks the confirmation box
func (s State) Confirm(ok bool) (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Step != StepConfirm {
		return s, fmt.Errorf("%w: %s", ErrWrongStep, s.Step)
	}
	s.Confirmed = ok
	return s, nil
}

// BackToCandidates returns from confirmation to the candidate list,
// clearing the chosen candidate and the confirmation
func (s State) BackToCandidates() (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Step != StepConfirm {
		return s, fmt.Errorf("%w: %s", ErrWrongStep, s.Step)
	}
	s.Step = StepSelectCandidate
	s.Candidate = nil
	s.Confirmed = false
	return s, nil
}

// BackToConstituencies returns to the first page, keeping the
// constituency highlighted but clearing candidate and confirmation
func (s State) BackToConstituencies() (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrLocked
	}
	if s.Step == StepSelectConstituency {
		return s, nil
	}
	s.Step = StepSelectConstituency
	s.Candidate = nil
	s.Confirmed = false
	return s, nil
}

// SubmitEnabled reports whether the submit control is active
func (s State) SubmitEnabled() bool {
	return s.Step == StepConfirm && s.Confirmed && s.Constituency != nil && s.Candidate != nil
}

// CanEdit is false once the vote is submitted
func (s State) CanEdit() bool {
	return s.Step != StepSubmitted
}
