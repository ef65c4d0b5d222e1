// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/VENUHARGI/OnlineVoting/receipt"
	"github.com/VENUHARGI/OnlineVoting/wizard"
)

var errQuit = errors.New("quit")

func (a *app) vote(ctx context.Context, args []string) error {
	userID, err := a.requireSession()
	if err != nil {
		return err
	}

	w := wizard.New(a.api, userID, a.logger)
	s, err := w.Start(ctx)
	switch {
	case errors.Is(err, wizard.ErrAlreadyVoted):
		a.printf("You have already cast your vote.\n\n")
		return a.receipt(ctx, nil)
	case errors.Is(err, wizard.ErrVotingClosed):
		a.printf("Voting is currently closed.\n")
		return nil
	case err != nil:
		return err
	}

	for s.Step != wizard.StepSubmitted {
		a.printf("\nStep %d of 3: %s\n", s.Step.Number(), s.Step)
		var next wizard.State
		switch s.Step {
		case wizard.StepSelectConstituency:
			next, err = a.pickConstituency(ctx, w, s)
		case wizard.StepSelectCandidate:
			next, err = a.pickCandidate(ctx, s)
		case wizard.StepConfirm:
			next, err = a.confirmVote(ctx, w, s)
		}

		switch {
		case errors.Is(err, errQuit):
			a.printf("No vote was cast.\n")
			return nil
		case errors.Is(err, wizard.ErrAlreadyVoted):
			a.printf("You have already cast your vote.\n")
			return nil
		case errors.Is(err, wizard.ErrVotingClosed):
			a.printf("Voting closed before your vote was recorded.\n")
			return nil
		case isGuard(err):
			a.printf("%s\n", capitalize(err.Error()))
		case err != nil:
			return err
		}
		s = next
	}

	a.printf("\nYour vote has been recorded.\n\n")
	info, err := receipt.LoadElectionInfo(ctx, a.api)
	if err != nil {
		a.logger.Debug("election info unavailable", "error", err)
	}
	return receipt.Render(a.out, *s.Receipt, info)
}

func (a *app) pickConstituency(ctx context.Context, w *wizard.Wizard, s wizard.State) (wizard.State, error) {
	list := s.Constituencies
	for {
		for i, c := range list {
			a.printf("  %2d. %s\n", i+1, wizard.ConstituencyLabel(c))
		}
		answer, err := a.prompt(ctx, "Constituency number, text to search, q to quit: ")
		if err != nil {
			return s, err
		}
		if strings.EqualFold(answer, "q") {
			return s, errQuit
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(list) {
			list = wizard.FilterConstituencies(s.Constituencies, answer)
			if len(list) == 0 {
				a.printf("No constituency matches %q.\n", answer)
				list = s.Constituencies
			}
			continue
		}

		next, err := s.SelectConstituency(list[n-1].ID)
		if err != nil {
			return s, err
		}
		return w.ToCandidates(ctx, next)
	}
}

func (a *app) pickCandidate(ctx context.Context, s wizard.State) (wizard.State, error) {
	a.printf("Constituency: %s\n", s.Constituency.Name)
	list := s.Candidates
	for {
		for i, c := range list {
			a.printf("  %2d. %s\n", i+1, wizard.CandidateLabel(c))
			if c.Qualification != "" {
				a.printf("      %s\n", c.Qualification)
			}
		}
		answer, err := a.prompt(ctx, "Candidate number, text to search, b to go back, q to quit: ")
		if err != nil {
			return s, err
		}
		switch strings.ToLower(answer) {
		case "q":
			return s, errQuit
		case "b":
			return s.BackToConstituencies()
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(list) {
			list = wizard.FilterCandidates(s.Candidates, answer)
			if len(list) == 0 {
				a.printf("No candidate matches %q.\n", answer)
				list = s.Candidates
			}
			continue
		}

		next, err := s.SelectCandidate(list[n-1].ID)
		if err != nil {
			return s, err
		}
		return next.ToConfirm()
	}
}

func (a *app) confirmVote(ctx context.Context, w *wizard.Wizard, s wizard.State) (wizard.State, error) {
	a.printf("Constituency: %s\n", s.Constituency.Name)
	a.printf("Candidate:    %s\n", s.Candidate.Name)
	a.printf("Party:        %s (%s)\n", s.Candidate.PartyName, s.Candidate.PartySymbol)

	answer, err := a.prompt(ctx, "Cast this vote? It cannot be changed afterwards. [y]es, [b]ack, [q]uit: ")
	if err != nil {
		return s, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
	case "b":
		return s.BackToCandidates()
	case "q":
		return s, errQuit
	default:
		return s, wizard.ErrNotConfirmed
	}

	next, err := s.Confirm(true)
	if err != nil {
		return s, err
	}
	return w.Submit(ctx, next)
}

// isGuard reports wizard errors the voter can fix on the same page
func isGuard(err error) bool {
	for _, target := range []error{
		wizard.ErrNoConstituency, wizard.ErrNoCandidate, wizard.ErrNotConfirmed,
		wizard.ErrIncomplete, wizard.ErrUnknownConstituency, wizard.ErrUnknownCandidate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
