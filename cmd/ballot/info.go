// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/diagnostics"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/receipt"
)

func (a *app) receipt(ctx context.Context, args []string) error {
	fs := newFlagSet("receipt", a.out)
	save := fs.String("save", "", "Directory to save the receipt file in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	userID, err := a.requireSession()
	if err != nil {
		return err
	}

	r, err := receipt.Load(ctx, a.api, userID)
	if err != nil {
		if apiclient.IsCode(err, models.CodeNotFound) {
			a.printf("No vote found for your account. Run 'ballot vote' to cast one.\n")
			return nil
		}
		a.logger.Warn("receipt unavailable, showing a generic one", "error", err)
	}
	info, err := receipt.LoadElectionInfo(ctx, a.api)
	if err != nil {
		a.logger.Debug("election info unavailable", "error", err)
	}

	if *save == "" {
		return receipt.Render(a.out, r, info)
	}
	path := filepath.Join(*save, receipt.Filename(r))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	if err := receipt.Render(f, r, info); err != nil {
		f.Close()
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	a.printf("Receipt saved to %s\n", path)
	return nil
}

func (a *app) results(ctx context.Context, args []string) error {
	fs := newFlagSet("results", a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: ballot results CONSTITUENCY_ID")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid constituency id %q", fs.Arg(0))
	}

	res, err := a.api.Results(ctx, id)
	if apiclient.IsCode(err, models.CodeResultsSealed) {
		a.printf("Results are published after voting closes.\n")
		return nil
	}
	if err != nil {
		return err
	}
	a.printResults(res)
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	if p, ok := a.store.Profile(); ok && a.store.IsAuthenticated() {
		scope := "this terminal"
		if a.store.Remembered() {
			scope = "remembered"
		}
		a.printf("Signed in as %s <%s> (%s)\n", p.FullName, p.Email, scope)
	} else {
		a.printf("Not signed in\n")
	}
	if pending, err := a.store.Pending(); err == nil {
		a.printf("Pending %s verification for %s\n", pending.Purpose, pending.Email)
	}

	st, err := a.api.VotingStatus(ctx)
	if err != nil {
		return err
	}
	a.printf("Voting: %s\n", st.Message)
	if a.store.IsAuthenticated() {
		a.printf("Voted: %t\n", st.HasVoted)
	}

	if info, err := a.api.ElectionInfo(ctx); err == nil {
		a.printf("Turnout: %s of %s registered voters (%s%%)\n",
			humanize.Comma(info.TotalVotesCast),
			humanize.Comma(info.TotalRegisteredVoters),
			humanize.FtoaWithDigits(info.TurnoutPercentage, 2))
	}
	return nil
}

func (a *app) doctor(ctx context.Context, args []string) error {
	a.printf("Checking %s\n", a.api.BaseURL())
	statuses := diagnostics.CheckServices(ctx, a.api, a.cfg.HealthTimeout)
	for _, st := range statuses {
		a.printf("  %-24s %-5s %s\n", st.Label, st.Status, st.Latency.Round(time.Millisecond))
		if st.Err != nil {
			a.logger.Debug("probe failed", "service", st.Name, "error", st.Err)
		}
	}
	if !diagnostics.AllGood(statuses) {
		page := diagnostics.Lookup(diagnostics.KindServer)
		a.printf("%s: %s\n", page.Title, page.Message)
		return errSilent
	}
	a.printf("All services are up.\n")
	return nil
}

func (a *app) printResults(r models.ConstituencyResults) {
	a.printf("%s: %d vote(s)\n", r.ConstituencyName, r.TotalVotes)
	for _, c := range r.Candidates {
		a.printf("  %d. %s, %s: %d\n", c.Rank, c.CandidateName, c.PartyName, c.Votes)
	}
}
