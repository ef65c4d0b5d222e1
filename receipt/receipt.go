// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/VENUHARGI/OnlineVoting/models"
)

const notAvailable = "N/A"

// ErrNoUser means no signed-in user id was available to look the receipt up
var ErrNoUser = errors.New("no user id for receipt lookup")

// API is the part of the voting API the success page needs
type API interface {
	Receipt(ctx context.Context, userID int64) (models.VoteReceipt, error)
	ElectionInfo(ctx context.Context) (models.ElectionInfo, error)
}

// Load fetches the voter's receipt. On any failure it returns a Generic
// receipt together with the error, so there is always something to show.
func Load(ctx context.Context, api API, userID int64) (models.VoteReceipt, error) {
	if userID <= 0 {
		return Generic(time.Now()), ErrNoUser
	}
	r, err := api.Receipt(ctx, userID)
	if err != nil {
		return Generic(time.Now()), err
	}
	return r, nil
}

// Generic is a placeholder receipt with a locally generated transaction id
func Generic(now time.Time) models.VoteReceipt {
	return models.VoteReceipt{
		TransactionID: "TX" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)),
		Timestamp:     now,
	}
}

// LoadElectionInfo returns the election summary, or nil when unavailable
func LoadElectionInfo(ctx context.Context, api API) (*models.ElectionInfo, error) {
	info, err := api.ElectionInfo(ctx)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Filename is the download name for r
func Filename(r models.VoteReceipt) string {
	return fmt.Sprintf("vote-receipt-%s.txt", r.TransactionID)
}

// Render writes the text receipt. A nil info prints the election section
// as not available.
func Render(w io.Writer, r models.VoteReceipt, info *models.ElectionInfo) error {
	voter := notAvailable
	if r.VoterID > 0 {
		voter = strconv.FormatInt(r.VoterID, 10)
	}
	cast := notAvailable
	if !r.Timestamp.IsZero() {
		cast = fmt.Sprintf("%s (%s)", r.Timestamp.Local().Format("2 Jan 2006 15:04:05"), humanize.Time(r.Timestamp))
	}
	party := orNA(r.PartyName)
	if r.CandidateName != "" {
		party = fmt.Sprintf("%s (%s)", r.CandidateName, party)
	}

	var b strings.Builder
	b.WriteString("VOTE RECEIPT - ONLINE VOTING SYSTEM\n")
	b.WriteString("=========================================\n\n")
	fmt.Fprintf(&b, "Transaction ID: %s\n", r.TransactionID)
	fmt.Fprintf(&b, "Voter ID: %s\n", voter)
	fmt.Fprintf(&b, "Constituency: %s\n", orNA(r.ConstituencyName))
	fmt.Fprintf(&b, "Selected Party: %s\n", party)
	fmt.Fprintf(&b, "Vote Cast Time: %s\n", cast)
	fmt.Fprintf(&b, "Status: %s\n\n", statusLabel(r.Status))

	b.WriteString("Election\n")
	for _, line := range electionLines(info) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	b.WriteString("\n=========================================\n")
	b.WriteString("This receipt serves as proof of your vote submission.\n")
	b.WriteString("Keep this receipt for your records.\n\n")
	fmt.Fprintf(&b, "Online Voting System\n%d\n", time.Now().Year())

	_, err := io.WriteString(w, b.String())
	return err
}

func electionLines(info *models.ElectionInfo) []string {
	const missing = "Information not available"
	if info == nil {
		return []string{
			"Period: " + missing,
			"Registered voters: " + missing,
			"Turnout: " + missing,
		}
	}
	period := missing
	if info.StartDate != "" && info.EndDate != "" {
		period = info.StartDate + " - " + info.EndDate
	}
	voters := missing
	if info.TotalRegisteredVoters > 0 {
		voters = humanize.Comma(info.TotalRegisteredVoters)
	}
	return []string{
		"Period: " + period,
		"Registered voters: " + voters,
		fmt.Sprintf("Votes cast: %s", humanize.Comma(info.TotalVotesCast)),
		fmt.Sprintf("Turnout: %s%%", humanize.FtoaWithDigits(info.TurnoutPercentage, 2)),
		fmt.Sprintf("Constituencies: %d", info.ActiveConstituencies),
	}
}

func statusLabel(status string) string {
	if status == "" || status == models.VoteStatusConfirmed {
		return "Confirmed & Recorded"
	}
	return status
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
