// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/VENUHARGI/OnlineVoting/models"
)

// FilterConstituencies keeps entries whose name or district contains term, ignoring case
func FilterConstituencies(list []models.Constituency, term string) []models.Constituency {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	var out []models.Constituency
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.District), term) {
			out = append(out, c)
		}
	}
	return out
}

// FilterCandidates matches the candidate name, party name or qualification
func FilterCandidates(list []models.Candidate, term string) []models.Candidate {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	var out []models.Candidate
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.PartyName), term) ||
			strings.Contains(strings.ToLower(c.Qualification), term) {
			out = append(out, c)
		}
	}
	return out
}

// ConstituencyLabel is one line of the constituency list
func ConstituencyLabel(c models.Constituency) string {
	label := c.Name
	if c.District != "" {
		label += ", " + c.District
	}
	if c.VoterCount > 0 {
		label += fmt.Sprintf(" (%s voters)", humanize.Comma(c.VoterCount))
	}
	return label
}

// CandidateLabel is one line of the candidate list
func CandidateLabel(c models.Candidate) string {
	label := fmt.Sprintf("%s, %s", c.Name, c.PartyName)
	if c.PartySymbol != "" {
		label += " (" + c.PartySymbol + ")"
	}
	return label
}
