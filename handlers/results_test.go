// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/testutil"
)

func TestResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	// Two-way tie for first, one vote for third, one candidate without votes
	votes := []struct{ candidate, party int64 }{
		{11, 2}, {11, 2}, {9, 1}, {9, 1}, {10, 3},
	}
	for i, v := range votes {
		userID := testutil.CreateTestUser(t, db, fmt.Sprintf("voter%d@example.com", i), true)
		testutil.CreateTestVote(t, db, userID, 3, v.candidate, v.party)
	}

	req := testutil.MakeRequest("GET", "/api/voting/results/3", nil, nil)
	req.SetPathValue("constituencyId", "3")
	w := httptest.NewRecorder()
	handler.Results(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.ConstituencyResults
	testutil.DecodeEnvelope(t, w, &results)

	if results.ConstituencyName != "Northfield" {
		t.Errorf("Expected Northfield, got %s", results.ConstituencyName)
	}
	if results.TotalVotes != 5 {
		t.Errorf("Expected 5 total votes, got %d", results.TotalVotes)
	}
	if len(results.Candidates) != 4 {
		t.Fatalf("Expected 4 candidates, got %d", len(results.Candidates))
	}

	wantRanks := []struct {
		votes int64
		rank  int
	}{{2, 1}, {2, 1}, {1, 3}, {0, 4}}
	for i, want := range wantRanks {
		got := results.Candidates[i]
		if got.Votes != want.votes || got.Rank != want.rank {
			t.Errorf("Position %d: expected %d votes rank %d, got %d votes rank %d",
				i, want.votes, want.rank, got.Votes, got.Rank)
		}
	}
}

func TestResultsErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	sealed := cfg
	sealed.VotingCloses = time.Now().Add(time.Hour)

	tests := []struct {
		name           string
		cfgSealed      bool
		id             string
		expectedStatus int
		expectedCode   models.ErrorCode
	}{
		{"sealed while voting is open", true, "3", http.StatusForbidden, models.CodeResultsSealed},
		{"unknown constituency", false, "42", http.StatusNotFound, models.CodeNotFound},
		{"bad id", false, "x", http.StatusBadRequest, models.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewResultsHandler(db, cfg)
			if tt.cfgSealed {
				handler = NewResultsHandler(db, sealed)
			}

			req := testutil.MakeRequest("GET", "/api/voting/results/"+tt.id, nil, nil)
			req.SetPathValue("constituencyId", tt.id)
			w := httptest.NewRecorder()
			handler.Results(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			testutil.AssertCode(t, testutil.DecodeEnvelope(t, w, nil), tt.expectedCode)
		})
	}
}
