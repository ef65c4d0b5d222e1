// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/router"
	"github.com/VENUHARGI/OnlineVoting/session"
	"github.com/VENUHARGI/OnlineVoting/testutil"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		kind  Kind
		title string
		icon  string
		retry string
	}{
		{KindNetwork, "Connection Problem", "wifi", "Try Again"},
		{KindServer, "Server Error", "server", "Try Again"},
		{KindAuth, "Authentication Required", "user-lock", "Sign In"},
		{KindPermission, "Access Denied", "ban", ""},
		{KindNotFound, "Page Not Found", "search", ""},
		{KindValidation, "Invalid Input", "exclamation-circle", ""},
		{KindSession, "Session Expired", "clock", "Sign In Again"},
		{KindGeneral, "Something Went Wrong", "exclamation-triangle", ""},
		{"bogus", "Something Went Wrong", "exclamation-triangle", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			p := Lookup(tt.kind)
			if p.Title != tt.title || p.Icon != tt.icon {
				t.Errorf("Expected %q/%q, got %q/%q", tt.title, tt.icon, p.Title, p.Icon)
			}
			if p.Message == "" {
				t.Error("Expected a default message")
			}
			retry := ""
			for _, a := range p.Actions {
				if a.ID == ActionRetry {
					retry = a.Label
				}
			}
			if retry != tt.retry {
				t.Errorf("Expected retry label %q, got %q", tt.retry, retry)
			}
		})
	}
}

func TestSessionActionClearsCredentials(t *testing.T) {
	p := Lookup(KindSession)
	if !p.Actions[0].SignIn || !p.Actions[0].ClearSession {
		t.Errorf("Expected sign-in action that clears the session, got %+v", p.Actions[0])
	}
	if Lookup(KindAuth).Actions[0].ClearSession {
		t.Error("Auth action should not clear the session")
	}
}

func TestDescribe(t *testing.T) {
	p := Describe(KindServer, "INTERNAL_ERROR", "Database unavailable")
	if p.Code != "INTERNAL_ERROR" || p.Message != "Database unavailable" {
		t.Errorf("Unexpected page %+v", p)
	}
	if Describe(KindServer, "", "").Message != Lookup(KindServer).Message {
		t.Error("Expected default message for empty override")
	}
}

func TestKindFor(t *testing.T) {
	apiErr := func(kind apiclient.Kind, status int, code models.ErrorCode) error {
		return &apiclient.Error{Kind: kind, Status: status, Code: code}
	}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindGeneral},
		{"plain", errors.New("boom"), KindGeneral},
		{"no token", fmt.Errorf("vote: %w", session.ErrNoToken), KindAuth},
		{"expired session", session.ErrExpired, KindSession},
		{"timeout", apiErr(apiclient.KindTimeout, 0, ""), KindNetwork},
		{"network", apiErr(apiclient.KindNetwork, 0, ""), KindNetwork},
		{"bad json", apiErr(apiclient.KindInvalidResponse, 200, ""), KindServer},
		{"validation", apiErr(apiclient.KindHTTPStatus, 400, models.CodeValidation), KindValidation},
		{"selection", apiErr(apiclient.KindHTTPStatus, 400, models.CodeInvalidSelection), KindValidation},
		{"expired token", apiErr(apiclient.KindHTTPStatus, 401, models.CodeUnauthorized), KindSession},
		{"wrong user", apiErr(apiclient.KindHTTPStatus, 403, models.CodeUnauthorized), KindPermission},
		{"not found", apiErr(apiclient.KindHTTPStatus, 404, models.CodeNotFound), KindNotFound},
		{"internal", apiErr(apiclient.KindHTTPStatus, 500, models.CodeInternal), KindServer},
		{"bare 502", apiErr(apiclient.KindHTTPStatus, 502, ""), KindServer},
		{"bare 401", apiErr(apiclient.KindHTTPStatus, 401, ""), KindSession},
		{"rejected", apiErr(apiclient.KindRejected, 200, ""), KindGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindFor(tt.err); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestForError(t *testing.T) {
	p := ForError(&apiclient.Error{Kind: apiclient.KindHTTPStatus, Status: 404, Code: models.CodeNotFound, Message: "Constituency not found"})
	if p.Kind != KindNotFound || p.Message != "Constituency not found" || p.Code != "NOT_FOUND" {
		t.Errorf("Unexpected page %+v", p)
	}

	p = ForError(&apiclient.Error{Kind: apiclient.KindNetwork, Message: "Network error. Please check your connection."})
	if p.Message != Lookup(KindNetwork).Message {
		t.Errorf("Expected default network message, got %q", p.Message)
	}

	p = ForError(errors.New("unknown purpose \"x\""))
	if p.Kind != KindGeneral || p.Message != `unknown purpose "x"` {
		t.Errorf("Expected the error text on the general page, got %+v", p)
	}

	p = ForError(session.ErrNoToken)
	if p.Message != Lookup(KindAuth).Message {
		t.Errorf("Expected default auth message, got %q", p.Message)
	}
}

type fakeProber struct {
	fail  map[string]bool
	delay map[string]time.Duration
}

func (f *fakeProber) Health(ctx context.Context, path string) (models.HealthStatus, error) {
	select {
	case <-time.After(f.delay[path]):
	case <-ctx.Done():
		return models.HealthStatus{}, ctx.Err()
	}
	if f.fail[path] {
		return models.HealthStatus{}, errors.New("down")
	}
	return models.HealthStatus{Status: "UP"}, nil
}

func TestCheckServicesOrderAndFailures(t *testing.T) {
	p := &fakeProber{
		fail:  map[string]bool{apiclient.HealthVoting: true},
		delay: map[string]time.Duration{apiclient.HealthAuth: 30 * time.Millisecond},
	}

	statuses := CheckServices(context.Background(), p, time.Second)
	if len(statuses) != 3 {
		t.Fatalf("Expected 3 statuses, got %d", len(statuses))
	}
	want := []struct {
		name   string
		status Status
	}{
		{"auth", StatusGood},
		{"voting", StatusError},
		{"database", StatusGood},
	}
	for i, w := range want {
		if statuses[i].Name != w.name || statuses[i].Status != w.status {
			t.Errorf("Slot %d: expected %s/%s, got %s/%s", i, w.name, w.status, statuses[i].Name, statuses[i].Status)
		}
	}
	if AllGood(statuses) {
		t.Error("Expected AllGood false")
	}
}

func TestCheckServicesTimeout(t *testing.T) {
	p := &fakeProber{delay: map[string]time.Duration{
		apiclient.HealthAuth:     time.Hour,
		apiclient.HealthVoting:   time.Hour,
		apiclient.HealthDatabase: time.Hour,
	}}

	start := time.Now()
	statuses := CheckServices(context.Background(), p, 50*time.Millisecond)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Expected probes to run concurrently and time out, took %v", elapsed)
	}
	for _, s := range statuses {
		if s.Status != StatusError || !errors.Is(s.Err, context.DeadlineExceeded) {
			t.Errorf("%s: expected timeout error, got %s (%v)", s.Name, s.Status, s.Err)
		}
	}
}

func TestCheckServicesAgainstServer(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	srv := httptest.NewServer(router.NewRouter(conn, testutil.GetTestConfig()))
	defer srv.Close()
	api := apiclient.New(srv.URL+"/api", nil)

	if statuses := CheckServices(context.Background(), api, 0); !AllGood(statuses) {
		t.Errorf("Expected all services up, got %+v", statuses)
	}

	conn.Close()
	statuses := CheckServices(context.Background(), api, 0)
	if statuses[0].Status != StatusGood || statuses[2].Status != StatusError {
		t.Errorf("Expected database down only, got %+v", statuses)
	}
	var apiErr *apiclient.Error
	if !errors.As(statuses[2].Err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 from the database probe, got %v", statuses[2].Err)
	}
}
