// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VENUHARGI/OnlineVoting/router"
	"github.com/VENUHARGI/OnlineVoting/testutil"
)

func setupCLI(t *testing.T) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	srv := httptest.NewServer(router.NewRouter(conn, testutil.GetTestConfig()))
	t.Cleanup(func() {
		srv.Close()
		conn.Close()
	})

	t.Setenv("BALLOT_API_URL", srv.URL+"/api")
	t.Setenv("BALLOT_STATE_DIR", t.TempDir())
	t.Setenv("BALLOT_LOG_LEVEL", "error")
}

func runCLI(t *testing.T, input string, args ...string) (int, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(input), &stdout, &stderr)
	if stderr.Len() > 0 {
		t.Logf("stderr: %s", stderr.String())
	}
	return code, stdout.String()
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("Expected output to contain %q, got:\n%s", w, out)
		}
	}
}

func TestUsage(t *testing.T) {
	setupCLI(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no args", nil, 0},
		{"help", []string{"help"}, 0},
		{"unknown command", []string{"frobnicate"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := runCLI(t, "", tt.args...)
			if code != tt.code {
				t.Errorf("Expected exit code %d, got %d", tt.code, code)
			}
		})
	}
}

func TestVoterSession(t *testing.T) {
	setupCLI(t)
	password := testutil.TestPassword

	signup := strings.Join([]string{"Ada", "Lovelace", "ada@example.com", "", password, password, "y", "d", ""}, "\n")
	code, out := runCLI(t, signup, "signup")
	if code != 0 {
		t.Fatalf("Expected signup to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "Account created", "Development code:", "verified successfully")

	code, out = runCLI(t, "ada@example.com\n"+password+"\nd\n", "login")
	if code != 0 {
		t.Fatalf("Expected login to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "sign-in code was sent", "Login verified successfully!")

	code, out = runCLI(t, "", "status")
	if code != 0 {
		t.Fatalf("Expected status to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "Signed in as Ada Lovelace <ada@example.com> (this terminal)", "Voted: false")

	code, out = runCLI(t, "north\n1\nreed\n1\ny\n", "vote")
	if code != 0 {
		t.Fatalf("Expected vote to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out,
		"Step 1 of 3",
		"Northfield, Highland District (128,750 voters)",
		"Thomas Reed, National Unity Front (Tree)",
		"Your vote has been recorded.",
		"Transaction ID:",
		"Status: Confirmed & Recorded",
	)

	code, out = runCLI(t, "", "vote")
	if code != 0 {
		t.Fatalf("Expected second vote to exit cleanly, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "You have already cast your vote.", "Northfield")

	dir := t.TempDir()
	code, out = runCLI(t, "", "receipt", "--save", dir)
	if code != 0 {
		t.Fatalf("Expected receipt to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "Receipt saved to")
	files, _ := filepath.Glob(filepath.Join(dir, "vote-receipt-*.txt"))
	if len(files) != 1 {
		t.Fatalf("Expected one saved receipt, got %v", files)
	}
	saved, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("Failed to read saved receipt: %v", err)
	}
	expectOutput(t, string(saved), "Thomas Reed (National Unity Front)")

	code, out = runCLI(t, "", "results", "3")
	if code != 0 {
		t.Fatalf("Expected results to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "Northfield: 1 vote(s)", "1. Thomas Reed, National Unity Front: 1")

	code, out = runCLI(t, "", "logout")
	if code != 0 {
		t.Fatalf("Expected logout to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "Signed out.")

	code, out = runCLI(t, "", "vote")
	if code != 1 {
		t.Errorf("Expected exit code 1 after logout, got %d", code)
	}
	expectOutput(t, out, "Run 'ballot login' to sign in.")
}

func TestVoteNavigation(t *testing.T) {
	setupCLI(t)

	password := testutil.TestPassword
	runCLI(t, strings.Join([]string{"Grace", "Hopper", "grace@example.com", "", password, password, "y", "d", ""}, "\n"), "signup")
	if code, out := runCLI(t, "grace@example.com\n"+password+"\nd\n", "login"); code != 0 {
		t.Fatalf("Expected login to succeed, got exit code %d:\n%s", code, out)
	}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "quit from constituencies",
			input: "q\n",
			want:  []string{"No vote was cast."},
		},
		{
			name:  "no match keeps the full list",
			input: "zzz\nq\n",
			want:  []string{`No constituency matches "zzz".`, "No vote was cast."},
		},
		{
			name:  "back from candidates",
			input: "1\nb\nq\n",
			want:  []string{"Step 2 of 3", "No vote was cast."},
		},
		{
			name:  "back from confirmation",
			input: "1\n1\nb\nq\n",
			want:  []string{"Step 3 of 3", "Cast this vote?", "No vote was cast."},
		},
		{
			name:  "unanswered confirmation",
			input: "1\n1\nmaybe\nq\n",
			want:  []string{"Please confirm your vote", "No vote was cast."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := runCLI(t, tt.input, "vote")
			if code != 0 {
				t.Fatalf("Expected exit code 0, got %d:\n%s", code, out)
			}
			expectOutput(t, out, tt.want...)
		})
	}
}

func TestDoctor(t *testing.T) {
	setupCLI(t)

	code, out := runCLI(t, "", "doctor")
	if code != 0 {
		t.Fatalf("Expected doctor to succeed, got exit code %d:\n%s", code, out)
	}
	expectOutput(t, out, "Authentication Service", "Voting Service", "Database Service", "All services are up.")
}

func TestDoctorServiceDown(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	srv := httptest.NewServer(router.NewRouter(conn, testutil.GetTestConfig()))
	t.Cleanup(srv.Close)
	conn.Close()

	t.Setenv("BALLOT_API_URL", srv.URL+"/api")
	t.Setenv("BALLOT_STATE_DIR", t.TempDir())
	t.Setenv("BALLOT_LOG_LEVEL", "error")

	code, out := runCLI(t, "", "doctor")
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	expectOutput(t, out, "Database Service", "error")
}

func TestVerifyWithoutPending(t *testing.T) {
	setupCLI(t)

	code, out := runCLI(t, "", "verify", "--purpose", "login")
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "pass --email") {
		t.Errorf("Expected a hint to pass --email, got:\n%s", out)
	}
}
