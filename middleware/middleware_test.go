// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/VENUHARGI/OnlineVoting/auth"
	"github.com/VENUHARGI/OnlineVoting/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"id":"123"}`},
		{"BadRequest", http.StatusBadRequest, `{"error":"bad request"}`},
		{"NotFound", http.StatusNotFound, "not found"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			req := httptest.NewRequest("POST", "/api/test", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()

	SuccessResponse(w, http.StatusCreated, "Vote cast", models.CastVoteResponse{TransactionID: "TX123"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("Expected Content-Type 'application/json'")
	}

	var env struct {
		Success   bool                    `json:"success"`
		Message   string                  `json:"message"`
		Data      models.CastVoteResponse `json:"data"`
		ErrorCode string                  `json:"errorCode"`
	}
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if !env.Success || env.Message != "Vote cast" || env.Data.TransactionID != "TX123" {
		t.Errorf("Unexpected envelope: %+v", env)
	}
	if env.ErrorCode != "" {
		t.Errorf("Expected no errorCode, got %q", env.ErrorCode)
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		code       models.ErrorCode
		message    string
	}{
		{"validation", http.StatusBadRequest, models.CodeValidation, "Email is required"},
		{"unauthorized", http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required"},
		{"not found", http.StatusNotFound, models.CodeNotFound, "Receipt not found"},
		{"already voted", http.StatusConflict, models.CodeAlreadyVoted, "You have already voted"},
		{"internal error", http.StatusInternalServerError, models.CodeInternal, "database error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.code, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			var resp models.RawEnvelope
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}

			if resp.Success {
				t.Error("Expected success=false")
			}
			if resp.ErrorCode != tc.code {
				t.Errorf("Expected code '%s', got '%s'", tc.code, resp.ErrorCode)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		body := `{"email":"voter@example.com","password":"secret"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Email != "voter@example.com" {
			t.Errorf("Expected email 'voter@example.com', got '%s'", parsed.Email)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		big := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(big))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for oversized body")
		}
	})
}

func TestCORS(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("handled"))
	})

	corsHandler := CORS(nextHandler)

	t.Run("preflight OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/voting/cast-vote", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() != "" {
			t.Errorf("Expected empty body for preflight, got '%s'", w.Body.String())
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8080" {
			t.Error("Expected Access-Control-Allow-Origin to match request origin")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
			t.Error("Expected Authorization in allowed headers")
		}
	})

	t.Run("request without origin defaults to wildcard", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/voting/constituencies", nil)
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected Access-Control-Allow-Origin to default to '*'")
		}
	})
}

func TestRequireAuth(t *testing.T) {
	const secret = "test-secret"
	valid, _, _ := auth.IssueToken(7, "a@b.com", secret, time.Hour)
	expired, _, _ := auth.IssueToken(7, "a@b.com", secret, -time.Minute)
	foreign, _, _ := auth.IssueToken(7, "a@b.com", "other-secret", time.Hour)
	reset, _, _ := auth.IssueScopedToken(7, "a@b.com", auth.ScopePasswordReset, secret, time.Hour)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"reset-scoped token", "Bearer " + reset, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			h := RequireAuth(secret, func(w http.ResponseWriter, r *http.Request) {
				claims, ok := ClaimsFromContext(r.Context())
				if !ok {
					t.Fatal("Expected claims in context")
				}
				gotID, _ = claims.UserID()
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/voting/receipt", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && gotID != 7 {
				t.Errorf("Expected user id 7 in claims, got %d", gotID)
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				var env models.RawEnvelope
				json.NewDecoder(w.Body).Decode(&env)
				if env.ErrorCode != models.CodeUnauthorized {
					t.Errorf("Expected UNAUTHORIZED code, got %q", env.ErrorCode)
				}
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{
			name:       "X-Forwarded-For chained IPs",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.100, 10.0.0.1, 172.16.0.1"},
			remoteAddr: "127.0.0.1:12345",
			expectedIP: "192.168.1.100",
		},
		{
			name:       "X-Real-IP takes precedence over RemoteAddr",
			headers:    map[string]string{"X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.100", "X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "192.168.1.100",
		},
		{
			name:       "RemoteAddr with port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.50:54321",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.50",
			expectedIP: "192.168.1.50",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if result := GetClientIP(req); result != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, result)
			}
		})
	}
}
