// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authflow

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/models"
	"github.com/VENUHARGI/OnlineVoting/router"
	"github.com/VENUHARGI/OnlineVoting/session"
	"github.com/VENUHARGI/OnlineVoting/testutil"
	"github.com/VENUHARGI/OnlineVoting/validate"
)

type fakeAPI struct {
	loginReply  apiclient.LoginReply
	loginErr    error
	signupResp  models.SignupResponse
	signupErr   error
	forgotErr   error
	resetErr    error
	resetToken  string
	exists      bool
	checkErr    error
	logoutCalls int
	calls       int
}

func (f *fakeAPI) Login(ctx context.Context, req models.LoginRequest) (apiclient.LoginReply, error) {
	f.calls++
	return f.loginReply, f.loginErr
}

func (f *fakeAPI) Signup(ctx context.Context, req models.SignupRequest) (models.SignupResponse, error) {
	f.calls++
	return f.signupResp, f.signupErr
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) (models.OTPIssued, error) {
	f.calls++
	return models.OTPIssued{Email: email, Purpose: models.PurposePasswordReset}, f.forgotErr
}

func (f *fakeAPI) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	f.calls++
	f.resetToken = resetToken
	return f.resetErr
}

func (f *fakeAPI) CheckEmail(ctx context.Context, email string) (bool, error) {
	f.calls++
	return f.exists, f.checkErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.logoutCalls++
	return nil
}

func rejection(code models.ErrorCode, msg string) error {
	return &apiclient.Error{Kind: apiclient.KindHTTPStatus, Status: 400, Code: code, Message: msg}
}

func newFlow(api API) (*Flow, *session.Store) {
	store := session.NewStore(session.NewMemoryStorage(), session.NewMemoryStorage())
	return New(api, store, nil), store
}

func validForm() validate.SignupForm {
	return validate.SignupForm{
		FirstName:       "Asha",
		LastName:        "Rao",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		Password:        testutil.TestPassword,
		ConfirmPassword: testutil.TestPassword,
		AcceptTerms:     true,
	}
}

func TestLoginRequiresOTP(t *testing.T) {
	api := &fakeAPI{loginReply: apiclient.LoginReply{
		LoginResponse: models.LoginResponse{RequiresOTP: true, Email: "a@b.com", UserID: 7},
	}}
	flow, store := newFlow(api)

	res, err := flow.Login(context.Background(), "a@b.com", "x", true)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !res.OTPRequired || res.UserID != 7 {
		t.Errorf("Expected OTP required for user 7, got %+v", res)
	}

	pending, err := store.Pending()
	if err != nil {
		t.Fatalf("Expected pending verification, got %v", err)
	}
	want := session.Pending{Purpose: models.PurposeLogin, Email: "a@b.com", UserID: 7, Remember: true}
	if pending != want {
		t.Errorf("Expected pending %+v, got %+v", want, pending)
	}
	if store.Token() != "" {
		t.Error("Expected no token before verification")
	}
}

func TestLoginDirectSession(t *testing.T) {
	api := &fakeAPI{loginReply: apiclient.LoginReply{
		LoginResponse: models.LoginResponse{Email: "a@b.com", UserID: 7, FirstName: "A", LastName: "B"},
		Token:         "tok",
	}}
	flow, store := newFlow(api)

	res, err := flow.Login(context.Background(), "a@b.com", "x", false)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.OTPRequired || res.Profile.FullName != "A B" {
		t.Errorf("Unexpected result %+v", res)
	}
	if store.Token() != "tok" || store.Remembered() {
		t.Errorf("Expected tab-scoped token, got %q remembered %v", store.Token(), store.Remembered())
	}
}

func TestLoginValidation(t *testing.T) {
	api := &fakeAPI{}
	flow, _ := newFlow(api)

	_, err := flow.Login(context.Background(), "not-an-email", "", false)
	var errs *validate.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("Expected form errors, got %v", err)
	}
	if !errs.Has(validate.FieldEmail) || !errs.Has(validate.FieldPassword) {
		t.Errorf("Expected email and password errors, got %v", errs)
	}
	if api.calls != 0 {
		t.Errorf("Expected no request for an invalid form, got %d", api.calls)
	}
}

func TestLoginRejections(t *testing.T) {
	t.Run("invalid credentials", func(t *testing.T) {
		flow, _ := newFlow(&fakeAPI{loginErr: rejection(models.CodeInvalidCredentials, "Invalid email or password")})
		_, err := flow.Login(context.Background(), "a@b.com", "x", false)
		var errs *validate.Errors
		if !errors.As(err, &errs) || errs.Get(validate.FieldPassword) != "Invalid email or password" {
			t.Errorf("Expected field errors, got %v", err)
		}
	})

	t.Run("locked", func(t *testing.T) {
		flow, _ := newFlow(&fakeAPI{loginErr: rejection(models.CodeAccountLocked, "Try again in 30 minute(s)")})
		_, err := flow.Login(context.Background(), "a@b.com", "x", false)
		if !errors.Is(err, ErrAccountLocked) {
			t.Errorf("Expected ErrAccountLocked, got %v", err)
		}
	})

	t.Run("not verified", func(t *testing.T) {
		flow, store := newFlow(&fakeAPI{loginErr: rejection(models.CodeAccountNotVerified, "Account not verified")})
		_, err := flow.Login(context.Background(), "a@b.com", "x", false)
		if !errors.Is(err, ErrNotVerified) {
			t.Errorf("Expected ErrNotVerified, got %v", err)
		}
		p, err := store.Pending()
		if err != nil || p.Purpose != models.PurposeSignup || p.Email != "a@b.com" {
			t.Errorf("Expected pending signup verification, got %+v (err %v)", p, err)
		}
	})

	t.Run("network", func(t *testing.T) {
		netErr := &apiclient.Error{Kind: apiclient.KindNetwork, Message: "Network error. Please check your connection."}
		flow, _ := newFlow(&fakeAPI{loginErr: netErr})
		_, err := flow.Login(context.Background(), "a@b.com", "x", false)
		if apiclient.KindOf(err) != apiclient.KindNetwork {
			t.Errorf("Expected network error passed through, got %v", err)
		}
	})
}

func TestSignup(t *testing.T) {
	api := &fakeAPI{signupResp: models.SignupResponse{UserID: 12, Email: "asha@example.com", OTPCode: "135790"}}
	flow, store := newFlow(api)

	res, err := flow.Signup(context.Background(), validForm())
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if res.UserID != 12 || res.DevOTP != "135790" {
		t.Errorf("Unexpected result %+v", res)
	}
	if p, _ := store.Pending(); p.Purpose != models.PurposeSignup || p.Email != "asha@example.com" {
		t.Errorf("Expected pending signup, got %+v", p)
	}
	if store.DevOTP() != "135790" {
		t.Errorf("Expected dev code cached, got %q", store.DevOTP())
	}
}

func TestSignupErrors(t *testing.T) {
	form := validForm()
	form.ConfirmPassword = "different"
	form.AcceptTerms = false
	api := &fakeAPI{}
	flow, _ := newFlow(api)

	_, err := flow.Signup(context.Background(), form)
	var errs *validate.Errors
	if !errors.As(err, &errs) || !errs.Has(validate.FieldConfirmPassword) || !errs.Has(validate.FieldTerms) {
		t.Errorf("Expected confirmation and terms errors, got %v", err)
	}
	if api.calls != 0 {
		t.Errorf("Expected no request, got %d", api.calls)
	}

	api.signupErr = rejection(models.CodeAlreadyExists, "An account with this email already exists")
	_, err = flow.Signup(context.Background(), validForm())
	if !errors.As(err, &errs) || errs.Get(validate.FieldEmail) != "An account with this email already exists" {
		t.Errorf("Expected server message on the email field, got %v", err)
	}

	api.signupErr = &apiclient.Error{
		Kind: apiclient.KindHTTPStatus, Status: 400, Code: models.CodeValidation,
		Message: "Validation failed", Fields: map[string]string{"phoneNumber": "Phone number must be 10 digits or fewer"},
	}
	_, err = flow.Signup(context.Background(), validForm())
	if !errors.As(err, &errs) || !errs.Has(validate.FieldPhone) {
		t.Errorf("Expected server field errors, got %v", err)
	}
}

func TestForgotPassword(t *testing.T) {
	api := &fakeAPI{}
	flow, store := newFlow(api)

	if _, err := flow.ForgotPassword(context.Background(), " voter@example.com "); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if p, _ := store.Pending(); p.Purpose != models.PurposePasswordReset || p.Email != "voter@example.com" {
		t.Errorf("Expected pending reset, got %+v", p)
	}

	api.forgotErr = rejection(models.CodeNotFound, "User not found")
	_, err := flow.ForgotPassword(context.Background(), "nobody@example.com")
	var errs *validate.Errors
	if !errors.As(err, &errs) || errs.Get(validate.FieldEmail) != "No account found with this email address" {
		t.Errorf("Expected not-found field error, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	api := &fakeAPI{}
	flow, store := newFlow(api)
	store.SetPending(session.Pending{Purpose: models.PurposePasswordReset, Email: "a@b.com"})

	if err := flow.ResetPassword(context.Background(), "", testutil.TestPassword, testutil.TestPassword); !errors.Is(err, ErrNoResetToken) {
		t.Errorf("Expected ErrNoResetToken, got %v", err)
	}
	if err := flow.ResetPassword(context.Background(), "rt", "weak", "weak"); err == nil {
		t.Error("Expected weak password rejected")
	}
	if err := flow.ResetPassword(context.Background(), "rt", testutil.TestPassword, testutil.TestPassword); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if api.resetToken != "rt" {
		t.Errorf("Expected reset token sent, got %q", api.resetToken)
	}
	if _, err := store.Pending(); err == nil {
		t.Error("Expected pending reset cleared")
	}

	api.resetErr = rejection(models.CodeUnauthorized, "Reset link expired")
	if err := flow.ResetPassword(context.Background(), "old", testutil.TestPassword, testutil.TestPassword); !errors.Is(err, ErrNoResetToken) {
		t.Errorf("Expected ErrNoResetToken for rejected token, got %v", err)
	}
}

// brokenStorage reads nothing and fails every write
type brokenStorage struct{}

func (brokenStorage) Get(string) (string, bool) { return "", false }
func (brokenStorage) Set(string, string) error { return errors.New("disk full") }
func (brokenStorage) Delete(string) error { return errors.New("disk full") }

func TestResetPasswordLogsStorageFailure(t *testing.T) {
	var logs bytes.Buffer
	store := session.NewStore(brokenStorage{}, brokenStorage{})
	flow := New(&fakeAPI{}, store, slog.New(slog.NewTextHandler(&logs, nil)))

	if err := flow.ResetPassword(context.Background(), "rt", testutil.TestPassword, testutil.TestPassword); err != nil {
		t.Fatalf("Expected reset to succeed despite storage errors, got %v", err)
	}
	if !strings.Contains(logs.String(), "failed to clear pending verification") {
		t.Errorf("Expected storage failure logged, got:\n%s", logs.String())
	}
}

func TestEmailTaken(t *testing.T) {
	api := &fakeAPI{exists: true}
	flow, _ := newFlow(api)

	if !flow.EmailTaken(context.Background(), "a@b.com") {
		t.Error("Expected email taken")
	}
	if flow.EmailTaken(context.Background(), "bad") {
		t.Error("Expected invalid email to report false")
	}
	api.checkErr = rejection(models.CodeInternal, "boom")
	if flow.EmailTaken(context.Background(), "a@b.com") {
		t.Error("Expected failed check to report false")
	}
}

func TestLogout(t *testing.T) {
	api := &fakeAPI{}
	flow, store := newFlow(api)
	store.SetToken("tok", true)
	store.SetProfile(models.UserProfile{UserID: 1}, true)

	if err := flow.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if api.logoutCalls != 1 {
		t.Errorf("Expected one logout request, got %d", api.logoutCalls)
	}
	if store.Token() != "" {
		t.Error("Expected token cleared")
	}
	if _, ok := store.Profile(); ok {
		t.Error("Expected profile cleared")
	}

	flow.Logout(context.Background())
	if api.logoutCalls != 1 {
		t.Errorf("Expected no request without a token, got %d", api.logoutCalls)
	}
}

func TestFlowAgainstServer(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	srv := httptest.NewServer(router.NewRouter(conn, testutil.GetTestConfig()))
	defer srv.Close()

	store := session.NewStore(session.NewMemoryStorage(), session.NewMemoryStorage())
	flow := New(apiclient.New(srv.URL+"/api", store), store, nil)
	ctx := context.Background()

	if _, err := flow.Signup(ctx, validForm()); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if !flow.EmailTaken(ctx, "asha@example.com") {
		t.Error("Expected new email to be taken")
	}

	_, err := flow.Login(ctx, "asha@example.com", testutil.TestPassword, false)
	if !errors.Is(err, ErrNotVerified) {
		t.Errorf("Expected ErrNotVerified before verification, got %v", err)
	}

	_, err = flow.Login(ctx, "asha@example.com", "Wrong#Pass1", false)
	var errs *validate.Errors
	if !errors.As(err, &errs) {
		t.Errorf("Expected credential field errors, got %v", err)
	}
}
