// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/VENUHARGI/OnlineVoting/models"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"first.last+tag@sub.example.org", true},
		{"a@b", false},
		{"@b.com", false},
		{"a b@c.com", false},
		{"a@@b.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Email(tt.in); got != tt.want {
			t.Errorf("Email(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in         string
		phone      bool
		signupOkay bool
	}{
		{"5551234567", true, true},
		{"+1 (555) 123-4567", true, false}, // 11 digits
		{"(555) 123-4567", true, true},
		{"555-1234", false, false},
		{"12345678901", true, false},
		{"phone12345678", false, false},
		{"----------", false, false},
		{"(((((((((((", false, false},
		{"(123) 456-78", false, false},
		{"1 2 3 4 5 6", false, false},
		{"1 2 3 4 5 6 7 8 9 0", true, true},
	}
	for _, tt := range tests {
		if got := Phone(tt.in); got != tt.phone {
			t.Errorf("Phone(%q) = %v, want %v", tt.in, got, tt.phone)
		}
		if got := SignupPhone(tt.in); got != tt.signupOkay {
			t.Errorf("SignupPhone(%q) = %v, want %v", tt.in, got, tt.signupOkay)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Jo", true},
		{"Mary-Jane O'Neil", true},
		{"  Al  ", true},
		{"J", false},
		{"R2D2", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		score    int
		level    string
		label    string
		missing  []string
	}{
		{"", 0, "weak", "Very Weak", []string{"At least 8 characters", "Lowercase letter", "Uppercase letter", "Number", "Special character"}},
		{"abc", 1, "weak", "Weak", []string{"At least 8 characters", "Uppercase letter", "Number", "Special character"}},
		{"abcdefgh", 2, "fair", "Fair", []string{"Uppercase letter", "Number", "Special character"}},
		{"Abcdefgh", 3, "good", "Good", []string{"Number", "Special character"}},
		{"Abcdefg1", 4, "good", "Good", []string{"Special character"}},
		{"Abcdef1!", 5, "strong", "Strong", nil},
		{"under_score", 2, "fair", "Fair", []string{"Uppercase letter", "Number", "Special character"}},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			st := PasswordStrength(tt.password)
			if st.Score != tt.score || st.Level != tt.level || st.Label != tt.label {
				t.Errorf("PasswordStrength(%q) = %d/%s/%s, want %d/%s/%s",
					tt.password, st.Score, st.Level, st.Label, tt.score, tt.level, tt.label)
			}
			if !reflect.DeepEqual(st.Missing, tt.missing) {
				t.Errorf("Missing = %v, want %v", st.Missing, tt.missing)
			}
		})
	}
}

func TestAcceptable(t *testing.T) {
	for score := 0; score <= 5; score++ {
		if got := Acceptable(score); got != (score >= 3) {
			t.Errorf("Acceptable(%d) = %v", score, got)
		}
	}
}

func TestLogin(t *testing.T) {
	if err := Login("a@b.com", "x"); err != nil {
		t.Errorf("Expected valid login form, got %v", err)
	}

	err := Login("not-an-email", "")
	var errs *Errors
	if !errors.As(err, &errs) {
		t.Fatalf("Expected *Errors, got %T", err)
	}
	if errs.Get(FieldEmail) != "Please enter a valid email address" {
		t.Errorf("Unexpected email message %q", errs.Get(FieldEmail))
	}
	if !errs.Has(FieldPassword) {
		t.Error("Expected password error")
	}
	if !reflect.DeepEqual(errs.Fields(), []string{FieldEmail, FieldPassword}) {
		t.Errorf("Expected field order email, password; got %v", errs.Fields())
	}
}

func TestSignup(t *testing.T) {
	valid := SignupForm{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Phone:           "5551234567",
		Password:        "Analyt1cal!",
		ConfirmPassword: "Analyt1cal!",
		AcceptTerms:     true,
	}

	tests := []struct {
		name    string
		mutate  func(f *SignupForm)
		field   string
		message string
	}{
		{"short first name", func(f *SignupForm) { f.FirstName = "A" }, FieldFirstName, "First name must be at least 2 characters"},
		{"bad last name", func(f *SignupForm) { f.LastName = "L0velace" }, FieldLastName, "Last name contains invalid characters"},
		{"missing email", func(f *SignupForm) { f.Email = " " }, FieldEmail, "Email is required"},
		{"long phone", func(f *SignupForm) { f.Phone = "+1 555 123 4567" }, FieldPhone, "Phone number cannot have more than 10 digits"},
		{"short phone", func(f *SignupForm) { f.Phone = "12345" }, FieldPhone, "Please enter a valid phone number"},
		{"weak password", func(f *SignupForm) { f.Password, f.ConfirmPassword = "abcdefgh", "abcdefgh" }, FieldPassword, "Password is too weak. Missing: Uppercase letter, Number, Special character"},
		{"mismatch", func(f *SignupForm) { f.ConfirmPassword = "other" }, FieldConfirmPassword, "Passwords do not match"},
		{"no confirmation", func(f *SignupForm) { f.ConfirmPassword = "" }, FieldConfirmPassword, "Please confirm your password"},
		{"terms", func(f *SignupForm) { f.AcceptTerms = false }, FieldTerms, "You must accept the terms and conditions"},
	}

	if err := Signup(valid); err != nil {
		t.Fatalf("Expected valid form, got %v", err)
	}
	noPhone := valid
	noPhone.Phone = ""
	if err := Signup(noPhone); err != nil {
		t.Errorf("Phone is optional, got %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			var errs *Errors
			if !errors.As(Signup(f), &errs) {
				t.Fatal("Expected *Errors")
			}
			if got := errs.Get(tt.field); got != tt.message {
				t.Errorf("Expected %s error %q, got %q (all: %v)", tt.field, tt.message, got, errs)
			}
		})
	}
}

func TestSignupRequest_IgnoresConfirmation(t *testing.T) {
	req := models.SignupRequest{FirstName: "Ada", LastName: "Byron", Email: "ada@example.com", Password: "Analyt1cal!"}
	if err := SignupRequest(req); err != nil {
		t.Errorf("Expected valid request, got %v", err)
	}
}

func TestRequired(t *testing.T) {
	err := Required(Field{"a", "x"}, Field{"b", "  "}, Field{"c", ""})
	var errs *Errors
	if !errors.As(err, &errs) {
		t.Fatal("Expected *Errors")
	}
	if !reflect.DeepEqual(errs.Fields(), []string{"b", "c"}) {
		t.Errorf("Expected b, c to fail; got %v", errs.Fields())
	}
	if errs.First() != "This field is required" {
		t.Errorf("Unexpected message %q", errs.First())
	}
	if Required(Field{"a", "x"}) != nil {
		t.Error("Expected nil for filled fields")
	}
}

func TestErrors_FirstMessageWins(t *testing.T) {
	errs := &Errors{}
	errs.Add("email", "first")
	errs.Add("email", "second")
	if errs.Get("email") != "first" || errs.Len() != 1 {
		t.Errorf("Expected single first message, got %v", errs)
	}
	var empty *Errors
	if empty.Err() != nil {
		t.Error("Expected nil error from nil *Errors")
	}
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		fields []string
	}{
		{"valid vote", models.CastVoteRequest{UserID: 1, ConstituencyID: 3, CandidateID: 11, PartyID: 2}, nil},
		{"zero ids", models.CastVoteRequest{UserID: 1}, []string{"constituencyId", "candidateId", "partyId"}},
		{"short code", models.VerifyOTPRequest{Email: "a@b.com", OTPCode: "123"}, []string{"otpCode"}},
		{"letters in code", models.VerifyOTPRequest{Email: "a@b.com", OTPCode: "12a456"}, []string{"otpCode"}},
		{"unknown purpose", models.ResendOTPRequest{Email: "a@b.com", Purpose: "VOTE"}, []string{"purpose"}},
		{"empty login", models.LoginRequest{}, []string{"email", "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.fields == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			var errs *Errors
			if !errors.As(err, &errs) {
				t.Fatalf("Expected *Errors, got %v", err)
			}
			if !reflect.DeepEqual(errs.Fields(), tt.fields) {
				t.Errorf("Expected fields %v, got %v", tt.fields, errs.Fields())
			}
		})
	}
}
