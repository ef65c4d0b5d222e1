// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"strings"

	"github.com/VENUHARGI/OnlineVoting/models"
)

// Field names used in form errors
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPhone           = "phoneNumber"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldTerms           = "terms"
)

// SignupForm is the signup page as entered by the voter
type SignupForm struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// Request returns the API request for the form
func (f SignupForm) Request() models.SignupRequest {
	return models.SignupRequest{
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Email:       strings.TrimSpace(f.Email),
		PhoneNumber: strings.TrimSpace(f.Phone),
		Password:    f.Password,
	}
}

// Login checks the sign-in form
func Login(email, password string) error {
	errs := &Errors{}
	checkEmail(errs, email)
	if password == "" {
		errs.Add(FieldPassword, "Password is required")
	}
	return errs.Err()
}

// ForgotPassword checks the reset request form
func ForgotPassword(email string) error {
	errs := &Errors{}
	checkEmail(errs, email)
	return errs.Err()
}

// Signup checks the full signup page, including confirmation and terms
func Signup(f SignupForm) error {
	errs := signupFields(f.Request())
	if f.ConfirmPassword == "" {
		errs.Add(FieldConfirmPassword, "Please confirm your password")
	} else if f.ConfirmPassword != f.Password {
		errs.Add(FieldConfirmPassword, "Passwords do not match")
	}
	if !f.AcceptTerms {
		errs.Add(FieldTerms, "You must accept the terms and conditions")
	}
	return errs.Err()
}

// SignupRequest checks the fields the API receives
func SignupRequest(req models.SignupRequest) error {
	return signupFields(req).Err()
}

// NewPassword checks a replacement password and its confirmation
func NewPassword(password, confirm string) error {
	errs := &Errors{}
	checkPassword(errs, password)
	if confirm != password {
		errs.Add(FieldConfirmPassword, "Passwords do not match")
	}
	return errs.Err()
}

// Field is a named form value for Required
type Field struct {
	Name  string
	Value string
}

// Required flags every blank field
func Required(fields ...Field) error {
	errs := &Errors{}
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			errs.Add(f.Name, "This field is required")
		}
	}
	return errs.Err()
}

func signupFields(req models.SignupRequest) *Errors {
	errs := &Errors{}
	checkName(errs, FieldFirstName, "First name", req.FirstName)
	checkName(errs, FieldLastName, "Last name", req.LastName)
	checkEmail(errs, req.Email)

	// Optional, but must be valid if provided
	if phone := strings.TrimSpace(req.PhoneNumber); phone != "" {
		if Digits(phone) > MaxSignupPhoneDigits {
			errs.Add(FieldPhone, "Phone number cannot have more than 10 digits")
		} else if !Phone(phone) {
			errs.Add(FieldPhone, "Please enter a valid phone number")
		}
	}

	checkPassword(errs, req.Password)
	return errs
}

func checkName(errs *Errors, field, label, value string) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		errs.Add(field, label+" is required")
	case len([]rune(value)) < 2:
		errs.Add(field, label+" must be at least 2 characters")
	case !Name(value):
		errs.Add(field, label+" contains invalid characters")
	}
}

func checkEmail(errs *Errors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add(FieldEmail, "Email is required")
	} else if !Email(email) {
		errs.Add(FieldEmail, "Please enter a valid email address")
	}
}

func checkPassword(errs *Errors, password string) {
	if password == "" {
		errs.Add(FieldPassword, "Password is required")
		return
	}
	if st := PasswordStrength(password); !Acceptable(st.Score) {
		errs.Add(FieldPassword, "Password is too weak. Missing: "+st.Feedback())
	}
}
