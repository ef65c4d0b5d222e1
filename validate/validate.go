// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PasswordMinLength is the length check of PasswordStrength
const PasswordMinLength = 8

// MaxSignupPhoneDigits caps the digits of a phone number at signup
const MaxSignupPhoneDigits = 10

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\+]?[(]?[\d\s\-\(\)]{10,}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[^\w\s]`)
)

// Email reports whether s looks like local@domain.tld.
// Deliberately loose; the server is the authority.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// MinPhoneDigits is the fewest digits Phone accepts
const MinPhoneDigits = 10

// Phone reports whether s is at least ten digits, optionally with a
// leading +, parentheses, dashes and spaces
func Phone(s string) bool {
	return phonePattern.MatchString(s) && Digits(s) >= MinPhoneDigits
}

// SignupPhone is Phone with at most MaxSignupPhoneDigits digits
func SignupPhone(s string) bool {
	return Phone(s) && Digits(s) <= MaxSignupPhoneDigits
}

// Digits counts the decimal digits in s
func Digits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Name reports whether s (trimmed) is at least two letters, spaces,
// apostrophes or hyphens
func Name(s string) bool {
	s = strings.TrimSpace(s)
	return utf8.RuneCountInString(s) >= 2 && namePattern.MatchString(s)
}

// Strength is the result of PasswordStrength
type Strength struct {
	Score   int      // 0..5, one point per satisfied check
	Level   string   // weak, fair, good, strong
	Label   string   // Very Weak, Weak, Fair, Good, Strong
	Missing []string // unsatisfied checks, in check order
}

// Feedback joins the missing checks for display
func (s Strength) Feedback() string {
	return strings.Join(s.Missing, ", ")
}

var strengthLevels = [6]struct{ level, label string }{
	{"weak", "Very Weak"},
	{"weak", "Weak"},
	{"fair", "Fair"},
	{"good", "Good"},
	{"good", "Good"},
	{"strong", "Strong"},
}

// PasswordStrength scores a password against five independent checks:
// length, lowercase, uppercase, digit and symbol
func PasswordStrength(password string) Strength {
	var st Strength
	check := func(ok bool, missing string) {
		if ok {
			st.Score++
		} else {
			st.Missing = append(st.Missing, missing)
		}
	}

	check(utf8.RuneCountInString(password) >= PasswordMinLength, "At least 8 characters")
	check(lowerPattern.MatchString(password), "Lowercase letter")
	check(upperPattern.MatchString(password), "Uppercase letter")
	check(digitPattern.MatchString(password), "Number")
	check(specialPattern.MatchString(password), "Special character")

	st.Level = strengthLevels[st.Score].level
	st.Label = strengthLevels[st.Score].label
	return st
}

// Acceptable is the system-wide password threshold
func Acceptable(score int) bool {
	return score >= 3
}
