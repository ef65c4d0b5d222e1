// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validate holds the form checks shared by the voter client and the
API server.

# Field Checks

	validate.Email("a@b.com")            // local@domain.tld
	validate.Phone("(555) 123-4567")     // ten or more digits/punctuation
	validate.SignupPhone("5551234567")   // and at most ten digits
	validate.Name("Mary-Jane")           // two or more letters, ' and -

# Password Strength

PasswordStrength awards one point per check (length ≥ 8, lowercase,
uppercase, digit, symbol):

	score  level   label
	0      weak    Very Weak
	1      weak    Weak
	2      fair    Fair
	3      good    Good
	4      good    Good
	5      strong  Strong

Acceptable(score) is the submission threshold (score ≥ 3).

# Forms

Login, ForgotPassword, Signup, NewPassword and Required return nil or an
*Errors holding one message per field in the order fields failed:

	if err := validate.Signup(form); err != nil {
		var errs *validate.Errors
		errors.As(err, &errs)
		errs.Get(validate.FieldEmail)
	}

# Request Structs

Struct applies go-playground/validator `validate` tags on API request
types and reports failures by JSON field name:

	if err := validate.Struct(req); err != nil { ... }
*/
package validate
