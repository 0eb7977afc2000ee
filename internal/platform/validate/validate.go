// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Validation always runs before any network call — a payload that fails a
// rule here is never sent to the MES API. The rules mirror the backend's
// own validation so the user sees failures immediately, per field.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forgeline/console/internal/platform/apperr"
)

// # Format Rules

const (
	// PasswordMinLen and PasswordMaxLen bound the accepted password length.
	PasswordMinLen = 8
	PasswordMaxLen = 50

	// FactoryNameMinLen and FactoryNameMaxLen bound the factory name.
	FactoryNameMinLen = 2
	FactoryNameMaxLen = 100
)

var (
	// emailRegex matches a simple local@domain.tld shape. Deliberately loose:
	// the MES API performs the authoritative check.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// resetCodeRegex matches exactly six numeric digits.
	resetCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)

	// nameRegex matches Latin letters, combining marks, dashes, spaces,
	// and apostrophes — the character set accepted for person names.
	nameRegex = regexp.MustCompile(`^[\p{Latin}\p{M}\p{Pd}\p{Zs}'’]+$`)

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value does not match the local@domain.tld shape.
func (v *Validator) Email(field, value string) *Validator {
	if !emailRegex.MatchString(value) {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Password fails unless the value is 8–50 characters and contains at least
// one uppercase letter, one lowercase letter, and one digit.
func (v *Validator) Password(field, value string) *Validator {
	length := utf8.RuneCountInString(value)
	if length < PasswordMinLen || length > PasswordMaxLen {
		v.add(field, fmt.Sprintf("Must be between %d and %d characters", PasswordMinLen, PasswordMaxLen))
		return v
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		v.add(field, "Must contain an uppercase letter, a lowercase letter, and a number")
	}
	return v
}

// ResetCode fails unless the value is exactly six numeric digits.
func (v *Validator) ResetCode(field, value string) *Validator {
	if !resetCodeRegex.MatchString(value) {
		v.add(field, "Must be exactly 6 digits")
	}
	return v
}

// PersonName fails if the value contains characters outside the accepted
// name set (Latin letters, marks, apostrophes, hyphens, spaces).
func (v *Validator) PersonName(field, value string) *Validator {
	if !nameRegex.MatchString(value) {
		v.add(field, "May only contain letters, apostrophes, hyphens, and spaces")
	}
	return v
}

// FactoryName fails unless the value is 2–100 characters long.
func (v *Validator) FactoryName(field, value string) *Validator {
	return v.MinLen(field, value, FactoryNameMinLen).MaxLen(field, value, FactoryNameMaxLen)
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("code", code == "", "Enter the code from your email")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// NormalizeEmail lowercases and trims an email before it is sent upstream.
// Login and signup both apply this so the same mailbox never creates two
// distinct identities by casing alone.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
