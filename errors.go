package actions

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeTokenInvalid is the single outward code for every token
	// rejection: bad signature, malformed payload, expiry, operation or
	// subject mismatch. Callers never learn which check failed.
	TextCodeTokenInvalid = "TOKEN_INVALID"
	// TextCodeMissingField marks a validation call missing a required value
	TextCodeMissingField = "MISSING_REQUIRED_FIELD"
	// TextCodeEmailTaken marks an email-change conflict
	TextCodeEmailTaken = "EMAIL_TAKEN"
	// TextCodeMailQueueFull is the dispatcher backpressure code
	TextCodeMailQueueFull = "MAIL_QUEUE_FULL"
	// TextCodeEmptyPassword marks an empty password input
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
	// TextCodeInvalidCreds marks a failed password comparison
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
)

// ErrTokenInvalid is returned for any action token that fails verification.
// Expired, tampered, and mismatched tokens all collapse into this value so
// the error surface cannot be used as an oracle.
var ErrTokenInvalid = goerrors.New("action token is invalid or expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid)

// ErrMissingRequiredField is returned when a validation call lacks a value
// the operation needs, e.g. a reset without a new password or a change-email
// token without a proposed address.
var ErrMissingRequiredField = goerrors.New("required field is missing", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingField)

// ErrEmailTaken is returned when the proposed email already belongs to a
// different user at validation time.
var ErrEmailTaken = goerrors.New("email address is already in use", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrMailQueueFull is returned by Dispatcher.Dispatch when the bounded mail
// queue is at capacity.
var ErrMailQueueFull = goerrors.New("mail queue is full", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeMailQueueFull)

// ErrNoEmptyString is the error for empty password input
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is returned when a password does not match its hash
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// IsTokenInvalidError will check for the collapsed token rejection
func IsTokenInvalidError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenInvalid
	}
	return false
}

// IsConflictError will check for email ownership conflicts
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeEmailTaken
	}
	return false
}

// IsMissingFieldError will check for missing required input
func IsMissingFieldError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeMissingField
	}
	return false
}
