package service

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrBusy rejects a submission while another one is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNotPending rejects cancelling an order that has left Pending.
	ErrNotPending = errors.New("only pending orders can be cancelled")
	// ErrUnknownItem is returned for an ID the view has not loaded.
	ErrUnknownItem = errors.New("no such item in the current list")
	// ErrNotMounted is returned by actions on a view that is not mounted.
	ErrNotMounted = errors.New("view is not mounted")
)

// ValidationError blocks a submission before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

const (
	minPasswordLen  = 8
	passwordSymbols = "@$!%*?&#"
)

var passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&#]+$`)

// strongPassword enforces the signup rules: at least eight characters
// from letters, digits and @$!%*?&#, with an uppercase letter, a digit and
// one of those symbols.
func strongPassword(pw string) bool {
	return len(pw) >= minPasswordLen &&
		passwordCharset.MatchString(pw) &&
		strings.ContainsAny(pw, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
		strings.ContainsAny(pw, "0123456789") &&
		strings.ContainsAny(pw, passwordSymbols)
}
