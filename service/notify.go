package service

import "time"

// Routes a screen can send the user to.
const (
	RouteLogin  = "/login"
	RouteSignup = "/signup"
	RouteHome   = "/home"
)

// Delays before the redirect that follows a successful auth action.
const (
	LoginRedirectDelay   = time.Second
	SignupRedirectDelay  = 2 * time.Second
	ProfileRedirectDelay = 1500 * time.Millisecond
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a dismissible message shown after an action.
type Notification struct {
	Kind    Kind
	Message string
}

func success(msg string) *Notification { return &Notification{Kind: KindSuccess, Message: msg} }
func failure(msg string) *Notification { return &Notification{Kind: KindError, Message: msg} }

// Redirect asks the host to navigate to To once After has elapsed.
type Redirect struct {
	To    string
	After time.Duration
}

// Outcome is what a one-shot action (login, signup, ...) leaves behind.
type Outcome struct {
	Notification *Notification
	Redirect     *Redirect
}
