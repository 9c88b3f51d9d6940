package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"ims-client/client"
	"ims-client/model"
)

// DefaultAvatar is the profile image given to a fresh login.
const DefaultAvatar = "/Naruto.jpg"

// AuthView covers the login, signup, profile and logout screens. Each
// action returns an Outcome for the host to render, along with the error
// that caused a failure.
type AuthView struct {
	api      client.AuthAPI
	sessions Sessions
	avatar   string
	logger   *log.Logger
	busy     atomic.Bool
}

func NewAuthView(api client.AuthAPI, sessions Sessions, avatar string, logger *log.Logger) *AuthView {
	if avatar == "" {
		avatar = DefaultAvatar
	}
	if logger == nil {
		logger = log.Default()
	}
	return &AuthView{api: api, sessions: sessions, avatar: avatar, logger: logger}
}

func rejected(err *ValidationError) (*Outcome, error) {
	return &Outcome{Notification: failure(err.Message)}, err
}

var errEmptyToken = errors.New("login response carried no token")

// Login signs in. On success the session is stored and the user is sent
// home after LoginRedirectDelay; on failure nothing is stored.
func (a *AuthView) Login(ctx context.Context, username, password string) (*Outcome, error) {
	if len(password) < minPasswordLen {
		return rejected(invalid("password", "Password must be at least 8 characters long."))
	}
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.busy.Store(false)

	resp, err := a.api.Login(ctx, model.LoginRequest{Username: username, Password: password})
	if err == nil && resp.Token == "" {
		err = errEmptyToken
	}
	if err != nil {
		a.logger.Printf("auth: login %q: %v", username, err)
		return &Outcome{Notification: failure(client.Message(err, "Login failed. Check your credentials."))}, err
	}

	sess := &model.Session{
		Username:     resp.Username,
		Email:        resp.Email,
		ProfileImage: a.avatar,
		Token:        resp.Token,
	}
	if sess.Username == "" {
		sess.Username = username
	}
	if err := a.sessions.Set(ctx, sess); err != nil {
		a.logger.Printf("auth: store session: %v", err)
		return &Outcome{Notification: failure("Login failed. Could not save your session.")}, err
	}
	return &Outcome{
		Notification: success("Login successful!"),
		Redirect:     &Redirect{To: RouteHome, After: LoginRedirectDelay},
	}, nil
}

// SignupForm is the registration form.
type SignupForm struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

// Signup registers an account and sends the user to the login screen
// after SignupRedirectDelay. It does not sign in.
func (a *AuthView) Signup(ctx context.Context, f SignupForm) (*Outcome, error) {
	if !strongPassword(f.Password) {
		return rejected(invalid("password",
			"Password must be at least 8 characters, contain a number, uppercase letter, and symbol."))
	}
	if f.Password != f.Confirm {
		return rejected(invalid("confirm", "Passwords do not match! Please try again."))
	}
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.busy.Store(false)

	msg, err := a.api.Register(ctx, model.RegisterRequest{
		Username: strings.TrimSpace(f.Username),
		EmailID:  strings.TrimSpace(f.Email),
		Password: f.Password,
	})
	if err != nil {
		a.logger.Printf("auth: signup %q: %v", f.Username, err)
		return &Outcome{Notification: failure(client.Message(err, "Signup failed!"))}, err
	}
	if msg == "" {
		msg = "Signup successful!"
	}
	return &Outcome{
		Notification: success(msg),
		Redirect:     &Redirect{To: RouteLogin, After: SignupRedirectDelay},
	}, nil
}

// ProfileForm is the profile editor. The password fields are optional;
// filling either of NewPassword or Confirm asks for a password change.
type ProfileForm struct {
	Username        string
	Email           string
	CurrentPassword string
	NewPassword     string
	Confirm         string
}

// ProfileForm returns the editor pre-filled from the session.
func (a *AuthView) ProfileForm() ProfileForm {
	s := a.sessions.Current()
	if s == nil {
		return ProfileForm{}
	}
	return ProfileForm{Username: s.Username, Email: s.Email}
}

// UpdateProfile saves username and email, and the password when one is
// being changed. The token is kept.
func (a *AuthView) UpdateProfile(ctx context.Context, f ProfileForm) (*Outcome, error) {
	changing := f.NewPassword != "" || f.Confirm != ""
	if changing {
		switch {
		case f.NewPassword != f.Confirm:
			return rejected(invalid("confirm", "New passwords do not match! Please try again."))
		case len(f.NewPassword) < minPasswordLen:
			return rejected(invalid("newPassword", "New password must be at least 8 characters long."))
		case f.CurrentPassword == "":
			return rejected(invalid("currentPassword", "Current password is required to change your password."))
		}
	}

	cur := a.sessions.Current()
	if !cur.Valid() {
		return &Outcome{
			Notification: failure("Authentication token not found. Please log in."),
			Redirect:     &Redirect{To: RouteLogin},
		}, client.ErrNoSession
	}
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.busy.Store(false)

	upd := model.ProfileUpdate{Username: f.Username, Email: f.Email}
	if changing {
		upd.CurrentPassword = f.CurrentPassword
		upd.NewPassword = f.NewPassword
	}
	msg, err := a.api.UpdateProfile(ctx, upd)
	if err != nil {
		a.logger.Printf("auth: update profile: %v", err)
		return &Outcome{Notification: failure(client.Message(err, "Failed to update profile. Please try again."))}, err
	}

	cur.Username, cur.Email = f.Username, f.Email
	if err := a.sessions.Set(ctx, cur); err != nil {
		a.logger.Printf("auth: store session: %v", err)
	}
	if msg == "" {
		msg = "Profile updated successfully!"
	}
	return &Outcome{
		Notification: success(msg),
		Redirect:     &Redirect{To: RouteHome, After: ProfileRedirectDelay},
	}, nil
}

// SetAvatar replaces the profile image reference and persists it.
func (a *AuthView) SetAvatar(ctx context.Context, ref string) error {
	cur := a.sessions.Current()
	if !cur.Valid() {
		return client.ErrNoSession
	}
	cur.ProfileImage = ref
	return a.sessions.Set(ctx, cur)
}

// Logout clears the session and sends the user to the login screen.
func (a *AuthView) Logout(ctx context.Context) (*Outcome, error) {
	out := &Outcome{Redirect: &Redirect{To: RouteLogin}}
	if err := a.sessions.Clear(ctx); err != nil {
		a.logger.Printf("auth: logout: %v", err)
		return out, err
	}
	out.Notification = success("Logged out.")
	return out, nil
}
