package service

import (
	"errors"
	"sync"

	"ims-client/model"
)

// ErrUnauthenticated means the screen needs a session and has none; the
// caller should follow the pending redirect to the login route.
var ErrUnauthenticated = errors.New("sign in required")

// Guard keeps a screen behind the login. Enter checks the session before
// anything is fetched and then watches it, so a logout elsewhere sends the
// screen to the login route as well.
type Guard struct {
	sessions Sessions
	onLost   func()

	mu       sync.Mutex
	redirect *Redirect
	unsub    func()
}

// NewGuard returns a guard over sessions. onLost, if set, runs when the
// session goes away while the screen is entered.
func NewGuard(sessions Sessions, onLost func()) *Guard {
	return &Guard{sessions: sessions, onLost: onLost}
}

func (g *Guard) Enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.sessions.Current().Valid() {
		g.redirect = &Redirect{To: RouteLogin}
		return ErrUnauthenticated
	}
	g.redirect = nil
	if g.unsub == nil {
		g.unsub = g.sessions.Subscribe(g.sessionChanged)
	}
	return nil
}

func (g *Guard) sessionChanged(s *model.Session) {
	if s.Valid() {
		return
	}
	g.mu.Lock()
	g.redirect = &Redirect{To: RouteLogin}
	onLost := g.onLost
	g.mu.Unlock()

	if onLost != nil {
		onLost()
	}
}

func (g *Guard) toLogin() {
	g.mu.Lock()
	g.redirect = &Redirect{To: RouteLogin}
	g.mu.Unlock()
}

// Leave stops watching the session.
func (g *Guard) Leave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unsub != nil {
		g.unsub()
		g.unsub = nil
	}
}

// Redirect returns the pending redirect, or nil.
func (g *Guard) Redirect() *Redirect {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.redirect == nil {
		return nil
	}
	r := *g.redirect
	return &r
}

// Allowed reports whether the session is present right now.
func (g *Guard) Allowed() bool {
	return g.sessions.Current().Valid()
}
