// Package session holds the signed-in user and bearer token, and persists
// them through a store.Store so a restart does not require a new login.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"ims-client/model"
	"ims-client/store"
)

// Keys the session is persisted under.
const (
	TokenKey   = "userToken"
	ProfileKey = "userData"
)

// ErrEmptyToken is returned by Set for a session without a token.
var ErrEmptyToken = errors.New("session token is empty")

// Store is the single owner of the current session. Reads are cheap and
// concurrent; writes happen on login, profile edit and logout.
type Store struct {
	backend store.Store
	logger  *log.Logger

	mu      sync.RWMutex
	current *model.Session
	subs    map[int]func(*model.Session)
	nextSub int
}

func New(backend store.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{backend: backend, logger: logger, subs: map[int]func(*model.Session){}}
}

// Load restores the persisted session, if both keys are present and
// readable. A half-written session is discarded.
func (s *Store) Load(ctx context.Context) (*model.Session, error) {
	token, err := s.backend.Get(ctx, TokenKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	raw, err := s.backend.Get(ctx, ProfileKey)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Printf("session: token without profile, ignoring")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.logger.Printf("session: unreadable profile: %v", err)
		return nil, nil
	}
	sess.Token = token
	if !sess.Valid() {
		return nil, nil
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	s.notify(&sess)
	return s.Current(), nil
}

// Current returns a copy of the session, or nil when signed out.
func (s *Store) Current() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Set persists sess and makes it current. Nothing changes if persisting
// fails.
func (s *Store) Set(ctx context.Context, sess *model.Session) error {
	if !sess.Valid() {
		return ErrEmptyToken
	}
	profile, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	err = s.backend.SetAll(ctx, map[string]string{
		TokenKey:   sess.Token,
		ProfileKey: string(profile),
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	cp := *sess
	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()
	s.notify(&cp)
	return nil
}

// Clear signs out. The in-memory session is dropped even when removing
// the persisted keys fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify(nil)

	if err := s.backend.Delete(ctx, TokenKey, ProfileKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Subscribe registers fn to be called with the new session (nil on
// sign-out) after every change. The returned func unregisters it.
func (s *Store) Subscribe(fn func(*model.Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(sess *model.Session) {
	s.mu.RLock()
	fns := make([]func(*model.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		if sess == nil {
			fn(nil)
			continue
		}
		cp := *sess
		fn(&cp)
	}
}
