package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrijs2005/elite/internal/client/api"
	"github.com/dmitrijs2005/elite/internal/client/models"
	"github.com/dmitrijs2005/elite/internal/client/store"
	"github.com/dmitrijs2005/elite/internal/logging"
)

var (
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoAccessToken    = errors.New("login response has no access token")
)

// Pipeline is the part of *api.Client the session needs.
type Pipeline interface {
	Do(ctx context.Context, r api.Request, out any) error
	OnInvalidate(fn api.InvalidationListener) (cancel func())
}

type Store struct {
	repo     store.Repository
	pipeline Pipeline
	logger   logging.Logger

	mu    sync.RWMutex
	state State

	subsMu  sync.Mutex
	subs    map[uint64]func(State)
	nextSub uint64

	unsubscribe func()
}

// New builds an UNINITIALIZED store and subscribes it to the pipeline's
// invalidation event. Close releases the subscription.
func New(repo store.Repository, pipeline Pipeline, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		repo:     repo,
		pipeline: pipeline,
		logger:   logger,
		state:    State{Status: StatusUninitialized},
		subs:     make(map[uint64]func(State)),
	}
	s.unsubscribe = pipeline.OnInvalidate(s.onInvalidate)
	return s
}

func (s *Store) Close() {
	s.unsubscribe()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe calls fn with every new state until the returned cancel runs.
// fn runs on the goroutine that caused the change and must not block.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) set(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.notify(next)
}

func (s *Store) notify(st State) {
	s.subsMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(st.clone())
	}
}

// Load rehydrates the session from the durable store. It never fails: read
// errors are logged and treated as "no session". A stored session that does
// not open or parse, or whose user is empty, is purged.
func (s *Store) Load(ctx context.Context) {
	s.set(State{Status: StatusLoading})

	token, err := store.GetString(ctx, s.repo, store.KeyAuthToken)
	if err != nil {
		s.dropUnreadable(ctx, "token", err)
		return
	}
	raw, err := s.repo.Get(ctx, store.KeyUserData)
	if err != nil {
		s.dropUnreadable(ctx, "user", err)
		return
	}

	if token == "" || len(raw) == 0 {
		s.logger.Debug(ctx, "no stored session")
		s.set(unauthenticated())
		return
	}

	var user *models.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil || user == nil || user.Username == "" {
		s.logger.Warn(ctx, "stored user is corrupt, purging", "error", err)
		s.purge(ctx)
		s.set(unauthenticated())
		return
	}

	refresh, err := store.GetString(ctx, s.repo, store.KeyRefreshToken)
	if err != nil {
		s.logger.Warn(ctx, "failed to read stored refresh token", "error", err)
		if errors.Is(err, store.ErrSealBroken) {
			if err := s.repo.Delete(ctx, store.KeyRefreshToken); err != nil {
				s.logger.Error(ctx, "failed to purge refresh token", "error", err)
			}
		}
	}

	s.logger.Info(ctx, "session restored", "username", user.Username)
	s.set(authenticated(token, refresh, *user))
}

// dropUnreadable ends Load as UNAUTHENTICATED. Values that no longer open
// (changed store secret, damaged ciphertext) are purged; other read errors
// leave the store alone.
func (s *Store) dropUnreadable(ctx context.Context, what string, err error) {
	s.logger.Warn(ctx, "failed to read stored "+what, "error", err)
	if errors.Is(err, store.ErrSealBroken) {
		s.purge(ctx)
	}
	s.set(unauthenticated())
}

func (s *Store) purge(ctx context.Context) {
	if err := s.repo.Delete(ctx, store.SessionKeys...); err != nil {
		s.logger.Error(ctx, "failed to purge stored session", "error", err)
	}
}

// Login exchanges credentials for a token pair, persists it, then fetches
// and persists the profile. Any failure leaves the state as it was and
// returns the pipeline's error; when the profile step fails the new tokens
// stay in the durable store.
func (s *Store) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	var pair api.TokenPair
	err := s.pipeline.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   api.LoginPath,
		Body:   map[string]string{"username": username, "password": password},
	}, &pair)
	if err != nil {
		s.logger.Info(ctx, "login rejected", "username", username, "error", err)
		return err
	}
	if pair.Access == "" {
		s.logger.Warn(ctx, "login response has no access token", "username", username)
		return ErrNoAccessToken
	}

	tokens := map[string][]byte{store.KeyAuthToken: []byte(pair.Access)}
	if pair.Refresh != "" {
		tokens[store.KeyRefreshToken] = []byte(pair.Refresh)
	}
	if err := s.repo.SetMany(ctx, tokens); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}

	user, err := s.fetchProfile(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile fetch failed after token exchange", "username", username, "error", err)
		return err
	}

	s.logger.Info(ctx, "login succeeded", "username", user.Username)
	s.set(authenticated(pair.Access, pair.Refresh, user))
	return nil
}

func (s *Store) fetchProfile(ctx context.Context) (models.UserProfile, error) {
	var user models.UserProfile
	if err := s.pipeline.Do(ctx, api.Request{Method: http.MethodGet, Path: api.ProfilePath}, &user); err != nil {
		return models.UserProfile{}, err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("encode profile: %w", err)
	}
	if err := s.repo.Set(ctx, store.KeyUserData, data); err != nil {
		return models.UserProfile{}, fmt.Errorf("persist profile: %w", err)
	}
	return user, nil
}

// Register forwards the registration. It never changes the session; the
// user logs in separately. Failures are *RegistrationError.
func (s *Store) Register(ctx context.Context, reg models.Registration) (models.UserProfile, error) {
	var created models.UserProfile
	err := s.pipeline.Do(ctx, api.Request{Method: http.MethodPost, Path: api.RegisterPath, Body: reg}, &created)
	if err != nil {
		return models.UserProfile{}, registrationError(err)
	}
	s.logger.Info(ctx, "registered", "username", reg.Username)
	return created, nil
}

// UpdateProfile overwrites the in-memory user only; the durable copy is left
// alone. It is a no-op unless AUTHENTICATED.
func (s *Store) UpdateProfile(user models.UserProfile) {
	s.mu.Lock()
	if s.state.Status != StatusAuthenticated {
		s.mu.Unlock()
		return
	}
	s.state.User = &user
	next := s.state
	s.mu.Unlock()

	s.notify(next)
}

// RefreshProfile refetches the profile, persists it and replaces the
// in-memory user.
func (s *Store) RefreshProfile(ctx context.Context) error {
	if !s.Snapshot().Authenticated() {
		return ErrNotAuthenticated
	}

	user, err := s.fetchProfile(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state.Status != StatusAuthenticated {
		// Invalidated while the request was in flight.
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.state.User = &user
	next := s.state
	s.mu.Unlock()

	s.notify(next)
	return nil
}

// Logout removes the session keys and resets to UNAUTHENTICATED. Calling it
// without a session is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	err := s.repo.Delete(ctx, store.SessionKeys...)
	if err != nil {
		s.logger.Error(ctx, "failed to clear stored session", "error", err)
	}

	if s.Snapshot().Status != StatusUnauthenticated {
		s.set(unauthenticated())
	}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// onInvalidate runs inside the failing call, after the pipeline has cleared
// the durable keys.
func (s *Store) onInvalidate(ctx context.Context, ev api.Invalidation) {
	s.mu.Lock()
	wasAuthenticated := s.state.Status == StatusAuthenticated
	s.state = unauthenticated()
	s.mu.Unlock()

	if wasAuthenticated {
		s.logger.Info(ctx, "session invalidated", "path", ev.Path, "status", ev.Status)
	}
	s.notify(unauthenticated())
}
