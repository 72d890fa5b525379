// Package apitest runs an in-process fake of the Elite backend for tests.
//
// It implements the auth endpoints (login, refresh, profile, register) and
// the health probe with HS256 JWTs, and lets tests mount any other route
// behind the same bearer check.
package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type account struct {
	password string
	profile  models.UserProfile
}

type Backend struct {
	Server *httptest.Server
	secret []byte

	routeMu sync.RWMutex
	router  *mux.Router

	mu       sync.Mutex
	accounts map[string]*account
	nextID   int64
	calls    map[string]int

	accessTTL       time.Duration
	refreshTTL      time.Duration
	refreshDisabled bool
	refreshDelay    time.Duration
	profileStatus   int
}

// New starts a backend; callers must Close it.
func New() *Backend {
	b := &Backend{
		router:     mux.NewRouter(),
		secret:     []byte("apitest-secret"),
		accounts:   make(map[string]*account),
		calls:      make(map[string]int),
		nextID:     1,
		accessTTL:  5 * time.Minute,
		refreshTTL: 24 * time.Hour,
	}

	b.router.Use(b.count)
	b.router.HandleFunc("/api/test/", b.handleTest).Methods(http.MethodGet)
	b.router.HandleFunc("/api/auth/login/", b.handleLogin).Methods(http.MethodPost)
	b.router.HandleFunc("/api/auth/refresh/", b.handleRefresh).Methods(http.MethodPost)
	b.router.HandleFunc("/api/auth/register/", b.handleRegister).Methods(http.MethodPost)
	b.router.Handle("/api/auth/profile/", b.Protect(http.HandlerFunc(b.handleProfile))).Methods(http.MethodGet)

	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.routeMu.RLock()
	defer b.routeMu.RUnlock()
	b.router.ServeHTTP(w, r)
}

func (b *Backend) URL() string { return b.Server.URL }

func (b *Backend) Close() { b.Server.Close() }

// SetAccessTTL bounds the access tokens issued by login and refresh.
func (b *Backend) SetAccessTTL(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessTTL = d
}

// SetRefreshDisabled makes /api/auth/refresh/ answer 401.
func (b *Backend) SetRefreshDisabled(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshDisabled = v
}

// SetRefreshDelay stalls every refresh exchange by d.
func (b *Backend) SetRefreshDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshDelay = d
}

// SetProfileStatus makes /api/auth/profile/ fail with status; 0 restores it.
func (b *Backend) SetProfileStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profileStatus = status
}

// AddUser registers an account and returns its profile.
func (b *Backend) AddUser(username, password string) models.UserProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := models.UserProfile{
		ID:           b.nextID,
		Username:     username,
		Email:        username + "@example.com",
		ReferralCode: strings.ToUpper(fmt.Sprintf("REF%03d", b.nextID)),
	}
	b.nextID++
	b.accounts[username] = &account{password: password, profile: p}
	return p
}

// SetProfile replaces the stored profile of an existing account.
func (b *Backend) SetProfile(p models.UserProfile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a, ok := b.accounts[p.Username]; ok {
		a.profile = p
	}
}

// Handle mounts h at path for method. Protected routes require a valid
// access token.
func (b *Backend) Handle(method, path string, protected bool, h http.HandlerFunc) {
	var handler http.Handler = h
	if protected {
		handler = b.Protect(h)
	}
	b.routeMu.Lock()
	defer b.routeMu.Unlock()
	b.router.Handle(path, handler).Methods(method)
}

// Calls reports how many requests hit "METHOD path".
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

// MintAccess returns an access token for username expiring after ttl
// (negative ttl yields an already-expired token).
func (b *Backend) MintAccess(username string, ttl time.Duration) string {
	return b.mint(username, tokenTypeAccess, ttl)
}

func (b *Backend) MintRefresh(username string, ttl time.Duration) string {
	return b.mint(username, tokenTypeRefresh, ttl)
}

func (b *Backend) mint(username, typ string, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        username,
		"token_type": typ,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"jti":        fmt.Sprintf("%d", now.UnixNano()),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return s
}

func (b *Backend) parse(token, typ string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != typ {
		return "", errors.New("wrong token type")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("no subject")
	}
	return sub, nil
}

// Protect rejects requests without a valid bearer access token with 401.
func (b *Backend) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		if _, err := b.parse(raw, tokenTypeAccess); err != nil {
			WriteJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the username carried by r's bearer token, or "".
func (b *Backend) UserFrom(r *http.Request) string {
	raw, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	sub, _ := b.parse(raw, tokenTypeAccess)
	return sub
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *Backend) handleTest(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	b.mu.Lock()
	a, ok := b.accounts[in.Username]
	accessTTL, refreshTTL := b.accessTTL, b.refreshTTL
	b.mu.Unlock()

	if !ok || a.password != in.Password {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"access":  b.mint(in.Username, tokenTypeAccess, accessTTL),
		"refresh": b.mint(in.Username, tokenTypeRefresh, refreshTTL),
	})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	disabled, delay, accessTTL := b.refreshDisabled, b.refreshDelay, b.accessTTL
	b.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if disabled {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is blacklisted", "code": "token_not_valid"})
		return
	}

	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	sub, err := b.parse(in.Refresh, tokenTypeRefresh)
	if err != nil {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"access": b.mint(sub, tokenTypeAccess, accessTTL)})
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.profileStatus
	a, ok := b.accounts[b.UserFrom(r)]
	var p models.UserProfile
	if ok {
		p = a.profile
	}
	b.mu.Unlock()

	if status != 0 {
		WriteJSON(w, status, map[string]string{"error": "profile unavailable"})
		return
	}
	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.Registration
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	errs := map[string][]string{}
	if len(in.Username) < 3 {
		errs["username"] = []string{"Username must be at least 3 characters"}
	}
	if !strings.Contains(in.Email, "@") {
		errs["email"] = []string{"Invalid email format"}
	}
	if len(in.Password) < 8 {
		errs["password"] = []string{"Password must be at least 8 characters"}
	}

	b.mu.Lock()
	if _, taken := b.accounts[in.Username]; taken {
		errs["username"] = []string{"This username is already taken"}
	}
	b.mu.Unlock()

	if len(errs) > 0 {
		WriteJSON(w, http.StatusBadRequest, errs)
		return
	}

	p := b.AddUser(in.Username, in.Password)
	WriteJSON(w, http.StatusCreated, p)
}
