// Package session holds the authenticated user and token for one client and
// exposes the authenticated fetch used by every other API consumer.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/valerio/go-spacegame/spacegame/api"
)

// ErrNotAuthenticated is returned by RequireUser when nobody is logged in.
var ErrNotAuthenticated = errors.New("not logged in")

// User is the account returned by the auth endpoints.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`

	// Raw is the full object as sent by the server.
	Raw json.RawMessage `json:"-"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)
	u.Raw = append(json.RawMessage(nil), data...)
	return nil
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// Session owns the user, the token and the loading flag. It is safe for
// concurrent use.
type Session struct {
	client *api.Client
	store  TokenStore

	mu      sync.RWMutex
	user    *User
	token   string
	loading bool
}

// New creates a session against the API at baseURL. The session starts in
// the loading state until Init runs.
func New(baseURL string, store TokenStore, opts ...api.Option) *Session {
	s := &Session{
		store:   store,
		loading: true,
	}
	s.client = api.New(baseURL, s, opts...)
	return s
}

// Client returns the authenticated API client bound to this session.
func (s *Session) Client() *api.Client {
	return s.client
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

// RequireUser returns the logged in user or ErrNotAuthenticated.
func (s *Session) RequireUser() (*User, error) {
	if u := s.User(); u != nil {
		return u, nil
	}
	return nil, ErrNotAuthenticated
}

// Fetch sends an authenticated request to the game API.
func (s *Session) Fetch(ctx context.Context, path string, opts *api.RequestOptions) (*http.Response, error) {
	return s.client.Fetch(ctx, path, opts)
}

// Init restores a saved session. Any failure to confirm the saved token
// clears it; errors are logged rather than returned.
func (s *Session) Init(ctx context.Context) {
	defer s.setLoading(false)

	saved, err := s.store.Get(TokenKey)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read saved session, clearing token", "error", err)
		s.clearToken()
		return
	}
	if saved == "" {
		return
	}

	s.mu.Lock()
	s.token = saved
	s.mu.Unlock()

	user, err := s.fetchMe(ctx)
	if err != nil {
		slog.InfoContext(ctx, "Saved session rejected, clearing token", "error", err)
		s.clearToken()
		return
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	slog.DebugContext(ctx, "Session restored", "username", user.Username)
}

// Register creates an account and logs it in.
func (s *Session) Register(ctx context.Context, username, firstName, lastName, email, password string) error {
	body := map[string]string{
		"username":   username,
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"password":   password,
	}
	return s.authenticate(ctx, "/auth/register", body, "Registration failed")
}

// Login exchanges credentials for a token.
func (s *Session) Login(ctx context.Context, username, password string) error {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	return s.authenticate(ctx, "/auth/login", body, "Login failed")
}

// Logout forgets the user and the stored token.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.clearToken()
}

func (s *Session) authenticate(ctx context.Context, path string, body any, fallback string) error {
	resp, err := s.client.JSON(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if !api.OK(resp) {
		return api.DecodeError(resp, fallback)
	}

	var auth authResponse
	if err := api.Decode(resp, &auth); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = auth.AccessToken
	s.user = auth.User
	s.mu.Unlock()

	if err := s.store.Set(TokenKey, auth.AccessToken); err != nil {
		slog.WarnContext(ctx, "Failed to save session token", "error", err)
	}
	return nil
}

func (s *Session) fetchMe(ctx context.Context) (*User, error) {
	resp, err := s.client.Fetch(ctx, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	if !api.OK(resp) {
		resp.Body.Close()
		return nil, fmt.Errorf("session check returned status %d", resp.StatusCode)
	}

	var user User
	if err := api.Decode(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) clearToken() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Remove(TokenKey); err != nil {
		slog.Warn("Failed to remove saved session token", "error", err)
	}
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
