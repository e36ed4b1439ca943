package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-spacegame/spacegame/api"
)

// fakeAuthAPI serves the auth endpoints with a single valid token.
type fakeAuthAPI struct {
	validToken string
	meStatus   int
	lastBody   map[string]string
}

func (f *fakeAuthAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if f.meStatus != 0 {
			w.WriteHeader(f.meStatus)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+f.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"username":"ada","first_name":"Ada","email":"ada@example.com"}`))
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.lastBody = decodeBody(t, r)
		if f.lastBody["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"` + f.validToken + `","user":{"username":"ada"}}`))
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		f.lastBody = decodeBody(t, r)
		if f.lastBody["username"] == "taken" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"` + f.validToken + `","user":{"username":"` + f.lastBody["username"] + `"}}`))
	})

	return mux
}

func decodeBody(t *testing.T, r *http.Request) map[string]string {
	var body map[string]string
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func newTestSession(t *testing.T, fake *fakeAuthAPI, store TokenStore) *Session {
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return New(srv.URL, store)
}

func TestSession_InitWithoutSavedToken(t *testing.T) {
	s := newTestSession(t, &fakeAuthAPI{validToken: "good"}, NewMemoryStore())
	assert.True(t, s.IsLoading())

	s.Init(context.Background())

	assert.False(t, s.IsLoading())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestSession_InitRestoresUser(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(TokenKey, "good"))
	s := newTestSession(t, &fakeAuthAPI{validToken: "good"}, store)

	s.Init(context.Background())

	assert.False(t, s.IsLoading())
	require.True(t, s.IsAuthenticated())
	assert.Equal(t, "ada", s.User().Username)
	assert.Equal(t, "Ada", s.User().FirstName)
	assert.JSONEq(t, `{"username":"ada","first_name":"Ada","email":"ada@example.com"}`, string(s.User().Raw))
	assert.Equal(t, "good", s.Token())
}

func TestSession_InitClearsRejectedToken(t *testing.T) {
	tests := []struct {
		name  string
		saved string
		fake  *fakeAuthAPI
	}{
		{"unauthorized", "stale", &fakeAuthAPI{validToken: "good"}},
		{"server error", "good", &fakeAuthAPI{validToken: "good", meStatus: http.StatusInternalServerError}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Set(TokenKey, tt.saved))
			s := newTestSession(t, tt.fake, store)

			s.Init(context.Background())

			assert.False(t, s.IsLoading())
			assert.False(t, s.IsAuthenticated())
			assert.Empty(t, s.Token())
			saved, _ := store.Get(TokenKey)
			assert.Empty(t, saved)
		})
	}
}

func TestSession_InitClearsTokenOnTransportError(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(TokenKey, "good"))
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	s := New(srv.URL, store)

	s.Init(context.Background())

	assert.False(t, s.IsLoading())
	assert.Empty(t, s.Token())
	saved, _ := store.Get(TokenKey)
	assert.Empty(t, saved)
}

// unreadableStore fails every Get and records removals.
type unreadableStore struct {
	*MemoryStore
	removed []string
}

func (u *unreadableStore) Get(string) (string, error) {
	return "", errors.New("permission denied")
}

func (u *unreadableStore) Remove(key string) error {
	u.removed = append(u.removed, key)
	return u.MemoryStore.Remove(key)
}

func TestSession_InitClearsTokenWhenStoreUnreadable(t *testing.T) {
	store := &unreadableStore{MemoryStore: NewMemoryStore()}
	s := newTestSession(t, &fakeAuthAPI{validToken: "good"}, store)

	s.Init(context.Background())

	assert.False(t, s.IsLoading())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Equal(t, []string{TokenKey}, store.removed)
}

func TestSession_Login(t *testing.T) {
	store := NewMemoryStore()
	fake := &fakeAuthAPI{validToken: "good"}
	s := newTestSession(t, fake, store)

	require.NoError(t, s.Login(context.Background(), "ada", "secret"))

	assert.Equal(t, map[string]string{"username": "ada", "password": "secret"}, fake.lastBody)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "good", s.Token())
	saved, _ := store.Get(TokenKey)
	assert.Equal(t, "good", saved)
}

func TestSession_LoginFailure(t *testing.T) {
	store := NewMemoryStore()
	s := newTestSession(t, &fakeAuthAPI{validToken: "good"}, store)

	err := s.Login(context.Background(), "ada", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.False(t, s.IsAuthenticated())
	saved, _ := store.Get(TokenKey)
	assert.Empty(t, saved)
}

func TestSession_Register(t *testing.T) {
	fake := &fakeAuthAPI{validToken: "good"}
	s := newTestSession(t, fake, NewMemoryStore())

	require.NoError(t, s.Register(context.Background(), "grace", "Grace", "Hopper", "g@example.com", "pw"))

	assert.Equal(t, map[string]string{
		"username":   "grace",
		"first_name": "Grace",
		"last_name":  "Hopper",
		"email":      "g@example.com",
		"password":   "pw",
	}, fake.lastBody)
	assert.Equal(t, "grace", s.User().Username)
}

func TestSession_RegisterFallbackMessage(t *testing.T) {
	s := newTestSession(t, &fakeAuthAPI{validToken: "good"}, NewMemoryStore())

	err := s.Register(context.Background(), "taken", "", "", "", "pw")

	require.Error(t, err)
	assert.Equal(t, "Registration failed", err.Error())
}

func TestSession_Logout(t *testing.T) {
	store := NewMemoryStore()
	s := newTestSession(t, &fakeAuthAPI{validToken: "good"}, store)
	require.NoError(t, s.Login(context.Background(), "ada", "secret"))

	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	saved, _ := store.Get(TokenKey)
	assert.Empty(t, saved)
	_, err := s.RequireUser()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSession_FetchUsesToken(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(TokenKey, "good"))
	s := newTestSession(t, &fakeAuthAPI{validToken: "good"}, store)
	s.Init(context.Background())

	resp, err := s.Fetch(context.Background(), "/auth/me", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
