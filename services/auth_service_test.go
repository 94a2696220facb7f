package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marksync/config"
	"marksync/models"

	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[string]models.UserRecord
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.UserRecord{}}
}

func (r *fakeUserRepo) GetBySub(_ context.Context, sub string) (models.UserRecord, error) {
	user, ok := r.users[sub]
	if !ok {
		return models.UserRecord{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *models.UserRecord) error {
	r.users[user.Sub] = *user
	return nil
}

type fakeStateRepo struct {
	states map[string]bool
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: map[string]bool{}}
}

func (r *fakeStateRepo) Save(_ context.Context, state string, _ time.Duration) error {
	r.states[state] = true
	return nil
}

func (r *fakeStateRepo) Consume(_ context.Context, state string) (bool, error) {
	if !r.states[state] {
		return false, nil
	}
	delete(r.states, state)
	return true, nil
}

func setTestConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		Server: config.ServerConfig{PublicURL: "http://localhost:8000"},
		Redis:  config.RedisConfig{OAuthStateExpire: 600},
		Google: config.GoogleConfig{ClientID: "client", ClientSecret: "secret"},
		Session: config.SessionConfig{
			Secret:      "test-secret",
			CookieName:  "marksync_session",
			ExpireHours: 1,
			SameSite:    "lax",
		},
	}
	t.Cleanup(func() { config.AppConfig = prev })
}

func newAuthFixture(t *testing.T, userinfoURL string) (*authService, *fakeUserRepo, *fakeStateRepo) {
	t.Helper()
	setTestConfig(t)
	users := newFakeUserRepo()
	states := newFakeStateRepo()
	svc := NewAuthService(users, states).(*authService)
	if userinfoURL != "" {
		svc.userinfoURL = userinfoURL
	}
	return svc, users, states
}

func TestBeginLoginStoresSingleUseState(t *testing.T) {
	svc, _, states := newAuthFixture(t, "")

	authURL, err := svc.BeginLogin(context.Background())
	if err != nil {
		t.Fatalf("begin login failed: %v", err)
	}
	if authURL == "" {
		t.Fatal("expected a non-empty authorization URL")
	}
	if len(states.states) != 1 {
		t.Fatalf("expected one stored state, got %d", len(states.states))
	}
}

func TestCompleteLoginRejectsUnknownState(t *testing.T) {
	svc, _, _ := newAuthFixture(t, "")

	_, err := svc.CompleteLogin(context.Background(), "never-issued", "code")
	expectAppError(t, err, http.StatusUnauthorized)
}

func TestExchangeAccessTokenResolvesAndRegistersUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub":"google-123","email":"a@b.test","name":"Alice"}`))
	}))
	defer server.Close()

	svc, users, _ := newAuthFixture(t, server.URL)

	user, err := svc.ExchangeAccessToken(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("token exchange failed: %v", err)
	}
	if user.Sub != "google-123" || user.Email != "a@b.test" {
		t.Fatalf("unexpected session user: %+v", user)
	}
	if _, ok := users.users["google-123"]; !ok {
		t.Fatal("expected the resolved user to be registered")
	}
}

func TestExchangeAccessTokenRejectsInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc, _, _ := newAuthFixture(t, server.URL)

	_, err := svc.ExchangeAccessToken(context.Background(), "bad-token")
	expectAppError(t, err, http.StatusUnauthorized)
}

func TestExchangeAccessTokenRejectsMissingSub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"a@b.test"}`))
	}))
	defer server.Close()

	svc, _, _ := newAuthFixture(t, server.URL)

	_, err := svc.ExchangeAccessToken(context.Background(), "token")
	expectAppError(t, err, http.StatusUnauthorized)
}
