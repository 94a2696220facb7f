package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"marksync/config"
	"marksync/models"
	"marksync/repositories"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// SessionUser is what a completed login resolves to; the sub selects the
// principal's store, email and name only feed the profile endpoints.
type SessionUser struct {
	Sub   string  `json:"sub"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type AuthService interface {
	BeginLogin(ctx context.Context) (string, error)
	CompleteLogin(ctx context.Context, state, code string) (SessionUser, error)
	ExchangeAccessToken(ctx context.Context, accessToken string) (SessionUser, error)
}

type authService struct {
	users       repositories.UserRepository
	states      repositories.OAuthStateRepository
	oauth       *oauth2.Config
	userinfoURL string
	httpClient  *http.Client
}

func NewAuthService(users repositories.UserRepository, states repositories.OAuthStateRepository) AuthService {
	cfg := config.AppConfig
	return &authService{
		users:  users,
		states: states,
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Server.PublicURL + "/auth/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// BeginLogin stores a single-use state nonce and returns the Google
// authorization URL to redirect to.
func (s *authService) BeginLogin(ctx context.Context) (string, error) {
	state := uuid.NewString()
	ttl := time.Duration(config.AppConfig.Redis.OAuthStateExpire) * time.Second
	if err := s.states.Save(ctx, state, ttl); err != nil {
		return "", newAppError(http.StatusInternalServerError, "failed to store login state", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

func (s *authService) CompleteLogin(ctx context.Context, state, code string) (SessionUser, error) {
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return SessionUser{}, newAppError(http.StatusInternalServerError, "failed to check login state", err)
	}
	if !ok {
		return SessionUser{}, newAppError(http.StatusUnauthorized, "unknown or expired login state", nil)
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return SessionUser{}, newAppError(http.StatusUnauthorized, "code exchange failed", err)
	}

	return s.resolveUser(ctx, token.AccessToken)
}

// ExchangeAccessToken accepts a Google access token obtained by the browser
// extension through chrome.identity and resolves it to a session user.
func (s *authService) ExchangeAccessToken(ctx context.Context, accessToken string) (SessionUser, error) {
	return s.resolveUser(ctx, accessToken)
}

func (s *authService) resolveUser(ctx context.Context, accessToken string) (SessionUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return SessionUser{}, newAppError(http.StatusInternalServerError, "failed to build userinfo request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return SessionUser{}, newAppError(http.StatusBadGateway, "userinfo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SessionUser{}, newAppError(http.StatusUnauthorized, fmt.Sprintf("invalid Google token (userinfo status %d)", resp.StatusCode), nil)
	}

	var userinfo struct {
		Sub   string  `json:"sub"`
		Email string  `json:"email"`
		Name  *string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userinfo); err != nil {
		return SessionUser{}, newAppError(http.StatusBadGateway, "failed to decode userinfo", err)
	}
	if userinfo.Sub == "" {
		return SessionUser{}, newAppError(http.StatusUnauthorized, "token missing sub claim", nil)
	}

	record := models.UserRecord{Sub: userinfo.Sub, Email: userinfo.Email, Name: userinfo.Name}
	if err := s.users.Upsert(ctx, &record); err != nil {
		return SessionUser{}, newAppError(http.StatusInternalServerError, "failed to save user", err)
	}

	return SessionUser{Sub: userinfo.Sub, Email: userinfo.Email, Name: userinfo.Name}, nil
}
