package handlers

import (
	"net/http"

	"marksync/config"
	"marksync/services"
	"marksync/utils"

	"github.com/gin-gonic/gin"
)

type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Login redirects the browser to Google's consent screen.
func Login(c *gin.Context) {
	authURL, err := getServices().Auth.BeginLogin(c.Request.Context())
	if respondServiceError(c, err) {
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback finishes the redirect flow: validates the state nonce, exchanges
// the code, sets the session cookie and sends the browser to the success
// page.
func Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		utils.Error(c, http.StatusUnprocessableEntity, "missing state or code")
		return
	}

	user, err := getServices().Auth.CompleteLogin(c.Request.Context(), state, code)
	if respondServiceError(c, err) {
		return
	}

	if err := setSessionCookie(c, user); err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to create session")
		return
	}
	c.Redirect(http.StatusFound, "/auth/success")
}

// Success renders a tiny page that closes the popup window the extension
// opened for the login flow.
func Success(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html>
<head><title>Signed in</title></head>
<body>
<p>Signed in. You can close this window.</p>
<script>window.close();</script>
</body>
</html>`))
}

// Token exchanges a Google access token obtained by the extension through
// chrome.identity for a session cookie.
func Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	user, err := getServices().Auth.ExchangeAccessToken(c.Request.Context(), req.Token)
	if respondServiceError(c, err) {
		return
	}

	if err := setSessionCookie(c, user); err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to create session")
		return
	}
	utils.Success(c, user)
}

func Logout(c *gin.Context) {
	cfg := config.AppConfig.Session
	c.SetSameSite(sameSiteMode(cfg.SameSite))
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
	utils.SuccessWithMessage(c, "Logged out")
}

// Me returns the authenticated user's profile.
func Me(c *gin.Context) {
	name := c.GetString("name")
	user := services.SessionUser{
		Sub:   c.GetString("sub"),
		Email: c.GetString("email"),
	}
	if name != "" {
		user.Name = &name
	}
	utils.Success(c, user)
}

func setSessionCookie(c *gin.Context, user services.SessionUser) error {
	token, err := utils.GenerateSessionToken(user.Sub, user.Email, user.Name)
	if err != nil {
		return err
	}
	cfg := config.AppConfig.Session
	c.SetSameSite(sameSiteMode(cfg.SameSite))
	c.SetCookie(cfg.CookieName, token, cfg.ExpireHours*3600, "/", "", cfg.Secure, true)
	return nil
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
