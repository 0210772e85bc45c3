// historytutor/tutor/controllers/auth.go
package controllers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"historytutor/tutor/config"
	"historytutor/tutor/services/echo"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	stateTTL          = 10 * time.Minute
	verifierCookieTTL = 10 * time.Minute
	freeTierCurrency  = "USD"
	freeTierLabel     = "Free tier credits"
)

var (
	ErrInvalidState    = errors.New("invalid oauth state")
	ErrMissingCode     = errors.New("missing authorization code")
	ErrMissingVerifier = errors.New("missing code verifier")
)

type AuthController struct {
	echo        *echo.Client
	redirectURL string
	secure      bool
	stateKey    []byte
}

// NewAuthController signs OAuth state with cfg.StateSecret, or with a random
// per-process key when none is configured.
func NewAuthController(client *echo.Client, cfg config.Config) *AuthController {
	key := []byte(cfg.StateSecret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("state key: " + err.Error())
		}
		logging.AppLogger.Warn("STATE_SECRET not set, using a per-process key")
	}
	return &AuthController{
		echo:        client,
		redirectURL: cfg.EchoRedirectURL,
		secure:      cfg.SecureCookies,
		stateKey:    key,
	}
}

// CheckAuth resolves the profile and balance for token. Balance lookups
// that fail are logged and leave the balance empty.
func (c *AuthController) CheckAuth(ctx context.Context, token string) types.CheckAuthResponse {
	defer logging.LogDuration(ctx, "AuthController.CheckAuth")()

	if token == "" || echo.TokenExpired(token) {
		return types.CheckAuthResponse{}
	}
	user, err := c.echo.GetUser(ctx, token)
	if err != nil {
		logging.AppLogger.Warn("check auth: user lookup failed", zap.Error(err))
		return types.CheckAuthResponse{}
	}
	if !user.Complete() {
		return types.CheckAuthResponse{}
	}
	return types.CheckAuthResponse{
		IsSignedIn: true,
		User:       &types.AuthUser{User: *user, Balance: c.balance(ctx, token)},
	}
}

func (c *AuthController) balance(ctx context.Context, token string) *types.Balance {
	paid, err := c.echo.GetBalance(ctx, token)
	if err != nil {
		logging.ErrorLogger.Error("check auth: balance failed", zap.Error(err))
		paid = nil
	}
	free, err := c.echo.GetFreeBalance(ctx, token)
	if err != nil {
		logging.ErrorLogger.Error("check auth: free balance failed", zap.Error(err))
		return paid
	}
	if free > 0 {
		return &types.Balance{Amount: free, Currency: freeTierCurrency, Description: freeTierLabel}
	}
	return paid
}

func (c *AuthController) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *AuthController) newState() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		ID:        rand.Text(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.stateKey)
}

func (c *AuthController) checkState(state string) error {
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.stateKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}

// SignIn stores a fresh PKCE verifier and redirects to the Echo authorize page.
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	verifier := oauth2.GenerateVerifier()
	state, err := c.newState()
	if err != nil {
		logging.ErrorLogger.Error("sign in: state", zap.Error(err))
		http.Error(w, "sign in failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, c.cookie(echo.CookieCodeVerifier, verifier, int(verifierCookieTTL.Seconds())))
	http.Redirect(w, r, c.echo.AuthCodeURL(c.redirectURL, state, verifier), http.StatusFound)
}

// Callback finishes the authorization-code flow and stores the tokens.
func (c *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		logging.AppLogger.Warn("sign in denied", zap.String("error", e), zap.String("description", q.Get("error_description")))
		http.Error(w, "sign in denied", http.StatusBadRequest)
		return
	}
	if err := c.checkState(q.Get("state")); err != nil {
		logging.AppLogger.Warn("callback", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, ErrMissingCode.Error(), http.StatusBadRequest)
		return
	}
	verifier, err := r.Cookie(echo.CookieCodeVerifier)
	if err != nil || verifier.Value == "" {
		http.Error(w, ErrMissingVerifier.Error(), http.StatusBadRequest)
		return
	}

	tok, err := c.echo.Exchange(r.Context(), c.redirectURL, code, verifier.Value)
	if err != nil {
		logging.ErrorLogger.Error("callback: exchange", zap.Error(err))
		http.Error(w, "token exchange failed", http.StatusBadGateway)
		return
	}

	accessAge := 0
	if !tok.Expiry.IsZero() {
		accessAge = int(time.Until(tok.Expiry).Seconds())
	}
	http.SetCookie(w, c.cookie(echo.CookieAccessToken, tok.AccessToken, accessAge))
	if tok.RefreshToken != "" {
		refreshAge := refreshTokenTTL(tok)
		http.SetCookie(w, c.cookie(echo.CookieRefreshToken, tok.RefreshToken, refreshAge))
		expires := time.Now().Add(time.Duration(refreshAge) * time.Second)
		http.SetCookie(w, c.cookie(echo.CookieRefreshTokenExpires, expires.UTC().Format(time.RFC3339), refreshAge))
	}
	http.SetCookie(w, c.cookie(echo.CookieCodeVerifier, "", -1))
	http.Redirect(w, r, "/", http.StatusFound)
}

// refreshTokenTTL reads refresh_token_expires_in in seconds, defaulting to 30 days.
func refreshTokenTTL(tok *oauth2.Token) int {
	switch v := tok.Extra("refresh_token_expires_in").(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return int((30 * 24 * time.Hour).Seconds())
}

// SignOut clears every Echo cookie. Nothing upstream is revoked.
func (c *AuthController) SignOut(w http.ResponseWriter) error {
	for _, name := range echo.SessionCookies {
		ck := c.cookie(name, "", -1)
		if err := ck.Valid(); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		http.SetCookie(w, ck)
	}
	return nil
}
