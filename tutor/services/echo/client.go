// historytutor/tutor/services/echo/client.go
package echo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	httputils "historytutor/tutor/utils/http"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Cookie names the Echo session lives in.
const (
	CookieAccessToken         = "echo_access_token"
	CookieRefreshToken        = "echo_refresh_token"
	CookieRefreshTokenExpires = "echo_refresh_token_expires"
	CookieCodeVerifier        = "echo_code_verifier"
)

// SessionCookies lists every cookie cleared on sign-out.
var SessionCookies = []string{
	CookieAccessToken,
	CookieRefreshToken,
	CookieRefreshTokenExpires,
	CookieCodeVerifier,
}

const defaultScopes = "llm:invoke offline_access"

// Client talks to the Echo identity and billing API.
type Client struct {
	baseURL    string
	appID      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(e *Client) {
		e.httpClient = c
	}
}

func NewClient(baseURL, appID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) AppID() string { return c.appID }

// OAuthConfig describes the PKCE authorization-code flow for this app.
func (c *Client) OAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    c.appID,
		RedirectURL: redirectURL,
		Scopes:      strings.Fields(defaultScopes),
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.baseURL + "/api/oauth/authorize",
			TokenURL:  c.baseURL + "/api/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL returns the authorize redirect carrying the S256 challenge for verifier.
func (c *Client) AuthCodeURL(redirectURL, state, verifier string) string {
	return c.OAuthConfig(redirectURL).AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, redirectURL, code, verifier string) (*oauth2.Token, error) {
	defer logging.LogDuration(ctx, "echo_exchange")()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.OAuthConfig(redirectURL).Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("echo token exchange: %w", err)
	}
	return tok, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*types.User, error) {
	defer logging.LogDuration(ctx, "echo_get_user")()
	var u types.User
	if err := httputils.GetJSONWithAuth(ctx, c.httpClient, c.baseURL+"/api/v1/user", accessToken, &u); err != nil {
		return nil, fmt.Errorf("echo get user: %w", err)
	}
	return &u, nil
}

// GetBalance returns the user's paid balance.
func (c *Client) GetBalance(ctx context.Context, accessToken string) (*types.Balance, error) {
	defer logging.LogDuration(ctx, "echo_get_balance")()
	var b types.Balance
	if err := httputils.GetJSONWithAuth(ctx, c.httpClient, c.baseURL+"/api/v1/balance", accessToken, &b); err != nil {
		return nil, fmt.Errorf("echo get balance: %w", err)
	}
	return &b, nil
}

type freeBalanceRequest struct {
	EchoAppID string `json:"echoAppId"`
}

type freeBalanceResponse struct {
	SpendPoolBalance float64 `json:"spendPoolBalance"`
}

// GetFreeBalance returns what is left of this app's free-tier spend pool for the user.
func (c *Client) GetFreeBalance(ctx context.Context, accessToken string) (float64, error) {
	defer logging.LogDuration(ctx, "echo_get_free_balance")()
	var resp freeBalanceResponse
	err := httputils.PostJSONWithAuth(ctx, c.httpClient, c.baseURL+"/api/v1/balance/free", accessToken,
		freeBalanceRequest{EchoAppID: c.appID}, &resp)
	if err != nil {
		return 0, fmt.Errorf("echo get free balance: %w", err)
	}
	return resp.SpendPoolBalance, nil
}

// TokenExpired reports whether token is a JWT whose exp has passed. Opaque
// tokens are left to the provider to reject.
func TokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
