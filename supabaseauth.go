// Package supabaseauth is a client for the Supabase Auth (GoTrue) API:
// password-based signup and signin, token refresh and validation, logout,
// and service-role administration of users.
//
// Every method issues exactly one HTTP round trip and keeps no local state,
// so a single Client is safe for concurrent use from any number of
// goroutines. The client never caches tokens, never retries, and never
// verifies JWTs locally; token validation is delegated to the server via
// GetUserByToken. Timeout and retry policy belong to the *http.Client the
// embedder supplies.
package supabaseauth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const authEndpoint = "/auth/v1"

// Auth API paths beneath the base URL.
const (
	signupPath        = authEndpoint + "/signup"
	passwordGrantPath = authEndpoint + "/token?grant_type=password"
	refreshGrantPath  = authEndpoint + "/token?grant_type=refresh_token"
	userPath          = authEndpoint + "/user"
	logoutPath        = authEndpoint + "/logout"
	adminUsersPath    = authEndpoint + "/admin/users"
)

// Client is a handle on one Auth API instance. It is immutable after
// construction.
type Client struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string // privileged; set only via Config, used only by admin operations
	httpClient     *http.Client
	logger         *zap.Logger
}

// Config assembles a Client from explicit fields. APIURL and AnonKey are
// required; everything else is optional.
type Config struct {
	// APIURL is the absolute base URL of the Supabase project,
	// e.g. https://your-project.supabase.co.
	APIURL string
	// AnonKey is the project's public anonymous key, sent on every request.
	AnonKey string
	// ServiceRoleKey unlocks the admin operations (GetUserByID,
	// SoftDeleteUser, HardDeleteUser). Treat it as a privileged capability;
	// its content is not validated locally.
	ServiceRoleKey string
	// HTTPClient overrides the transport. Defaults to a client with a
	// one-minute timeout.
	HTTPClient *http.Client
	// Logger receives request/response events. Defaults to a nop logger.
	// Bodies and tokens only ever appear at debug level.
	Logger *zap.Logger
}

// New creates a Client with only the anonymous key configured. Admin
// operations on such a client fail with ErrMissingServiceRoleKey.
func New(apiURL, anonKey string) (*Client, error) {
	return NewWithConfig(Config{APIURL: apiURL, AnonKey: anonKey})
}

// NewWithConfig validates cfg and creates a Client. It fails with
// ErrInvalidParameters when APIURL is empty or not an absolute URL, or when
// AnonKey is empty.
func NewWithConfig(cfg Config) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, invalidParams("api url must not be empty")
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, invalidParams("api url must be a well-formed absolute URL")
	}
	if cfg.AnonKey == "" {
		return nil, invalidParams("anon key must not be empty")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.APIURL, "/"),
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		httpClient:     httpClient,
		logger:         logger,
	}, nil
}

type signupRequest struct {
	Email    string         `json:"email,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignUp registers a new account for the given identifier and returns the
// created user together with an access token for immediate use. The server
// enforces password strength rules; locally only non-emptiness is checked.
//
// Signup is not idempotent: repeating it with the same identifier yields
// ErrConflict from the server.
func (c *Client) SignUp(ctx context.Context, id IdType, password string, metadata map[string]any) (*User, string, error) {
	if password == "" {
		return nil, "", invalidParams("password must not be empty")
	}
	email, phone, verr := id.values()
	if verr != nil {
		return nil, "", verr
	}

	req, verr := c.newRequest(ctx, http.MethodPost, signupPath, signupRequest{
		Email:    email,
		Phone:    phone,
		Password: password,
		Data:     metadata,
	})
	if verr != nil {
		return nil, "", verr
	}

	var res TokenResponse
	if err := c.send(req, c.anonKey, c.anonKey, &res); err != nil {
		return nil, "", err
	}
	if res.AccessToken == "" || res.User == nil || res.User.ID == uuid.Nil {
		return nil, "", decodeFailure("signup response missing access_token or user", nil)
	}

	c.logger.Info("created user", zap.String("user_id", res.User.ID.String()))
	return res.User, res.AccessToken, nil
}

type passwordGrant struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// SignInWithPassword authenticates the identifier with its password and
// returns the issued tokens. Invalid credentials surface as
// ErrNotAuthorized; the server deliberately does not distinguish a wrong
// password from an unknown identifier.
func (c *Client) SignInWithPassword(ctx context.Context, id IdType, password string) (*TokenResponse, error) {
	if password == "" {
		return nil, invalidParams("password must not be empty")
	}
	email, phone, verr := id.values()
	if verr != nil {
		return nil, verr
	}

	req, verr := c.newRequest(ctx, http.MethodPost, passwordGrantPath, passwordGrant{
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	if verr != nil {
		return nil, verr
	}

	var res TokenResponse
	if err := c.send(req, c.anonKey, c.anonKey, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		return nil, decodeFailure("token response missing access_token or refresh_token", nil)
	}
	return &res, nil
}

type refreshGrant struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken exchanges a refresh token for a fresh TokenResponse. The
// server may rotate the refresh token on use, invalidating the one passed
// in; persist only the newest returned token. An expired, revoked or unknown
// token surfaces as ErrNotAuthorized.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, invalidParams("refresh token must not be empty")
	}

	req, verr := c.newRequest(ctx, http.MethodPost, refreshGrantPath, refreshGrant{RefreshToken: refreshToken})
	if verr != nil {
		return nil, verr
	}

	var res TokenResponse
	if err := c.send(req, c.anonKey, c.anonKey, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		return nil, decodeFailure("token response missing access_token or refresh_token", nil)
	}
	return &res, nil
}

// GetUserByToken validates an access token against the server and returns
// the user it belongs to. An expired, invalid or malformed token surfaces as
// ErrNotAuthorized. No local signature verification takes place.
func (c *Client) GetUserByToken(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, invalidParams("access token must not be empty")
	}

	req, verr := c.newRequest(ctx, http.MethodGet, userPath, nil)
	if verr != nil {
		return nil, verr
	}

	var user User
	if err := c.send(req, c.anonKey, accessToken, &user); err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, decodeFailure("user response missing id", nil)
	}
	return &user, nil
}

// Logout invalidates the access token (and its session's refresh token)
// server-side. A 401 for an already-invalid token is propagated as
// ErrNotAuthorized rather than swallowed; callers that treat logout as best
// effort can ignore that kind.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return invalidParams("access token must not be empty")
	}

	req, verr := c.newRequest(ctx, http.MethodPost, logoutPath, nil)
	if verr != nil {
		return verr
	}
	if err := c.send(req, c.anonKey, accessToken, nil); err != nil {
		return err
	}
	return nil
}
