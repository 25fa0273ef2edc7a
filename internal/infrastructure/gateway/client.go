// Package gateway talks to the community backend: one HTTP endpoint whose
// operation is selected by the "action" query parameter.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/infrastructure/metrics"
)

const (
	ActionUsers         = "users"
	ActionPosts         = "posts"
	ActionLogin         = "login"
	ActionRegister      = "register"
	ActionCreatePost    = "create-post"
	ActionUpdateRole    = "update-role"
	ActionUpdateFaction = "update-faction"
	ActionBan           = "ban"
	ActionMute          = "mute"
	ActionUpdateAvatar  = "update-avatar"
	ActionDelete        = "delete"
)

// kinds maps each action to the error it reports on failure.
var kinds = map[string]error{
	ActionUsers:         domain.ErrRequest,
	ActionPosts:         domain.ErrRequest,
	ActionLogin:         domain.ErrAuth,
	ActionRegister:      domain.ErrRegistration,
	ActionCreatePost:    domain.ErrRequest,
	ActionUpdateRole:    domain.ErrUpdate,
	ActionUpdateFaction: domain.ErrUpdate,
	ActionBan:           domain.ErrUpdate,
	ActionMute:          domain.ErrUpdate,
	ActionUpdateAvatar:  domain.ErrUpdate,
	ActionDelete:        domain.ErrUpdate,
}

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.Gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.Gateway = (*Client)(nil)

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "?"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.call(ctx, http.MethodGet, ActionUsers, nil, nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.call(ctx, http.MethodGet, ActionPosts, nil, nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// ── Identity ──────────────────────────────────────────────────────────────────

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode,omitempty"`
}

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*domain.User, error) {
	var user domain.User
	req := loginRequest{Username: creds.Username, Password: creds.Password}
	if err := c.call(ctx, http.MethodPost, ActionLogin, nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Register(ctx context.Context, creds ports.Credentials) (*domain.User, error) {
	var user domain.User
	req := registerRequest{Username: creds.Username, Password: creds.Password, AdminCode: creds.AdminCode}
	if err := c.call(ctx, http.MethodPost, ActionRegister, nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ── Mutations ─────────────────────────────────────────────────────────────────

type createPostRequest struct {
	UserID  int64  `json:"userId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createPostResponse struct {
	ID int64 `json:"id"`
}

func (c *Client) CreatePost(ctx context.Context, userID int64, title, content string) (int64, error) {
	var resp createPostResponse
	req := createPostRequest{UserID: userID, Title: title, Content: content}
	if err := c.call(ctx, http.MethodPost, ActionCreatePost, nil, req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) UpdateRole(ctx context.Context, userID int64, role domain.Role) error {
	return c.call(ctx, http.MethodPut, ActionUpdateRole, nil, struct {
		UserID int64       `json:"userId"`
		Role   domain.Role `json:"role"`
	}{userID, role}, nil)
}

func (c *Client) UpdateFaction(ctx context.Context, userID int64, faction string) error {
	return c.call(ctx, http.MethodPut, ActionUpdateFaction, nil, struct {
		UserID  int64  `json:"userId"`
		Faction string `json:"faction"`
	}{userID, faction}, nil)
}

func (c *Client) SetBanned(ctx context.Context, userID int64, banned bool) error {
	return c.call(ctx, http.MethodPut, ActionBan, nil, struct {
		UserID   int64 `json:"userId"`
		IsBanned bool  `json:"isBanned"`
	}{userID, banned}, nil)
}

func (c *Client) SetMuted(ctx context.Context, userID int64, muted bool) error {
	return c.call(ctx, http.MethodPut, ActionMute, nil, struct {
		UserID  int64 `json:"userId"`
		IsMuted bool  `json:"isMuted"`
	}{userID, muted}, nil)
}

func (c *Client) UpdateAvatar(ctx context.Context, userID int64, avatar string) error {
	return c.call(ctx, http.MethodPut, ActionUpdateAvatar, nil, struct {
		UserID int64  `json:"userId"`
		Avatar string `json:"avatar"`
	}{userID, avatar}, nil)
}

// DeleteUser passes the target in the query string; the request has no body.
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	q := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	return c.call(ctx, http.MethodDelete, ActionDelete, q, nil, nil)
}

// Ping sends a CORS preflight, which the backend answers without touching
// its database.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ping: backend returned status %d", resp.StatusCode)
	}
	return nil
}

// ── Transport ─────────────────────────────────────────────────────────────────

// call performs one request. Any status outside 2xx is a failure; only the
// login action reads an {"error": ...} message from the response body.
func (c *Client) call(ctx context.Context, method, action string, query url.Values, in, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, action, query, in, out)
	metrics.GatewayRequestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	metrics.GatewayRequestsTotal.WithLabelValues(action, outcome(err)).Inc()

	if err != nil {
		c.log.Debug().Err(err).Str("action", action).Str("method", method).Msg("backend request failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, action string, query url.Values, in, out any) error {
	kind := kinds[action]

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", action, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(action, query), body)
	if err != nil {
		return &domain.RequestError{Action: action, Kind: kind, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RequestError{Action: action, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &domain.RequestError{Action: action, Status: resp.StatusCode, Kind: kind}
		if action == ActionLogin {
			reqErr.Message = errorMessage(resp.Body)
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return reqErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RequestError{
			Action: action,
			Status: resp.StatusCode,
			Kind:   kind,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *Client) endpoint(action string, query url.Values) string {
	q := url.Values{"action": {action}}
	for k, v := range query {
		q[k] = v
	}
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}

func errorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

// outcome labels a call for metrics: "ok", "rejected" (non-2xx), "decode"
// (2xx with an unreadable body) or "transport" (no response).
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var re *domain.RequestError
	switch {
	case !errors.As(err, &re) || re.Status == 0:
		return "transport"
	case re.Status >= 200 && re.Status <= 299:
		return "decode"
	default:
		return "rejected"
	}
}
