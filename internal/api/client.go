package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// TokenStore guarda el bearer y el refresh token entre llamadas.
type TokenStore interface {
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
	SetAccessToken(ctx context.Context, token string) error
	ClearTokens(ctx context.Context) error
}

// MetricsRecorder recibe la latencia de cada llamada y el resultado de los refresh.
type MetricsRecorder interface {
	ObserveAPICall(method, path string, status int, d time.Duration)
	RecordTokenRefresh(ok bool)
}

// Client habla con el backend REST del marketplace.
type Client struct {
	baseURL    string
	refreshURL string
	httpClient *http.Client
	tokens     TokenStore
	logger     *zap.Logger
	metrics    MetricsRecorder
	limiter    *rate.Limiter
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient reemplaza el http.Client. Su Jar transporta la cookie de sesión del backend.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithRefreshURL(u string) Option {
	return func(c *Client) {
		if strings.TrimSpace(u) != "" {
			c.refreshURL = strings.TrimSpace(u)
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRateLimit limita las llamadas salientes a perSecond. 0 o negativo desactiva el límite.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			burst := int(perSecond)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	c := &Client{
		baseURL:    base,
		refreshURL: base + "/auth/refresh-token",
		httpClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL devuelve la URL base sin barra final.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	route       string
	body        []byte
	contentType string
	// skipRefresh evita el refresh en login/registro, donde un 401 es un error de credenciales.
	skipRefresh bool
}

func jsonRequest(method, path, route string, payload any) (request, error) {
	req := request{method: method, path: path, route: route}
	if payload == nil {
		return req, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("marshal request: %w", err)
	}
	req.body = body
	req.contentType = "application/json"
	return req, nil
}

// do ejecuta req y decodifica la respuesta en out. Ante un 401 intenta un único refresh.
func (c *Client) do(ctx context.Context, req request, out any) error {
	status, body, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !req.skipRefresh {
		if c.tokens == nil {
			return fmt.Errorf("%w: %w", ErrLoginRequired, newError(status, body))
		}
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, body, err = c.send(ctx, req)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			c.clearTokens(ctx)
			return fmt.Errorf("%w: %w", ErrLoginRequired, newError(status, body))
		}
	}

	if status < 200 || status > 299 {
		apiErr := newError(status, body)
		c.logger.Warn("api call failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", status),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, r request) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if r.body != nil {
		reader = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	route := r.route
	if route == "" {
		route = r.path
	}
	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r.method, route, 0, start)
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.observe(r.method, route, resp.StatusCode, start)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// bearer devuelve el token a adjuntar. Un JWT cuyo exp ya pasó no se envía.
func (c *Client) bearer(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token := strings.TrimSpace(c.tokens.AccessToken(ctx))
	if token == "" {
		return ""
	}
	if tokenExpired(token, c.now()) {
		return ""
	}
	return token
}

func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Token opaco: decide el backend.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

func (c *Client) refresh(ctx context.Context) error {
	refreshToken := strings.TrimSpace(c.tokens.RefreshToken(ctx))
	if refreshToken == "" {
		c.clearTokens(ctx)
		c.recordRefresh(false)
		return fmt.Errorf("%w: no refresh token available", ErrLoginRequired)
	}

	token, err := c.requestRefresh(ctx, refreshToken)
	if err != nil {
		c.logger.Warn("token refresh failed", zap.Error(err))
		c.clearTokens(ctx)
		c.recordRefresh(false)
		return fmt.Errorf("%w: %w", ErrLoginRequired, err)
	}
	if err := c.tokens.SetAccessToken(ctx, token); err != nil {
		c.logger.Warn("store refreshed token failed", zap.Error(err))
	}
	c.recordRefresh(true)
	return nil
}

func (c *Client) requestRefresh(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal refresh: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.refreshURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(http.MethodPost, "/auth/refresh-token", 0, start)
		return "", fmt.Errorf("do refresh: %w", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	c.observe(http.MethodPost, "/auth/refresh-token", resp.StatusCode, start)
	if err != nil {
		return "", fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newError(resp.StatusCode, respBody)
	}

	var rr refreshResponse
	if err := json.Unmarshal(respBody, &rr); err != nil {
		return "", fmt.Errorf("unmarshal refresh response: %w", err)
	}
	if strings.TrimSpace(rr.Token) == "" {
		return "", errors.New("refresh response without token")
	}
	return rr.Token, nil
}

func (c *Client) clearTokens(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.ClearTokens(ctx); err != nil {
		c.logger.Warn("clear tokens failed", zap.Error(err))
	}
}

func (c *Client) observe(method, route string, status int, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveAPICall(method, route, status, c.now().Sub(start))
}

func (c *Client) recordRefresh(ok bool) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordTokenRefresh(ok)
}
