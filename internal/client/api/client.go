package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/elite/internal/client/connectivity"
	"github.com/dmitrijs2005/elite/internal/client/store"
	"github.com/dmitrijs2005/elite/internal/logging"
)

const (
	LoginPath    = "/api/auth/login/"
	RefreshPath  = "/api/auth/refresh/"
	ProfilePath  = "/api/auth/profile/"
	RegisterPath = "/api/auth/register/"

	DefaultTimeout       = 15 * time.Second
	DefaultRefreshLeeway = 30 * time.Second

	RequestIDHeader = "X-Request-ID"

	maxBodySize = 8 << 20
)

var (
	errNoRefreshToken = errors.New("no refresh token stored")

	// errRefreshTransport marks a refresh exchange that got no response.
	errRefreshTransport = errors.New("refresh request")
)

// Request is one call's envelope. Path is relative to the base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Timeout time.Duration // zero means the client default
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Checker    connectivity.Checker
	Logger     logging.Logger
	Metrics    *Metrics

	// Trace logs every request and response at Debug level.
	Trace bool

	RefreshEnabled bool
	RefreshLeeway  time.Duration

	Now func() time.Time
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	checker    connectivity.Checker
	logger     logging.Logger
	metrics    *Metrics
	trace      bool

	refreshEnabled bool
	leeway         time.Duration
	now            func() time.Time

	store     store.Repository
	refreshes singleflight.Group
	listeners listeners
}

func New(repo store.Repository, opts Options) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		timeout:        opts.Timeout,
		httpClient:     opts.HTTPClient,
		checker:        opts.Checker,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		trace:          opts.Trace,
		refreshEnabled: opts.RefreshEnabled,
		leeway:         opts.RefreshLeeway,
		now:            opts.Now,
		store:          repo,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.checker == nil {
		c.checker = connectivity.NewProber(c.httpClient, connectivity.DefaultTimeout)
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	if c.leeway <= 0 {
		c.leeway = DefaultRefreshLeeway
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Reachable probes the backend's health endpoint.
func (c *Client) Reachable(ctx context.Context) bool {
	return c.checker.Reachable(ctx, c.baseURL)
}

// OnInvalidate registers fn to run whenever a 401 drops the stored session.
// The returned function unregisters it.
func (c *Client) OnInvalidate(fn InvalidationListener) (cancel func()) {
	return c.listeners.add(fn)
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Do sends r and decodes a 2xx body into out (which may be nil). Failures are
// always *Error, possibly wrapped.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	start := time.Now()
	err := c.do(ctx, r, out)
	c.metrics.observe(r.Method, err, time.Since(start))
	return err
}

type response struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, r Request, out any) error {
	var body []byte
	if r.Body != nil {
		var err error
		if body, err = json.Marshal(r.Body); err != nil {
			return &Error{Kind: KindUnknown, Message: msgFallback, Err: fmt.Errorf("encode request body: %w", err)}
		}
	}

	token, rejected, err := c.accessToken(ctx)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: msgFallback, Err: err}
	}

	resp, err := c.send(ctx, r, body, token)
	if err != nil {
		return c.transportError(ctx, err)
	}

	if resp.status == http.StatusUnauthorized && token != "" && c.refreshEnabled && !rejected {
		fresh, rerr := c.refresh(ctx, token)
		if rerr == nil {
			c.logger.Debug(ctx, "retrying after token refresh", "method", r.Method, "path", r.Path)
			resp, err = c.send(ctx, r, body, fresh)
			if err != nil {
				return c.transportError(ctx, err)
			}
		} else {
			c.logger.Debug(ctx, "token refresh failed", "error", rerr)
		}
	}

	if resp.status == http.StatusUnauthorized {
		return c.invalidate(ctx, r, resp)
	}

	return c.handle(resp, out)
}

// accessToken reads the stored token, refreshing it first when it is a JWT
// expiring within the leeway. A failed proactive refresh keeps the old token;
// rejected reports that the server refused the exchange, so the call does not
// try again on a 401. A stored session that no longer opens is purged and the
// call goes out unauthenticated.
func (c *Client) accessToken(ctx context.Context) (token string, rejected bool, err error) {
	token, err = store.GetString(ctx, c.store, store.KeyAuthToken)
	if errors.Is(err, store.ErrSealBroken) {
		c.logger.Warn(ctx, "stored session cannot be opened, purging", "error", err)
		if derr := c.store.Delete(context.WithoutCancel(ctx), store.SessionKeys...); derr != nil {
			return "", false, fmt.Errorf("purge unreadable session: %w", derr)
		}
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read access token: %w", err)
	}
	if token == "" || !c.refreshEnabled {
		return token, false, nil
	}

	exp, ok := tokenExpiry(token)
	if !ok || c.now().Add(c.leeway).Before(exp) {
		return token, false, nil
	}

	fresh, err := c.refresh(ctx, token)
	if err != nil {
		c.logger.Debug(ctx, "proactive token refresh failed", "error", err)
		return token, !errors.Is(err, errRefreshTransport), nil
	}
	return fresh, false, nil
}

func (c *Client) send(ctx context.Context, r Request, body []byte, token string) (*response, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, rd)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.trace {
		c.logger.Debug(ctx, "api request", "method", r.Method, "path", r.Path, "request_id", requestID)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	if c.trace {
		c.logger.Debug(ctx, "api response",
			"status", res.StatusCode, "path", r.Path, "request_id", requestID, "elapsed", time.Since(start))
	}

	return &response{status: res.StatusCode, body: data}, nil
}

// transportError handles calls that got no response. A canceled caller
// context is reported as is; otherwise the prober decides between
// unreachable and a generic transport failure.
func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: KindUnknown, Message: "request canceled", Err: err}
	}

	c.logger.Warn(ctx, "network error", "base_url", c.baseURL, "error", err)

	if !c.checker.Reachable(context.WithoutCancel(ctx), c.baseURL) {
		return &Error{Kind: KindNetworkUnreachable, Message: msgUnreachable(c.baseURL), Err: err}
	}
	return &Error{Kind: KindUnknown, Message: err.Error(), Err: err}
}

// invalidate drops the stored session and notifies listeners before the
// caller sees the error. Store access ignores caller cancellation so a
// timed-out call cannot leave the token behind.
func (c *Client) invalidate(ctx context.Context, r Request, resp *response) error {
	bg := context.WithoutCancel(ctx)
	if err := c.store.Delete(bg, store.SessionKeys...); err != nil {
		c.logger.Error(ctx, "failed to clear session", "error", err)
	}

	c.listeners.publish(bg, Invalidation{Method: r.Method, Path: r.Path, Status: resp.status})

	return &Error{Kind: KindSessionExpired, Status: resp.status, Message: msgSessionExpired, Body: resp.body}
}

func (c *Client) handle(resp *response, out any) error {
	switch s := resp.status; {
	case s >= 200 && s < 300:
		if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.body, out); err != nil {
			return &Error{Kind: KindUnknown, Status: s, Message: "invalid response from server", Body: resp.body, Err: err}
		}
		return nil

	case s == http.StatusForbidden:
		return &Error{Kind: KindForbidden, Status: s, Message: msgStatus(s), Body: resp.body}

	case s >= 500:
		return &Error{Kind: KindServer, Status: s, Message: msgServer, Body: resp.body}

	default:
		kind := KindUnknown
		msg := msgStatus(s)
		if fields := jsonObject(resp.body); fields != nil {
			kind = KindValidation
			if m, ok := fields["message"].(string); ok && m != "" {
				msg = m
			}
		}
		return &Error{Kind: kind, Status: s, Message: msg, Body: resp.body}
	}
}
