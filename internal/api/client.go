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
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"github.com/Makepad-fr/tada/internal/model"
)

const (
	opList   = "fetch todos"
	opCreate = "create todo"
	opUpdate = "update todo"
	opDelete = "delete todo"
	opLogin  = "log in"
)

// Client talks to the remote todo API. Every request carries the session
// cookie held in the client's jar. It is safe for concurrent use; calls are
// independent and unordered.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	loginURL   string
	logger     zerolog.Logger
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient uses a copy of hc. A jar is attached if hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

func WithLoginURL(u string) Option {
	return func(c *Client) { c.loginURL = strings.TrimSpace(u) }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock sets the clock used to validate deadlines.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    base,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	if c.loginURL == "" {
		c.loginURL = c.endpoint("login")
	}
	if _, err := ParseBaseURL(c.loginURL); err != nil {
		return nil, fmt.Errorf("login url: %w", err)
	}
	return c, nil
}

// ParseBaseURL accepts an absolute http or https URL and drops any trailing
// slash.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q: host is required", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) LoginURL() string {
	return c.loginURL
}

// ListTodos fetches every todo in server order.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	data, status, err := c.send(ctx, opList, http.MethodGet, c.endpoint("todos"), "", nil)
	if err != nil {
		return nil, err
	}
	todos, err := DecodeTodos(data)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("failed to decode todos")
		return nil, responseError(opList, status, err)
	}
	c.logger.Debug().
		Int("count", len(todos)).
		Msg("fetched todos")
	return todos, nil
}

// CreateTodo validates v and posts it. The returned todo is what the server
// stored, including the id it assigned.
func (c *Client) CreateTodo(ctx context.Context, v model.Values) (model.Todo, error) {
	if err := v.Validate(c.now()); err != nil {
		return model.Todo{}, err
	}
	payload, err := json.Marshal(ToWire(v))
	if err != nil {
		return model.Todo{}, fmt.Errorf("marshal todo: %w", err)
	}
	data, status, err := c.send(ctx, opCreate, http.MethodPost, c.endpoint("create-todo"), "application/json", payload)
	if err != nil {
		return model.Todo{}, err
	}
	todo, err := decodeTodo(data, v.Todo(""))
	if err != nil {
		return model.Todo{}, responseError(opCreate, status, err)
	}
	c.logger.Info().
		Str("todo_id", todo.ID).
		Msg("created todo")
	return todo, nil
}

// UpdateTodo replaces the fields of todo id with v. Whether id exists is
// for the server to decide.
func (c *Client) UpdateTodo(ctx context.Context, id string, v model.Values) (model.Todo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Todo{}, ErrMissingID
	}
	if err := v.Validate(c.now()); err != nil {
		return model.Todo{}, err
	}
	payload, err := json.Marshal(ToWire(v))
	if err != nil {
		return model.Todo{}, fmt.Errorf("marshal todo: %w", err)
	}
	data, status, err := c.send(ctx, opUpdate, http.MethodPut, c.endpoint("update-todo", id), "application/json", payload)
	if err != nil {
		return model.Todo{}, err
	}
	todo, err := decodeTodo(data, v.Todo(id))
	if err != nil {
		return model.Todo{}, responseError(opUpdate, status, err)
	}
	if todo.ID == "" {
		todo.ID = id
	}
	c.logger.Info().
		Str("todo_id", id).
		Msg("updated todo")
	return todo, nil
}

// DeleteTodo removes todo id.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingID
	}
	if _, _, err := c.send(ctx, opDelete, http.MethodDelete, c.endpoint("delete-todo", id), "", nil); err != nil {
		return err
	}
	c.logger.Info().
		Str("todo_id", id).
		Msg("deleted todo")
	return nil
}

// Login posts the credentials as a form. The session cookie the server sets
// lands in the client's jar and rides along on every later call.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return errors.New("username and password are required")
	}
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	_, _, err := c.send(ctx, opLogin, http.MethodPost, c.loginURL, "application/x-www-form-urlencoded", []byte(form.Encode()))
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			if msg := serverMessage(fe.body); msg != "" {
				fe.Reason = msg
			}
		}
		return err
	}
	c.logger.Info().
		Str("username", username).
		Msg("logged in")
	return nil
}

// SessionCookies returns the cookies the jar would send to the API.
func (c *Client) SessionCookies() []*http.Cookie {
	return c.httpClient.Jar.Cookies(c.baseURL)
}

// SetSessionCookies loads previously saved cookies into the jar.
func (c *Client) SetSessionCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	for _, ck := range cookies {
		if ck.Path == "" {
			ck.Path = "/"
		}
	}
	c.httpClient.Jar.SetCookies(c.baseURL, cookies)
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL.JoinPath(escaped...).String()
}

// send performs one round trip and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, op, method, target, contentType string, body []byte) ([]byte, int, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return nil, 0, &FetchError{Op: op, Reason: "build request: " + err.Error(), Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("url", target).
			Msg("request failed")
		return nil, 0, networkError(op, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := statusError(op, resp, data)
		c.logger.Warn().
			Str("op", op).
			Int("status", resp.StatusCode).
			Msg("api returned error status")
		return nil, resp.StatusCode, fe
	}
	if readErr != nil {
		return nil, resp.StatusCode, responseError(op, resp.StatusCode, fmt.Errorf("read body: %w", readErr))
	}
	return data, resp.StatusCode, nil
}

// decodeTodo parses a single todo body; an empty body means the server
// accepted fallback as sent.
func decodeTodo(data []byte, fallback model.Todo) (model.Todo, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fallback, nil
	}
	var w WireTodo
	if err := json.Unmarshal(data, &w); err != nil {
		return model.Todo{}, fmt.Errorf("decode todo: %w", err)
	}
	return w.Model()
}
