// Package client is the Go SDK for the AlumniConnect portal API. It
// carries the browsing session in a cookie jar, resolves identity via
// the /me probes and provides the session store, route guards and
// collection helpers the portal UIs are built on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/user"
)

// requestTimeout bounds every API call; a hung backend must never hang
// the caller.
const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
	}, nil
}

// APIError is a non-2xx response. Field-level validation errors are
// surfaced as-is so forms can map them back onto inputs.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []core.FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d", e.StatusCode)
}

// IsUnauthorized reports whether err is an APIError with a 401/403
// status. Anything else, including network failures, is not an
// authorization verdict.
func IsUnauthorized(err error) bool {
	if apiErr, ok := errors.Cause(err).(*APIError); ok {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Buffer
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshalling request body")
		}
		body = bytes.NewBuffer(data)
	} else {
		body = new(bytes.Buffer)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling "+path)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(res)
	}
	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}

	var payload struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Errors  []core.FieldError `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
		apiErr.Fields = payload.Errors
		apiErr.Message = payload.Error
		if apiErr.Message == "" {
			apiErr.Message = payload.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(res.StatusCode)
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// Identity probes

func (c *Client) StudentMe(ctx context.Context) (user.User, error) {
	var usr user.User
	err := c.get(ctx, "/api/student/me", &usr)
	return usr, err
}

func (c *Client) AlumniMe(ctx context.Context) (user.User, error) {
	var usr user.User
	err := c.get(ctx, "/api/alumni/me", &usr)
	return usr, err
}

func (c *Client) AdminMe(ctx context.Context) (user.User, error) {
	var usr user.User
	err := c.get(ctx, "/api/admin/me", &usr)
	return usr, err
}

// Auth calls

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) LoginStudent(ctx context.Context, email, password string) (user.User, error) {
	var usr user.User
	err := c.post(ctx, "/api/student/login", loginRequest{email, password}, &usr)
	return usr, err
}

func (c *Client) LoginAlumni(ctx context.Context, email, password string) (user.User, error) {
	var usr user.User
	err := c.post(ctx, "/api/alumni/login", loginRequest{email, password}, &usr)
	return usr, err
}

// AdminLoginResult is the admin login payload: the user plus the
// `{value, expiry}` token the UI persists for its local admin guard.
type AdminLoginResult struct {
	User  user.User  `json:"user"`
	Token AdminToken `json:"token"`
}

func (c *Client) LoginAdmin(ctx context.Context, email, password string) (AdminLoginResult, error) {
	var res AdminLoginResult
	err := c.post(ctx, "/api/admin/login", loginRequest{email, password}, &res)
	return res, err
}

func (c *Client) LogoutStudent(ctx context.Context) error {
	return c.post(ctx, "/api/student/logout", nil, nil)
}

func (c *Client) LogoutAlumni(ctx context.Context) error {
	return c.post(ctx, "/api/alumni/logout", nil, nil)
}

func (c *Client) LogoutAdmin(ctx context.Context) error {
	return c.post(ctx, "/api/admin/logout", nil, nil)
}
