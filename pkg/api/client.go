// Package api is the typed client for the CyberPiT REST backend.
// Every backend operation is one method on a resource group; every method
// returns a Result and attaches the caller's bearer token when one exists.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"
)

const maxResponseBytes = 8 << 20 // 8 MB

// TokenSource supplies the session token for the request carried by ctx.
// An empty string means no token; public endpoints still work.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) string

func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout bounds JSON calls. Defaults to 30s.
	Timeout time.Duration
	// UploadTimeout bounds multipart uploads. Defaults to 10m.
	UploadTimeout time.Duration
	Tokens        TokenSource
	// Metrics is optional.
	Metrics *Metrics
	// Transport overrides http.DefaultTransport (tests, proxies).
	Transport http.RoundTripper
}

// Client is the single point of HTTP access to the backend.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	uploadClient *http.Client
	tokens       TokenSource
	metrics      *Metrics

	Contact       *ContactAPI
	Subscriptions *SubscriptionAPI
	Team          *TeamAPI
	Projects      *ProjectAPI
	Reports       *ReportAPI
	Videos        *VideoAPI
	Feedback      *FeedbackAPI
	Blogs         *BlogAPI
	Auth          *AuthAPI
	Admin         *AdminAPI
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 10 * time.Minute
	}
	if cfg.Tokens == nil {
		cfg.Tokens = TokenFunc(func(context.Context) string { return "" })
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: cfg.Timeout, Transport: transport},
		uploadClient: &http.Client{Timeout: cfg.UploadTimeout, Transport: transport},
		tokens:       cfg.Tokens,
		metrics:      cfg.Metrics,
	}
	c.Contact = &ContactAPI{c: c}
	c.Subscriptions = &SubscriptionAPI{c: c}
	c.Team = &TeamAPI{c: c}
	c.Projects = &ProjectAPI{c: c}
	c.Reports = &ReportAPI{c: c}
	c.Videos = &VideoAPI{c: c}
	c.Feedback = &FeedbackAPI{c: c}
	c.Blogs = &BlogAPI{c: c}
	c.Auth = &AuthAPI{c: c}
	c.Admin = newAdminAPI(c)
	return c
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope is a decoded {success, message, ...payload} response body.
type envelope struct {
	success *bool
	message string
	fields  map[string]json.RawMessage
	// raw is the whole body, used when the payload is a bare array.
	raw json.RawMessage
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends a JSON request. body may be nil.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, op, c.httpClient, req)
}

// filePart is the file carried by a multipart upload.
type filePart struct {
	Field       string
	Filename    string
	ContentType string
	Body        io.Reader
}

// upload streams a multipart/form-data request built from fields and file.
func (c *Client) upload(ctx context.Context, op, path string, fields map[string]string, file filePart) (*envelope, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, file))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), pr)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(ctx, op, c.uploadClient, req)
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, file filePart) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(file.Field), escapeQuotes(file.Filename)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// send attaches the bearer token, performs the request and decodes the envelope.
func (c *Client) send(ctx context.Context, op string, hc *http.Client, req *http.Request) (*envelope, error) {
	req.Header.Set("Accept", "application/json")
	if token := c.tokens.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.metrics.observe(op, 0, time.Since(start))
		slog.WarnContext(ctx, "backend request failed", "op", op, "error", err)
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.observe(op, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	env := parseEnvelope(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.DebugContext(ctx, "backend error response", "op", op, "status", resp.StatusCode, "message", env.message)
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: env.message}
	}
	if env.success != nil && !*env.success {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: env.message, Err: ErrUnsuccessful}
	}
	return env, nil
}

// parseEnvelope never fails: bodies that are not JSON objects yield an
// envelope with only raw set.
func parseEnvelope(raw []byte) *envelope {
	env := &envelope{raw: raw}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env
	}
	if err := json.Unmarshal(trimmed, &env.fields); err != nil {
		env.fields = nil
		return env
	}
	if v, ok := env.fields["success"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			env.success = &b
		}
	}
	if v, ok := env.fields["message"]; ok {
		_ = json.Unmarshal(v, &env.message)
	}
	return env
}

// decode extracts the payload from the first present key. The key "" means
// the whole body, which is how bare-array responses are read.
func decode[T any](op string, env *envelope, keys ...string) (T, error) {
	var v T
	for _, key := range keys {
		var raw json.RawMessage
		if key == "" {
			trimmed := bytes.TrimSpace(env.raw)
			if len(trimmed) == 0 || trimmed[0] != '[' {
				continue
			}
			raw = trimmed
		} else {
			r, ok := env.fields[key]
			if !ok || string(r) == "null" {
				continue
			}
			raw = r
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return v, &Error{Op: op, Err: fmt.Errorf("decode %q: %w", key, err)}
		}
		return v, nil
	}
	return v, nil
}

// call is the common path for JSON operations returning a typed payload.
func call[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any, keys ...string) Result[T] {
	env, err := c.do(ctx, op, method, path, query, body)
	if err != nil {
		return errResult[T](err)
	}
	v, err := decode[T](op, env, keys...)
	if err != nil {
		return errResult[T](err)
	}
	return okResult(v, env.message)
}

// list is call for collection payloads; a missing payload is an empty list.
func list[T any](ctx context.Context, c *Client, op, path string, query url.Values, keys ...string) Result[[]T] {
	res := call[[]T](ctx, c, op, http.MethodGet, path, query, nil, keys...)
	if res.OK() && res.Value == nil {
		res.Value = []T{}
	}
	return res
}

// exec is call for operations whose payload is ignored.
func exec(ctx context.Context, c *Client, op, method, path string, body any) Result[Empty] {
	env, err := c.do(ctx, op, method, path, nil, body)
	if err != nil {
		return errResult[Empty](err)
	}
	return okResult(Empty{}, env.message)
}

func idPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
