package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/nurpe/rental-desk/internal/session"
)

const maxBodySize = 32 << 20

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	RetryStatuses []int
	HTTPClient    *http.Client
}

// Client talks JSON to the rental backend. The bearer token is taken from the
// session attached to each call's context.
type Client struct {
	baseURL       string
	http          *http.Client
	maxRetries    uint64
	backoff       time.Duration
	retryStatuses map[int]struct{}
	log           zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = time.Millisecond
	}
	statuses := make(map[int]struct{}, len(opts.RetryStatuses))
	for _, status := range opts.RetryStatuses {
		statuses[status] = struct{}{}
	}
	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		http:          httpClient,
		maxRetries:    uint64(retries),
		backoff:       backoff,
		retryStatuses: statuses,
		log:           log.With().Str("component", "apiclient").Logger(),
	}
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

// Upload posts a single file as multipart form data together with extra
// form fields.
func (c *Client) Upload(ctx context.Context, path, field, fileName string, content []byte, fields map[string]string, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile(field, fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// Download fetches a raw payload such as the Excel import template.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, "", err
	}
	return resp.body, resp.header.Get("Content-Type"), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req := request{method: method, path: path, query: query}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.body = payload
		req.contentType = "application/json"
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func decode(resp *response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req request) (*response, error) {
	sess := session.FromContext(ctx)
	requestID := uuid.NewString()

	retries := c.maxRetries
	if !isIdempotent(req.method) {
		retries = 0
	}

	var (
		result   *response
		attempts int
	)
	backoff := retry.WithMaxRetries(retries, retry.NewConstant(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		resp, err := c.attempt(ctx, req, sess, requestID)
		if err != nil {
			apiErr := &Error{Method: req.method, Path: req.path, Attempts: attempts, cause: err}
			if ctx.Err() != nil {
				return apiErr
			}
			c.log.Warn().Err(err).Str("request_id", requestID).Int("attempt", attempts).Msg("backend unreachable")
			return retry.RetryableError(apiErr)
		}
		if resp.status >= 200 && resp.status < 300 {
			result = resp
			return nil
		}
		apiErr := newStatusError(req, resp.status, resp.body)
		apiErr.Attempts = attempts
		if c.retryableStatus(resp.status) {
			c.log.Warn().Str("request_id", requestID).Int("status", resp.status).Int("attempt", attempts).Msg("backend returned retryable status")
			return retry.RetryableError(apiErr)
		}
		return apiErr
	})
	if err == nil {
		return result, nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		apiErr.Attempts = attempts
		c.handleFailure(apiErr, sess, requestID)
		return nil, apiErr
	}
	// cancelled while waiting between attempts
	return nil, &Error{Method: req.method, Path: req.path, Attempts: attempts, cause: err}
}

func (c *Client) handleFailure(apiErr *Error, sess *session.Session, requestID string) {
	event := c.log.Error()
	if apiErr.StatusCode > 0 && apiErr.StatusCode < 500 {
		event = c.log.Warn()
	}
	event.Err(apiErr).
		Str("request_id", requestID).
		Int("status", apiErr.StatusCode).
		Int("attempts", apiErr.Attempts).
		Msg("backend request failed")

	if apiErr.StatusCode == http.StatusUnauthorized && sess != nil {
		if err := sess.Expire(); err != nil {
			c.log.Error().Err(err).Msg("clear session")
		}
	}
}

func (c *Client) attempt(ctx context.Context, req request, sess *session.Session, requestID string) (*response, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if sess != nil {
		if token := sess.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return &response{status: httpResp.StatusCode, header: httpResp.Header, body: payload}, nil
}

func (c *Client) retryableStatus(status int) bool {
	if status >= 500 {
		return true
	}
	_, ok := c.retryStatuses[status]
	return ok
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}
