package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofrs/uuid"

	"github.com/learnconnect/learnconnect.go/internal/codec"
	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
)

type Connection struct {
	BaseURL     string
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler

	httpClient *http.Client
	tokens     connection.TokenSource
	logger     logger.Logger
}

func New(p *connection.Config) *Connection {
	con := Connection{
		Marshaler:   p.Marshaler,
		Unmarshaler: p.Unmarshaler,
		BaseURL:     strings.TrimRight(p.BaseURL, "/"),
		tokens:      p.Tokens,
		logger:      logger.OrNop(p.Logger),
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	con.httpClient = &http.Client{
		Timeout: timeout, // Set a default timeout to avoid hanging requests
	}

	return &con
}

func (c *Connection) SetTimeout(timeout time.Duration) *Connection {
	c.httpClient.Timeout = timeout
	return c
}

func (c *Connection) SetHTTPClient(client *http.Client) *Connection {
	c.httpClient = client
	return c
}

func (c *Connection) SetTokenSource(tokens connection.TokenSource) *Connection {
	c.tokens = tokens
	return c
}

// Do sends req and decodes a successful body into out.
func (c *Connection) Do(ctx context.Context, req *connection.Request, out any) error {
	if c.BaseURL == "" {
		return constants.ErrNoBaseURL
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	respData, status, err := c.MakeRequest(httpReq)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		c.logger.Warn("request rejected",
			"op", req.Op, "method", req.Method, "path", req.Path, "status", status)
		return &connection.APIError{
			Op:         req.Op,
			StatusCode: status,
			Detail:     ExtractDetail(respData),
		}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(respData)) == 0 {
		return &connection.DecodeError{Op: req.Op, Err: io.ErrUnexpectedEOF}
	}
	if err := c.Unmarshaler.Unmarshal(respData, out); err != nil {
		c.logger.Warn("undecodable response", "op", req.Op, "path", req.Path, "error", err.Error())
		return &connection.DecodeError{Op: req.Op, Err: err}
	}
	return nil
}

func (c *Connection) newRequest(ctx context.Context, req *connection.Request) (*http.Request, error) {
	target := c.BaseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if req.Body != nil {
		if c.Marshaler == nil {
			return nil, constants.ErrNoMarshaler
		}
		reqBody, err := c.Marshaler.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", c.Marshaler.ContentType())
	}
	if id, err := uuid.NewV4(); err == nil {
		httpReq.Header.Set(constants.RequestIDHeader, id.String())
	}

	if req.Auth {
		token, ok := "", false
		if c.tokens != nil {
			token, ok = c.tokens.Token(ctx)
		}
		if !ok || token == "" {
			return nil, constants.ErrAuthRequired
		}
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	return httpReq, nil
}

// MakeRequest executes req and returns the raw body with the status code.
// Failures to obtain a response at all are reported as
// *connection.TransportError; a cancelled context is returned as is.
func (c *Connection) MakeRequest(req *http.Request) ([]byte, int, error) {
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		c.logger.Warn("transport failure",
			"method", req.Method, "url", req.URL.Redacted(), "error", err.Error())
		return nil, 0, &connection.TransportError{BaseURL: c.BaseURL, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &connection.TransportError{BaseURL: c.BaseURL, Err: err}
	}

	c.logger.Debug("request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(constants.RequestIDHeader),
		"elapsed", time.Since(started).String())

	return respBytes, resp.StatusCode, nil
}

// ExtractDetail pulls the human-readable message out of an error body.
// It understands {"detail": "..."}, validation lists of the form
// {"detail": [{"msg": "..."}]} and {"message": "..."}.
func ExtractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if s, err := jsonparser.GetString(body, "detail"); err == nil {
		return s
	}
	if s, err := jsonparser.GetString(body, "detail", "[0]", "msg"); err == nil {
		return s
	}
	if s, err := jsonparser.GetString(body, "message"); err == nil {
		return s
	}
	return ""
}
