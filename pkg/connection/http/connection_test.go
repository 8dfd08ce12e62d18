package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/models"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		// Must be set to non-nil value or it panics
		Header: http.Header{"Content-Type": []string{"application/json"}},
	}
}

type HTTPTestSuite struct {
	suite.Suite
	conn *Connection
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}

func (s *HTTPTestSuite) SetupTest() {
	u, _ := url.Parse("http://test.learnconnect/api")
	cfg := connection.NewConfig(u)
	cfg.Tokens = connection.StaticToken("tok-123")
	s.conn = New(cfg)
}

func (s *HTTPTestSuite) TestAuthorizedGetDecodesBody() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		s.Equal("http://test.learnconnect/api/doubts?topic=React", req.URL.String())
		s.Equal("Bearer tok-123", req.Header.Get("Authorization"))
		s.NotEmpty(req.Header.Get(constants.RequestIDHeader))
		return jsonResponse(200, `[{"id":1,"topic":"React","title":"Why hooks?","description":"d"}]`)
	}))

	var doubts []models.Doubt
	err := s.conn.Do(context.Background(), &connection.Request{
		Op: "Load doubts", Method: http.MethodGet, Path: "/doubts",
		Query: url.Values{"topic": []string{"React"}}, Auth: true,
	}, &doubts)
	s.Require().NoError(err)
	s.Require().Len(doubts, 1)
	s.Equal("Why hooks?", doubts[0].Title)
}

func (s *HTTPTestSuite) TestPostSendsJSONBody() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		s.Equal(http.MethodPost, req.Method)
		s.Equal("application/json", req.Header.Get("Content-Type"))
		body, _ := io.ReadAll(req.Body)
		s.JSONEq(`{"topic":"React","title":"Why hooks?","description":"..."}`, string(body))
		return jsonResponse(200, `{"id":9,"topic":"React","title":"Why hooks?","description":"..."}`)
	}))

	var created models.Doubt
	err := s.conn.Do(context.Background(), &connection.Request{
		Op: "Create doubt", Method: http.MethodPost, Path: "/doubts", Auth: true,
		Body: models.CreateDoubtRequest{Topic: "React", Title: "Why hooks?", Description: "..."},
	}, &created)
	s.Require().NoError(err)
	s.Equal(9, created.ID)
}

func (s *HTTPTestSuite) TestRejectionCarriesDetail() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(403, `{"detail":"Only group members can add resources"}`)
	}))

	err := s.conn.Do(context.Background(), &connection.Request{
		Op: "Share resource", Method: http.MethodPost, Path: "/groups/5/resources", Auth: true,
		Body: map[string]string{"title": "x"},
	}, nil)

	var apiErr *connection.APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(403, apiErr.StatusCode)
	s.Equal("Only group members can add resources", err.Error())
}

func (s *HTTPTestSuite) TestRejectionWithoutDetailUsesOperation() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		return &http.Response{StatusCode: 500, Body: io.NopCloser(bytes.NewBufferString("Internal Server Error")), Header: make(http.Header)}
	}))

	err := s.conn.Do(context.Background(), &connection.Request{Op: "Load groups", Method: http.MethodGet, Path: "/groups", Auth: true}, nil)
	s.Require().Error(err)
	s.Equal("Load groups failed", err.Error())
	s.Equal(500, connection.StatusCode(err))
}

func (s *HTTPTestSuite) TestUndecodableSuccessIsDecodeError() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(200, `<html>oops</html>`)
	}))

	var groups []models.Group
	err := s.conn.Do(context.Background(), &connection.Request{Op: "Load groups", Method: http.MethodGet, Path: "/groups", Auth: true}, &groups)

	var decodeErr *connection.DecodeError
	s.Require().True(errors.As(err, &decodeErr))
	s.Equal("Load groups failed", connection.Message(err, "Load groups"))
}

func (s *HTTPTestSuite) TestEmptySuccessBodyWithTarget() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(200, ``)
	}))

	var g models.Group
	err := s.conn.Do(context.Background(), &connection.Request{Op: "Join group", Method: http.MethodPost, Path: "/groups/1/join", Auth: true}, &g)
	var decodeErr *connection.DecodeError
	s.Require().True(errors.As(err, &decodeErr))
}

func (s *HTTPTestSuite) TestEmptySuccessBodyWithoutTarget() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(204, ``)
	}))

	err := s.conn.Do(context.Background(), &connection.Request{Op: "Delete doubt", Method: http.MethodDelete, Path: "/doubts/3", Auth: true}, nil)
	s.Require().NoError(err)
}

func (s *HTTPTestSuite) TestAuthRequiredWithoutToken() {
	called := false
	s.conn.SetTokenSource(connection.TokenFunc(func(context.Context) (string, bool) { return "", false }))
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		called = true
		return jsonResponse(200, `{}`)
	}))

	err := s.conn.Do(context.Background(), &connection.Request{Op: "Load dashboard", Method: http.MethodGet, Path: "/dashboard", Auth: true}, nil)
	s.Require().ErrorIs(err, constants.ErrAuthRequired)
	s.False(called)
}

func (s *HTTPTestSuite) TestAnonymousRequestHasNoAuthorization() {
	s.conn.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		s.Empty(req.Header.Get("Authorization"))
		return jsonResponse(200, `{"access_token":"t","user":{"id":1,"name":"A","email":"a@a.com"}}`)
	}))

	var resp models.LoginResponse
	err := s.conn.Do(context.Background(), &connection.Request{
		Op: "Login", Method: http.MethodPost, Path: "/auth/login",
		Body: models.LoginRequest{Email: "a@a.com", Password: "p"},
	}, &resp)
	s.Require().NoError(err)
	s.Equal("t", resp.AccessToken)
}

func (s *HTTPTestSuite) TestNoBaseURL() {
	conn := New(&connection.Config{})
	err := conn.Do(context.Background(), &connection.Request{Method: http.MethodGet, Path: "/groups"}, nil)
	s.Require().ErrorIs(err, constants.ErrNoBaseURL)
}

func TestTransportFailureNamesTheServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg, err := connection.NewConfigFromString(base + "/api")
	if err != nil {
		t.Fatal(err)
	}
	conn := New(cfg)

	err = conn.Do(context.Background(), &connection.Request{Op: "Login", Method: http.MethodPost, Path: "/auth/login", Body: map[string]string{}}, nil)

	var transportErr *connection.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if transportErr.BaseURL != base+"/api" {
		t.Fatalf("unexpected base url %q", transportErr.BaseURL)
	}
}

func TestCancelledContextIsNotTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg, _ := connection.NewConfigFromString(srv.URL)
	conn := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := conn.Do(ctx, &connection.Request{Op: "Load groups", Method: http.MethodGet, Path: "/groups"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"detail":"Invalid email or password"}`, "Invalid email or password"},
		{`{"detail":[{"loc":["body","email"],"msg":"field required"}]}`, "field required"},
		{`{"message":"Left group successfully"}`, "Left group successfully"},
		{`not json`, ""},
		{``, ""},
	}
	for _, tc := range cases {
		if got := ExtractDetail([]byte(tc.body)); got != tc.want {
			t.Errorf("ExtractDetail(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}
