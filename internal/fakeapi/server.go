// Package fakeapi provides an in-memory LearnConnect API server for
// testing purposes.
//
// It serves the same routes as the real backend under /api, issues HS256
// JWT access tokens and checks bcrypt-hashed passwords. The seed data
// contains the demo account abc@abc.com with password abc123.
//
// To flexibly inject failures, register a Failure for a route name (see
// the Route* constants). A failure can force a status code and detail,
// delay the response, or replace the body with bytes that are not JSON.
package fakeapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/learnconnect/learnconnect.go/internal/codec"
	"github.com/learnconnect/learnconnect.go/pkg/models"
)

// Route names accepted by Inject and Requests.
const (
	RouteHealth         = "health"
	RouteSignup         = "auth.signup"
	RouteLogin          = "auth.login"
	RouteMe             = "auth.me"
	RouteDashboard      = "dashboard"
	RouteSearch         = "search"
	RouteListGroups     = "groups.list"
	RouteCreateGroup    = "groups.create"
	RouteGetGroup       = "groups.get"
	RouteJoinGroup      = "groups.join"
	RouteLeaveGroup     = "groups.leave"
	RouteShareResource  = "groups.resources"
	RouteListDoubts     = "doubts.list"
	RouteCreateDoubt    = "doubts.create"
	RouteDeleteDoubt    = "doubts.delete"
	defaultSecret       = "learnconnect-fake-secret"
	defaultTokenExpires = 30 * time.Minute
)

// Failure describes how a matching request fails.
type Failure struct {
	// Status, when non-zero, is returned instead of running the handler.
	Status int
	// Detail is the error message sent with Status.
	Detail string
	// Delay is applied before the request is handled.
	Delay time.Duration
	// Garbage replaces a successful body with invalid JSON.
	Garbage bool
	// Body, when set, is sent verbatim with status 200 instead of running
	// the handler.
	Body string
	// Times limits how often the failure fires; 0 means always.
	Times int
}

// Server is a fake LearnConnect API.
type Server struct {
	addr     string
	listener net.Listener
	server   *http.Server
	router   *mux.Router
	codec    codec.JSON

	secret       []byte
	tokenExpires time.Duration

	mu       sync.Mutex
	data     *dataset
	failures map[string]*Failure
	requests map[string]int
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the HS256 signing key.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

func WithTokenExpiry(d time.Duration) Option {
	return func(s *Server) { s.tokenExpires = d }
}

// NewServer creates a fake API with the seed data loaded.
// Use "127.0.0.1:0" to bind to a random available port.
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:         addr,
		secret:       []byte(defaultSecret),
		tokenExpires: defaultTokenExpires,
		data:         seed(),
		failures:     make(map[string]*Failure),
		requests:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.track)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet).Name(RouteHealth)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost).Name(RouteSignup)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost).Name(RouteLogin)
	api.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet).Name(RouteMe)

	api.HandleFunc("/dashboard", s.authed(s.handleDashboard)).Methods(http.MethodGet).Name(RouteDashboard)
	api.HandleFunc("/search/{topic}", s.authed(s.handleSearch)).Methods(http.MethodGet).Name(RouteSearch)

	api.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet).Name(RouteListGroups)
	api.HandleFunc("/groups", s.authed(s.handleCreateGroup)).Methods(http.MethodPost).Name(RouteCreateGroup)
	api.HandleFunc("/groups/{id:[0-9]+}", s.handleGetGroup).Methods(http.MethodGet).Name(RouteGetGroup)
	api.HandleFunc("/groups/{id:[0-9]+}/join", s.authed(s.handleJoinGroup)).Methods(http.MethodPost).Name(RouteJoinGroup)
	api.HandleFunc("/groups/{id:[0-9]+}/leave", s.authed(s.handleLeaveGroup)).Methods(http.MethodPost).Name(RouteLeaveGroup)
	api.HandleFunc("/groups/{id:[0-9]+}/resources", s.authed(s.handleShareResource)).Methods(http.MethodPost).Name(RouteShareResource)

	api.HandleFunc("/doubts", s.handleListDoubts).Methods(http.MethodGet).Name(RouteListDoubts)
	api.HandleFunc("/doubts", s.authed(s.handleCreateDoubt)).Methods(http.MethodPost).Name(RouteCreateDoubt)
	api.HandleFunc("/doubts/{id:[0-9]+}", s.authed(s.handleDeleteDoubt)).Methods(http.MethodDelete).Name(RouteDeleteDoubt)

	return router
}

// Handler returns the server's router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()
	return nil
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Address returns the listening address once started.
func (s *Server) Address() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// BaseURL returns the API root of a started server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address() + "/api"
}

// Inject registers f for every request to route.
func (s *Server) Inject(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = &f
}

// ClearFailures removes all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]*Failure)
}

// Requests reports how many requests reached route.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// SetSearchResults fixes the results returned for query. Other queries get
// generated sample results.
func (s *Server) SetSearchResults(query string, res models.SearchResults) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.searchResults[query] = res
}

// track counts requests and applies injected failures.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		s.mu.Lock()
		s.requests[name]++
		var f Failure
		if inj, ok := s.failures[name]; ok {
			f = *inj
			if inj.Times > 0 {
				inj.Times--
				if inj.Times == 0 {
					delete(s.failures, name)
				}
			}
		}
		s.mu.Unlock()

		if f.Delay > 0 {
			select {
			case <-time.After(f.Delay):
			case <-r.Context().Done():
				return
			}
		}
		if f.Status != 0 {
			s.respondError(w, f.Status, f.Detail)
			return
		}
		if f.Garbage {
			f.Body = "{not json"
		}
		if f.Body != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(f.Body))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = s.codec.NewEncoder(w).Encode(payload)
	}
}

// respondError sends the {"detail": message} body the real API uses.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	s.respondJSON(w, status, map[string]string{"detail": message})
}
