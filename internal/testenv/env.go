// Package testenv wires a client, a session store and a navigator to an
// in-process fake API for tests.
package testenv

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	learnconnect "github.com/learnconnect/learnconnect.go"
	"github.com/learnconnect/learnconnect.go/internal/fakeapi"
	"github.com/learnconnect/learnconnect.go/pkg/credential"
	logslog "github.com/learnconnect/learnconnect.go/pkg/logger/slog"
	"github.com/learnconnect/learnconnect.go/pkg/views"
)

// Env is one isolated fake backend plus everything a view needs.
type Env struct {
	API      *fakeapi.Server
	URL      string
	Client   *learnconnect.Client
	Sessions *credential.Store
	Nav      *NavRecorder
	Logs     *LogHandler
}

// New starts a fake API that is closed when t finishes.
func New(t testing.TB, opts ...fakeapi.Option) *Env {
	t.Helper()
	api := fakeapi.NewServer("127.0.0.1:0", opts...)
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)

	sessions := credential.NewWithBackend(credential.NewMemoryBackend())
	client, err := learnconnect.FromURLString(ts.URL+"/api", sessions)
	require.NoError(t, err)

	return &Env{
		API:      api,
		URL:      ts.URL + "/api",
		Client:   client,
		Sessions: sessions,
		Nav:      &NavRecorder{},
		Logs:     NewLogHandler(nil),
	}
}

// Deps returns view dependencies that log into e.Logs.
func (e *Env) Deps() views.Deps {
	return views.Deps{
		API:      e.Client,
		Sessions: e.Sessions,
		Nav:      e.Nav,
		Logger:   logslog.New(e.Logs),
	}
}

// Login signs in as the seeded demo user.
func (e *Env) Login(t testing.TB) {
	t.Helper()
	err := views.NewLogin(e.Deps()).Submit(context.Background(), fakeapi.SeedEmail, fakeapi.SeedPassword)
	require.NoError(t, err)
}

// NavRecorder records navigations instead of performing them.
type NavRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (n *NavRecorder) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *NavRecorder) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}
