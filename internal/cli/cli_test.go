package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnconnect/learnconnect.go/internal/fakeapi"
	"github.com/learnconnect/learnconnect.go/internal/testenv"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type harness struct {
	t   *testing.T
	url string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	e := testenv.New(t)

	t.Setenv("LEARNCONNECT_SESSION_PATH", filepath.Join(t.TempDir(), "session.db"))
	t.Setenv("LEARNCONNECT_LOG_LEVEL", "error")
	return &harness{t: t, url: e.URL}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--url", h.url, "--env", ""}, args...)
	err := Main(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	_, _, err := h.run("login", "--email", fakeapi.SeedEmail, "--password", fakeapi.SeedPassword)
	require.NoError(h.t, err)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("health")
	require.NoError(t, err)
	assert.Contains(t, out, "status: ok")
}

func TestLoginThenDashboard(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("login", "--email", fakeapi.SeedEmail, "--password", fakeapi.SeedPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "-> "+constants.RouteDashboard)
	assert.Contains(t, out, "signed in as "+fakeapi.SeedEmail)

	out, _, err = h.run("dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome back, abc")
	assert.Contains(t, out, "recent searches: 2  joined groups: 1  recommended topics: 5")
	assert.Contains(t, out, "Gophers")
}

func TestWrongPasswordShowsDetail(t *testing.T) {
	h := newHarness(t)
	_, errOut, err := h.run("login", "--email", fakeapi.SeedEmail, "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, errOut, "Invalid email or password")

	out, _, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not signed in")
}

func TestGuardedCommandWithoutSession(t *testing.T) {
	h := newHarness(t)
	out, errOut, err := h.run("groups", "list")
	require.ErrorIs(t, err, constants.ErrAuthRequired)
	assert.Contains(t, errOut, "learnconnect login")
	assert.Contains(t, out, "-> "+constants.RouteLogin)
}

func TestWhoamiAndLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, _, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "abc <"+fakeapi.SeedEmail+">")

	out, _, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "-> "+constants.RouteHome)

	out, _, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not signed in")
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, _, err := h.run("search", "rust", "lifetimes")
	require.NoError(t, err)
	assert.Contains(t, out, "Videos")
	assert.Contains(t, out, "Sample rust lifetimes Article 1")
}

func TestGroupsJoinShowAndLeave(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, _, err := h.run("groups", "join", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "joined group #1")
	assert.Contains(t, out, "* #1 React Study Circle")

	out, _, err = h.run("groups", "share", "1", "--title", "Hooks", "--url", "https://react.dev/reference/react")
	require.NoError(t, err)
	assert.Contains(t, out, "shared Hooks (1 resources)")

	out, _, err = h.run("groups", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[article] Hooks")

	out, _, err = h.run("groups", "leave", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "-> "+constants.RouteGroups)

	_, errOut, err := h.run("groups", "leave", "1")
	require.Error(t, err)
	assert.Contains(t, errOut, "Not a member of this group")
}

func TestGroupsCreateValidation(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, errOut, err := h.run("groups", "create", "--title", "Rustaceans")
	require.Error(t, err)
	assert.Contains(t, errOut, "topic_id")

	out, _, err := h.run("groups", "create", "--title", "Rustaceans", "--topic", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Rustaceans")
}

func TestDoubtsAskListDelete(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, _, err := h.run("doubts", "ask", "--topic", "Go", "--title", "Why nil maps?", "--description", "Writes panic")
	require.NoError(t, err)
	assert.Contains(t, out, "posted #2 Why nil maps?")

	out, _, err = h.run("doubts", "list", "--topic", "Go")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 [Go] Why nil maps?  by abc")
	assert.NotContains(t, out, "Generators")

	_, errOut, err := h.run("doubts", "delete", "1")
	require.Error(t, err)
	assert.Contains(t, errOut, "Not authorized to delete this doubt")

	out, _, err = h.run("doubts", "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted #2")
}

func TestInvalidIDArgument(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, errOut, err := h.run("groups", "join", "abc")
	require.Error(t, err)
	assert.Contains(t, errOut, `invalid id "abc"`)
}

func TestTextLogFormat(t *testing.T) {
	h := newHarness(t)
	t.Setenv("LEARNCONNECT_LOG_FORMAT", "text")
	t.Setenv("LEARNCONNECT_LOG_LEVEL", "info")

	_, errOut, err := h.run("login", "--email", fakeapi.SeedEmail, "--password", fakeapi.SeedPassword)
	require.NoError(t, err)
	assert.Contains(t, errOut, `level=INFO msg="signed in" user=`+fakeapi.SeedEmail)
}
