package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ecoconnect/internal/client/apiclient"
	"github.com/dmitrijs2005/ecoconnect/internal/client/config"
	"github.com/dmitrijs2005/ecoconnect/internal/client/session"
	"github.com/dmitrijs2005/ecoconnect/internal/client/tokenstore"
)

// ---- fake API server ----

type fakeUser struct {
	id          string
	email       string
	password    string
	firstName   string
	accountType int
	archived    bool
}

type fakeServer struct {
	mu    sync.Mutex
	users map[string]*fakeUser // by token
	hits  []string
}

// newFakeServer serves copies of users, so archiving in one test never leaks
// into another.
func newFakeServer(t *testing.T, users ...*fakeUser) (*httptest.Server, *fakeServer) {
	t.Helper()
	fs := &fakeServer{users: map[string]*fakeUser{}}
	for _, u := range users {
		copied := *u
		fs.users["tok-"+u.id] = &copied
	}
	srv := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(srv.Close)
	return srv, fs
}

func (fs *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.hits = append(fs.hits, r.Method+" "+r.URL.Path)

	w.Header().Set("Content-Type", "application/json")
	writeJSON := func(status int, v any) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	current := fs.users[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]

	switch {
	case r.URL.Path == "/health":
		writeJSON(http.StatusOK, map[string]string{"status": "ok"})

	case r.URL.Path == "/users/login":
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		for tok, u := range fs.users {
			if u.email == body.Email && u.password == body.Password && !u.archived {
				writeJSON(http.StatusOK, map[string]any{"accessToken": tok, "user": map[string]any{"id": u.id, "firstName": u.firstName}})
				return
			}
		}
		writeJSON(http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})

	case r.URL.Path == "/users/register":
		writeJSON(http.StatusCreated, map[string]any{"message": "created", "user": map[string]any{"id": "new"}})

	case r.URL.Path == "/users/auth":
		if current == nil {
			writeJSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
			return
		}
		writeJSON(http.StatusOK, map[string]string{"id": current.id})

	case strings.HasPrefix(r.URL.Path, "/users/individual/"):
		id := strings.TrimPrefix(r.URL.Path, "/users/individual/")
		for _, u := range fs.users {
			if u.id == id && !u.archived {
				writeJSON(http.StatusOK, map[string]any{
					"id": u.id, "firstName": u.firstName, "lastName": "Tester",
					"email": u.email, "accountType": u.accountType, "isArchived": false,
				})
				return
			}
		}
		writeJSON(http.StatusNotFound, map[string]string{"error": "user not found"})

	case r.URL.Path == "/posts":
		writeJSON(http.StatusOK, []map[string]any{{"id": 1, "title": "Cleanup day", "createdAt": "2024-05-01T10:00:00Z"}})

	default:
		writeJSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (fs *fakeServer) archive(id string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, u := range fs.users {
		if u.id == id {
			u.archived = true
		}
	}
}

// ---- harness ----

type harness struct {
	app   *App
	store *tokenstore.Memory
	out   *[]string
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var (
		mu    sync.Mutex
		lines []string
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

// scriptInput feeds answers to the prompt seams in order.
func scriptInput(t *testing.T, answers ...string) {
	t.Helper()
	origText, origPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })

	next := func() (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getPassword = func(_ *bufio.Reader, _ io.Writer) (string, error) { return next() }
}

func newHarness(t *testing.T, srvURL string, stdin string, mutate ...func(*config.Config)) *harness {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srvURL
	cfg.SessionTimeout = 2 * time.Second
	for _, m := range mutate {
		m(cfg)
	}

	store := tokenstore.NewMemory()
	api := apiclient.New(cfg.APIBaseURL, store)
	app := newApp(cfg, nil, store, api, session.NewResolver(api), strings.NewReader(stdin), io.Discard)
	return &harness{app: app, store: store, out: captureOutput(t)}
}

func (h *harness) output() string {
	return strings.Join(*h.out, "\n")
}

var ada = &fakeUser{id: "1", email: "ada@example.com", password: "password1", firstName: "Ada", accountType: 0}

// ---- tests ----

func TestNavigate_ProtectedRedirectsAnonymousToSignIn(t *testing.T) {
	srv, fs := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	scriptInput(t) // sign-in form hits EOF immediately

	err := h.app.Navigate(context.Background(), "dashboard")
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, h.output(), "Loading...")
	assert.Contains(t, h.output(), "== Sign in ==")
	assert.NotContains(t, fs.hits, "GET /users/individual/1")
}

func TestNavigate_SignInLandsOnDashboard(t *testing.T) {
	srv, _ := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	scriptInput(t, "ada@example.com", "password1")

	require.NoError(t, h.app.Navigate(context.Background(), "signin"))

	tok, ok := h.store.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
	assert.Contains(t, h.output(), "Welcome back, Ada!")
	assert.Contains(t, h.output(), "Welcome, Ada Tester (resident)")
}

func TestNavigate_SignedInSkipsEntryForm(t *testing.T) {
	srv, _ := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	h.store.Set(context.Background(), "tok-1")
	scriptInput(t)

	require.NoError(t, h.app.Navigate(context.Background(), "signup"))
	assert.NotContains(t, h.output(), "== Create an account ==")
	assert.Contains(t, h.output(), "Welcome, Ada Tester (resident)")
}

func TestNavigate_BadCredentialsShowToast(t *testing.T) {
	srv, _ := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	scriptInput(t, "ada@example.com", "wrong-pass")

	require.NoError(t, h.app.Navigate(context.Background(), "signin"))
	assert.Contains(t, h.output(), "Sign in failed: invalid email or password")
	_, ok := h.store.Get(context.Background())
	assert.False(t, ok)
}

func TestNavigate_ArchivedAccountLosesAccess(t *testing.T) {
	srv, fs := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	h.store.Set(context.Background(), "tok-1")
	scriptInput(t)

	require.NoError(t, h.app.Navigate(context.Background(), "posts"))
	assert.Contains(t, h.output(), "[1] Cleanup day  (2024-05-01)")

	fs.archive("1")
	err := h.app.Navigate(context.Background(), "posts")
	assert.ErrorIs(t, err, io.EOF, "ends on the sign-in form")
	assert.Contains(t, h.output(), "== Sign in ==")
}

func TestNavigate_ArchivedAccountInaccessibleRoute(t *testing.T) {
	srv, fs := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "", func(c *config.Config) { c.InaccessibleRoute = routeInaccessible })
	h.store.Set(context.Background(), "tok-1")
	fs.archive("1")

	require.NoError(t, h.app.Navigate(context.Background(), "dashboard"))
	assert.Contains(t, h.output(), "This account is no longer accessible. Contact an administrator.")
	_, ok := h.store.Get(context.Background())
	assert.False(t, ok)
}

func TestNavigate_AdminOnly(t *testing.T) {
	admin := &fakeUser{id: "2", email: "root@example.com", password: "password2", firstName: "Root", accountType: 2}
	srv, _ := newFakeServer(t, ada, admin)

	h := newHarness(t, srv.URL, "")
	h.store.Set(context.Background(), "tok-1")
	require.NoError(t, h.app.Navigate(context.Background(), "admin"))
	assert.NotContains(t, h.output(), "== Administrator console ==")
	assert.Contains(t, h.output(), "Welcome, Ada Tester (resident)")

	h2 := newHarness(t, srv.URL, "")
	h2.store.Set(context.Background(), "tok-2")
	require.NoError(t, h2.app.Navigate(context.Background(), "admin"))
	assert.Contains(t, h2.output(), "== Administrator console ==")
	assert.Contains(t, h2.output(), `"email": "root@example.com"`)
}

func TestNavigate_FeatureErrorIsToast(t *testing.T) {
	srv, _ := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	h.store.Set(context.Background(), "tok-1")

	require.NoError(t, h.app.Navigate(context.Background(), "vouchers"))
	assert.Contains(t, h.output(), "Loading vouchers failed: not found")
}

func TestNavigate_Feedback(t *testing.T) {
	srv, fs := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "4\nLovely park\n\n")
	h.store.Set(context.Background(), "tok-1")

	require.NoError(t, h.app.Navigate(context.Background(), "feedback"))
	assert.Contains(t, fs.hits, "POST /feedback")
	assert.Contains(t, h.output(), "Sending feedback failed: not found")
}

func TestNavigate_UnknownView(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")
	assert.ErrorIs(t, h.app.Navigate(context.Background(), "nope"), errUnknownView)
}

func TestNavigate_UnreachableServerRendersEntryForm(t *testing.T) {
	srv, _ := newFakeServer(t)
	url := srv.URL
	srv.Close()

	h := newHarness(t, url, "")
	h.store.Set(context.Background(), "stale")
	scriptInput(t)

	err := h.app.Navigate(context.Background(), "signin")
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, h.output(), "== Sign in ==")

	_, ok := h.store.Get(context.Background())
	assert.False(t, ok, "dispatch failure clears the token")
}

func TestSignOut(t *testing.T) {
	srv, _ := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	h.store.Set(context.Background(), "tok-1")
	scriptInput(t)

	err := h.app.SignOut(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, h.output(), "Signed out.")
	_, ok := h.store.Get(context.Background())
	assert.False(t, ok)
}

func TestRoutes(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")
	assert.Equal(t, []string{"signin", "signup"}, h.app.routes(false))
	assert.Equal(t, []string{"admin", "dashboard", "events", "feedback", "posts", "profile", "schedules", "vouchers"}, h.app.routes(true))
}

func TestRun_EndsOnEOF(t *testing.T) {
	srv, fs := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	scriptInput(t)

	require.NoError(t, h.app.Run(context.Background()))
	assert.Contains(t, h.output(), "Welcome to ecoconnect (type 'help' for commands)")
	assert.Contains(t, fs.hits, "GET /health")
}

func TestNewApp_PersistsTokenAcrossRuns(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StatePath = filepath.Join(t.TempDir(), "state", "ecoconnect.db")
	ctx := context.Background()

	first, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	first.store.Set(ctx, "tok-1")
	first.Close()

	second, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()
	got, ok := second.store.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", got)
}

func TestNewApp_EphemeralTouchesNoFiles(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Ephemeral = true
	cfg.StatePath = filepath.Join(t.TempDir(), "ecoconnect.db")

	app, err := NewApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &tokenstore.Memory{}, app.store)
	_, statErr := os.Stat(cfg.StatePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFakeServer_ArchiveIsPerServer(t *testing.T) {
	_, first := newFakeServer(t, ada)
	first.archive(ada.id)
	assert.False(t, ada.archived)

	srv, _ := newFakeServer(t, ada)
	h := newHarness(t, srv.URL, "")
	h.store.Set(context.Background(), "tok-"+ada.id)
	scriptInput(t)

	require.NoError(t, h.app.Navigate(context.Background(), "profile"))
	assert.Contains(t, h.output(), "Ada")
}
