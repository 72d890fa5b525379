package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/elite/internal/client/apitest"
	"github.com/dmitrijs2005/elite/internal/client/config"
	"github.com/dmitrijs2005/elite/internal/client/models"
	"github.com/dmitrijs2005/elite/internal/client/services"
	"github.com/dmitrijs2005/elite/internal/client/store"
)

// syncBuffer is written by background watchers while tests read it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = baseURL
	cfg.StorePath = ""
	cfg.OnlineCheckInterval = time.Second
	cfg.ProbeTimeout = time.Second
	cfg.MessagePollInterval = time.Second
	return cfg
}

func newTestApp(t *testing.T) (*App, *apitest.Backend, *syncBuffer) {
	t.Helper()
	b := apitest.New()
	t.Cleanup(b.Close)

	a, err := NewApp(context.Background(), testConfig(b.URL()), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	out := &syncBuffer{}
	a.out = out
	a.reader = rdr("")
	return a, b, out
}

func loginAs(t *testing.T, a *App, b *apitest.Backend, profile func(*models.UserProfile)) {
	t.Helper()
	p := b.AddUser("alice", "secret123")
	if profile != nil {
		profile(&p)
		b.SetProfile(p)
	}
	require.NoError(t, a.session.Login(context.Background(), "alice", "secret123"))
}

func TestNewApp_NoBackend(t *testing.T) {
	cfg := testConfig("")
	cfg.DevelopmentURLs = nil
	_, err := NewApp(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestSetMode_PrintsOnChangeOnly(t *testing.T) {
	out := &syncBuffer{}
	a := &App{out: out}

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Equal(t, "Switched to online mode\n", out.String())

	a.setMode(ModeOnline)
	assert.Equal(t, "Switched to online mode\n", out.String())

	a.setMode(ModeOffline)
	assert.Contains(t, out.String(), "Switched to offline mode")
}

func TestApp_LoginCommand(t *testing.T) {
	a, b, out := newTestApp(t)
	b.AddUser("alice", "secret123")

	orig := getPassword
	getPassword = func(*bufio.Reader, io.Writer) ([]byte, error) { return []byte("secret123"), nil }
	t.Cleanup(func() { getPassword = orig })

	a.reader = rdr("alice\n")
	require.NoError(t, a.Login(context.Background()))

	assert.True(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Welcome, alice!")
	assert.Equal(t, "(alice )", a.getStatus())

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())
}

func TestApp_RegisterCommand(t *testing.T) {
	a, _, out := newTestApp(t)

	orig := getPassword
	getPassword = func(*bufio.Reader, io.Writer) ([]byte, error) { return []byte("longenough"), nil }
	t.Cleanup(func() { getPassword = orig })

	a.reader = rdr("bob\nbob@example.com\nBob\n\n\nDakar\nBAC\n\n")
	require.NoError(t, a.Register(context.Background()))
	assert.Contains(t, out.String(), "Account bob created")
	assert.False(t, a.isLoggedIn())
}

func TestApp_Outline(t *testing.T) {
	a, b, out := newTestApp(t)
	loginAs(t, a, b, nil)

	b.Handle(http.MethodGet, "/api/courses/7/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, models.CoursePack{
			ID: 7, Title: "Go basics",
			Chapters: []models.Chapter{{ID: 1, Title: "Intro", Order: 1}, {ID: 2, Title: "Types", Order: 2}},
		})
	})
	b.Handle(http.MethodGet, "/api/chapters/1/progress/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, models.ChapterProgress{Chapter: 1, Status: models.StatusCompleted})
	})
	b.Handle(http.MethodGet, "/api/chapters/2/progress/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusForbidden, map[string]string{"error": "not purchased"})
	})

	require.NoError(t, a.Outline(context.Background(), []string{"7"}))

	s := out.String()
	assert.Contains(t, s, "Go basics (1/2 completed)")
	assert.Contains(t, s, "COMPLETED")
	assert.Contains(t, s, "LOCKED")
}

func TestApp_QuizPassed(t *testing.T) {
	a, b, out := newTestApp(t)
	loginAs(t, a, b, nil)

	b.Handle(http.MethodGet, "/api/chapters/3/quiz/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, models.Quiz{ID: 1, Chapter: 3, Questions: []models.QuizQuestion{
			{ID: 10, Order: 1, Text: "First?", Choices: []models.QuizChoice{{ID: 100, Text: "a"}, {ID: 101, Text: "b"}}},
			{ID: 20, Order: 2, Text: "Second?", Choices: []models.QuizChoice{{ID: 200, Text: "c"}}},
		}})
	})
	var submitted string
	b.Handle(http.MethodPost, "/api/chapters/3/quiz/submit/", true, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		submitted = string(body)
		apitest.WriteJSON(w, http.StatusOK, models.QuizResult{Score: 16, Passed: true})
	})

	a.reader = rdr("2\n1\ns\n")
	require.NoError(t, a.Quiz(context.Background(), []string{"3"}))

	assert.JSONEq(t, `{"answers":{"10":101,"20":200}}`, submitted)
	assert.Contains(t, out.String(), "Score: 16.0/20 (passed)")
	assert.Contains(t, out.String(), "Congratulations")
}

func TestApp_QuizAbandon(t *testing.T) {
	a, b, out := newTestApp(t)
	loginAs(t, a, b, nil)

	b.Handle(http.MethodGet, "/api/chapters/3/quiz/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, models.Quiz{ID: 1, Questions: []models.QuizQuestion{
			{ID: 10, Choices: []models.QuizChoice{{ID: 100}}},
		}})
	})

	a.reader = rdr("p\n9\nq\n")
	require.NoError(t, a.Quiz(context.Background(), []string{"3"}))
	s := out.String()
	assert.Contains(t, s, "This is the first question.")
	assert.Contains(t, s, "Unknown input.")
	assert.Contains(t, s, "Quiz abandoned.")
	assert.Zero(t, b.Calls(http.MethodPost, "/api/chapters/3/quiz/submit/"))
}

func TestApp_RedeemChecksPointsLocally(t *testing.T) {
	a, b, _ := newTestApp(t)
	loginAs(t, a, b, func(p *models.UserProfile) { p.ReferralPoints = 10 })

	b.Handle(http.MethodGet, "/api/rewards/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, []models.Reward{{ID: 4, Name: "Pack", PointsRequired: 50}})
	})

	err := a.Redeem(context.Background(), []string{"4"})
	require.ErrorIs(t, err, services.ErrInsufficientPoints)
	assert.Zero(t, b.Calls(http.MethodPost, "/api/rewards/4/redeem/"))

	err = a.Redeem(context.Background(), []string{"5"})
	require.ErrorContains(t, err, "no reward 5")
}

func TestApp_SendResolvesUsername(t *testing.T) {
	a, b, out := newTestApp(t)
	loginAs(t, a, b, nil)

	b.Handle(http.MethodGet, "/api/users/search/", true, func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, []models.UserSummary{{ID: 9, Username: r.URL.Query().Get("q"), FirstName: "Bob"}})
	})
	var sent string
	b.Handle(http.MethodPost, "/api/messages/", true, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		sent = string(body)
		apitest.WriteJSON(w, http.StatusCreated, models.ChatMessage{ID: 1, Recipient: 9})
	})

	require.NoError(t, a.Send(context.Background(), []string{"bob", "hello", "there"}))
	assert.JSONEq(t, `{"recipient":9,"message":"hello there"}`, sent)
	assert.Contains(t, out.String(), "Sent to Bob.")

	err := a.Send(context.Background(), []string{"bob"})
	var u usageError
	require.ErrorAs(t, err, &u)
}

func TestApp_ChatShowsThreadAndSends(t *testing.T) {
	a, b, out := newTestApp(t)
	loginAs(t, a, b, nil)

	b.Handle(http.MethodGet, "/api/messages/with_user/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, []models.ChatMessage{
			{ID: 1, Sender: 9, SenderName: "bob", Message: "hi alice", CreatedAt: time.Now()},
		})
	})
	b.Handle(http.MethodPost, "/api/messages/", true, func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusCreated, models.ChatMessage{ID: 2, SenderName: "alice", Message: "hey bob", CreatedAt: time.Now()})
	})

	pr, pw := io.Pipe()
	a.reader = bufio.NewReader(pr)

	done := make(chan error, 1)
	go func() { done <- a.Chat(context.Background(), []string{"9"}) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "hi alice") }, 3*time.Second, 10*time.Millisecond)

	_, err := io.WriteString(pw, "hey bob\n\n")
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("chat did not exit")
	}
	_ = pw.Close()

	s := out.String()
	assert.Equal(t, 1, strings.Count(s, "hi alice"))
	assert.Contains(t, s, "hey bob")
}

func TestApp_Status(t *testing.T) {
	a, b, out := newTestApp(t)

	require.NoError(t, a.Status(context.Background()))
	s := out.String()
	assert.Contains(t, s, b.URL())
	assert.Contains(t, s, "UNINITIALIZED")
	assert.Contains(t, s, "unknown")
}

func TestApp_OnlineStatusWatcher(t *testing.T) {
	a, _, out := newTestApp(t)

	w, err := a.StartOnlineStatusWatcher(context.Background())
	require.NoError(t, err)
	defer w.Stop()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, 3*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "Switched to online mode")
}

func TestApp_RunRestoresSession(t *testing.T) {
	a, b, out := newTestApp(t)
	loginAs(t, a, b, func(p *models.UserProfile) { p.FirstName = "Alice" })

	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })

	a.reader = rdr("whoami\nexit\n")
	require.NoError(t, a.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Signed in as Alice")
	assert.Contains(t, s, "alice (Alice)")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, closeFn, err := openStore(ctx, &config.Config{})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &store.Memory{}, repo)
	})

	t.Run("sqlite sealed", func(t *testing.T) {
		cfg := &config.Config{StorePath: filepath.Join(t.TempDir(), "state", "elite.db"), StoreSecret: "pepper"}
		repo, closeFn, err := openStore(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &store.Sealed{}, repo)

		require.NoError(t, repo.Set(ctx, store.KeyAuthToken, []byte("tok")))
		require.NoError(t, closeFn())

		repo, closeFn, err = openStore(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()
		got, err := store.GetString(ctx, repo, store.KeyAuthToken)
		require.NoError(t, err)
		assert.Equal(t, "tok", got)
	})
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	srv := httptest.NewServer(metricsHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")

	resp2, err := http.Post(srv.URL+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}
