package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/elite/internal/client/api"
	"github.com/dmitrijs2005/elite/internal/client/config"
	"github.com/dmitrijs2005/elite/internal/client/connectivity"
	"github.com/dmitrijs2005/elite/internal/client/environment"
	"github.com/dmitrijs2005/elite/internal/client/models"
	"github.com/dmitrijs2005/elite/internal/client/poller"
	"github.com/dmitrijs2005/elite/internal/client/services"
	"github.com/dmitrijs2005/elite/internal/client/session"
	"github.com/dmitrijs2005/elite/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// backend is the part of *api.Client the App talks to directly.
type backend interface {
	BaseURL() string
	Reachable(ctx context.Context) bool
}

// sessionService is the part of *session.Store the App uses.
type sessionService interface {
	Snapshot() session.State
	Load(ctx context.Context)
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, reg models.Registration) (models.UserProfile, error)
	RefreshProfile(ctx context.Context) error
	Logout(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	out    io.Writer
	reader *bufio.Reader

	backend       backend
	session       sessionService
	courses       services.CourseService
	quizzes       services.QuizService
	messages      services.MessageService
	opportunities services.OpportunityService
	rewards       services.RewardService
	catalog       services.CatalogService

	modeMu sync.Mutex
	mode   Mode

	closers []func() error
}

// NewApp opens the store, resolves the backend and builds every service.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	a := &App{
		config: c,
		logger: logger,
		out:    os.Stdout,
		reader: bufio.NewReader(os.Stdin),
	}

	repo, closeStore, err := openStore(ctx, c)
	if err != nil {
		logger.Error(ctx, "error initializing store", "path", c.StorePath, "error", err)
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	httpClient := &http.Client{}
	prober := connectivity.NewProber(httpClient, c.ProbeTimeout)
	baseURL := environment.NewResolver(c.Candidates(), prober, logger).Resolve(ctx)
	if baseURL == "" {
		_ = a.Close()
		return nil, errors.New("no backend URL configured")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := api.New(repo, api.Options{
		BaseURL:        baseURL,
		Timeout:        c.RequestTimeout,
		HTTPClient:     httpClient,
		Checker:        prober,
		Logger:         logger,
		Metrics:        api.NewMetrics(reg),
		Trace:          !c.Production(),
		RefreshEnabled: c.RefreshEnabled,
		RefreshLeeway:  c.RefreshLeeway,
	})

	sess := session.New(repo, client, logger)
	a.closers = append(a.closers, func() error { sess.Close(); return nil })

	a.backend = client
	a.session = sess
	a.courses = services.NewCourseService(client, logger)
	a.quizzes = services.NewQuizService(client)
	a.messages = services.NewMessageService(client)
	a.opportunities = services.NewOpportunityService(client)
	a.rewards = services.NewRewardService(client)
	a.catalog = services.NewCatalogService(client)

	if c.MetricsAddr != "" {
		stop := startMetricsServer(c.MetricsAddr, reg, logger)
		a.closers = append(a.closers, stop)
	}

	logger.Info(ctx, "client ready", "base_url", baseURL, "env", c.Env)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}

// StartOnlineStatusWatcher probes the backend every interval and reports
// mode changes. The caller stops the returned poller.
func (a *App) StartOnlineStatusWatcher(ctx context.Context) (*poller.Poller, error) {
	p, err := poller.New("online-status", a.config.OnlineCheckInterval, func(ctx context.Context) {
		if a.backend.Reachable(ctx) {
			a.setMode(ModeOnline)
		} else {
			a.setMode(ModeOffline)
		}
	}, poller.Options{Timeout: a.config.ProbeTimeout, Immediate: true, Logger: a.logger})
	if err != nil {
		return nil, err
	}
	if err := p.Start(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Run restores the saved session, starts the status watcher and blocks in
// the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.session.Load(ctx)

	fmt.Fprintln(a.out, "Welcome to Elite (type 'help' for commands)")
	if st := a.session.Snapshot(); st.Authenticated() {
		fmt.Fprintf(a.out, "Signed in as %s\n", st.User.DisplayName())
	}

	watcher, err := a.StartOnlineStatusWatcher(ctx)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}
