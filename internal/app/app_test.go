package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
	testhelpers "github.com/polkiloo/catering/internal/test"
	"github.com/polkiloo/catering/internal/usecase"
	"github.com/polkiloo/catering/internal/worker"
)

func newTestMonitor() *worker.OverdueMonitor {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewOverdueMonitor(&testhelpers.MonitorFacadeStub{}, 10*time.Millisecond, 1, logger)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewOverdueMonitorUsesConfig(t *testing.T) {
	monitor := newOverdueMonitor(monitorParams{
		Facade: &CateringFacade{},
		Config: &config.Config{OverduePollInterval: 15 * time.Second, ReminderWorkers: 3, WorkerPoolSize: 8},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if monitor.Workers() != 3 {
		t.Fatalf("expected reminder workers from config, got %d", monitor.Workers())
	}
	if monitor.PollInterval() != 15*time.Second {
		t.Fatalf("expected poll interval 15s, got %v", monitor.PollInterval())
	}
}

type rebuilderStub struct {
	result usecase.RebuildResult
	err    error
	calls  int
}

func (r *rebuilderStub) RebuildAnalytics(context.Context) (usecase.RebuildResult, error) {
	r.calls++
	return r.result, r.err
}

func TestRebuildAnalyticsLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rebuilder := &rebuilderStub{result: usecase.RebuildResult{Synced: 12, Failed: 1}}
	rebuildAnalytics(context.Background(), rebuilder, logger)
	if rebuilder.calls != 1 {
		t.Fatalf("expected one rebuild, got %d", rebuilder.calls)
	}
	if out := buf.String(); !strings.Contains(out, `"synced":12`) || !strings.Contains(out, `"failed":1`) {
		t.Fatalf("unexpected log output %s", out)
	}

	buf.Reset()
	rebuildAnalytics(context.Background(), &rebuilderStub{err: errors.New("orders unavailable")}, logger)
	if out := buf.String(); !strings.Contains(out, "analytics rebuild failed") || !strings.Contains(out, "orders unavailable") {
		t.Fatalf("unexpected log output %s", out)
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Monitor:    newTestMonitor(),
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleMonitorOutlivesStartContext(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	facade := &testhelpers.MonitorFacadeStub{}
	monitor := worker.NewOverdueMonitor(facade, 5*time.Millisecond, 1, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Server:     &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		Monitor:    monitor,
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	hook := recorder.Hooks[0]
	startCtx, cancel := context.WithCancel(context.Background())
	if err := hook.OnStart(startCtx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	cancel()

	polls := facade.Polls()
	deadline := time.After(time.Second)
	for facade.Polls() < polls+2 {
		select {
		case <-deadline:
			t.Fatal("monitor stopped together with the start context")
		case <-time.After(5 * time.Millisecond):
		}
	}
	_ = hook.OnStop(context.Background())
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := &http.Server{Addr: "bad addr"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Monitor:    newTestMonitor(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderAppend(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	hook := fx.Hook{}
	recorder.Append(hook)
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected hook to be appended")
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
}
