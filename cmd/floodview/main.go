package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/couchcryptid/flood-risk-viewer/internal/adapter/floodapi"
	"github.com/couchcryptid/flood-risk-viewer/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/flood-risk-viewer/internal/adapter/kafka"
	"github.com/couchcryptid/flood-risk-viewer/internal/app"
	"github.com/couchcryptid/flood-risk-viewer/internal/chat"
	"github.com/couchcryptid/flood-risk-viewer/internal/config"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/couchcryptid/flood-risk-viewer/internal/observability"
	"github.com/couchcryptid/flood-risk-viewer/internal/presenter"
	"github.com/couchcryptid/flood-risk-viewer/internal/ui"
	"github.com/couchcryptid/flood-risk-viewer/internal/viewstate"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	headless := flag.Bool("headless", false, "serve diagnostics and run the API self-test without the terminal UI")
	flag.Parse()

	// A missing .env is fine; the environment alone is a complete config.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal UI owns stdout, so logs go to a file unless headless.
	var logOut io.Writer = os.Stderr
	if !*headless {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			slog.Error("failed to open log file", "path", cfg.LogFile, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}

	logger := observability.NewLogger(cfg, logOut)
	metrics := observability.NewMetrics()

	if err := run(cfg, *headless, logger, metrics); err != nil {
		logger.Error("viewer exited with error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, headless bool, logger *slog.Logger, metrics *observability.Metrics) error {
	client := floodapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, metrics, logger)

	bar, err := viewstate.NewMemoryAddressBar(cfg.InitialURL)
	if err != nil {
		return err
	}
	store := viewstate.New(bar, logger)
	unwatch := store.Subscribe(func(level domain.FloodLevel) {
		logger.Debug("address updated", "level", level.String(), "address", store.Address())
	})
	defer unwatch()

	maps := presenter.NewMapPresenter(client, presenter.NewMemorySurface(), store, logger, metrics)
	stats := presenter.NewStatisticsPanel(client, store, logger, metrics)

	var strategy chat.Strategy
	switch cfg.ChatMode {
	case config.ChatModeLocal:
		strategy = chat.NewLocal(clockwork.NewRealClock(), cfg.ChatLocalDelay)
	default:
		strategy = chat.NewRemote(client)
	}
	session := chat.NewSession(strategy, logger, metrics)

	var sink app.EventSink = app.NopSink{}
	if cfg.EventsEnabled {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		sink = publisher
		metrics.EventsEnabled.Set(1)
		logger.Info("interaction events enabled", "topic", cfg.KafkaEventsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("interaction events disabled")
	}

	ctrl := app.New(store, maps, stats, session, sink, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, ctrl, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	if headless {
		g.Go(func() error {
			if !ctrl.SelfTest(gctx) {
				logger.Warn("flood api self-test failed", "base_url", cfg.APIBaseURL)
			}
			if err := ctrl.Start(gctx); err != nil {
				logger.Warn("initial render failed", "error", err)
			}
			<-gctx.Done()
			return nil
		})
	} else {
		g.Go(func() error {
			defer stop()
			return runTUI(gctx, ctrl, session, logger)
		})
	}

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}

func runTUI(ctx context.Context, ctrl *app.Controller, session *chat.Session, logger *slog.Logger) error {
	prog := tea.NewProgram(ui.New(ctx, ctrl, logger),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Chat replies land off the UI loop; nudge the model so the transcript
	// shows them without waiting for the next tick.
	unsubscribe := session.Subscribe(func(chat.Snapshot) {
		go prog.Send(ui.RefreshMsg{})
	})
	defer unsubscribe()

	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
