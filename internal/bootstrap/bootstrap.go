package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"ansible-lint-server-go/internal/domain/dispatch"
	"ansible-lint-server-go/internal/domain/lint"
	platformconfig "ansible-lint-server-go/internal/platform/config"
	platformerrors "ansible-lint-server-go/internal/platform/errors"
	platformlogging "ansible-lint-server-go/internal/platform/logging"
	httptransport "ansible-lint-server-go/internal/transport/http"
	"ansible-lint-server-go/internal/transport/http/lintapi"
	"ansible-lint-server-go/internal/transport/http/toolapi"
	"ansible-lint-server-go/internal/transport/mcpserver"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger

	lintService       *lint.Service
	uploadValidator   *lint.Validator
	dispatchValidator *lint.Validator
	dispatcher        *dispatch.Dispatcher
	hub               *dispatch.Hub
}

// Run drives the whole service lifecycle: configuration, dependency
// initialization, serving and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	if state.lintService == nil || state.dispatcher == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"lint service/dispatcher not initialised",
		)
	}

	logBootstrapGraph(steps, logger)

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("BOOT", "service stopped cleanly")
	logger.Close()
	return nil
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	logger.InfoTag("BOOT", "initialization overview")
	for _, step := range steps {
		logger.InfoTag("BOOT", "%s", step.Title)
	}
	logger.InfoTag("BOOT", "starting services")
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph declares the ordered initialization steps and their dependencies.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "lint:init-service",
			Title:     "Initialise lint service",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindLint,
			Execute:   initLintServiceStep,
		},
		{
			ID:        "dispatch:init-dispatcher",
			Title:     "Initialise tool dispatcher",
			DependsOn: []string{"lint:init-service"},
			Kind:      platformerrors.KindDispatch,
			Execute:   initDispatchStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().WithDotEnv(true).Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "config:load", "failed to load configuration", err)
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state == nil || state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init-provider",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialize logging provider", err)
	}

	state.logger = logger
	platformlogging.DefaultLogger = logger

	logger.InfoTag("BOOT", "logging ready [%s] config from %s", state.config.Log.Level, state.configPath)
	return nil
}

func initLintServiceStep(_ context.Context, state *appState) error {
	if state == nil || state.config == nil || state.logger == nil {
		return platformerrors.New(
			platformerrors.KindLint,
			"lint:init-service",
			"missing config/logger",
		)
	}

	cfg := state.config.Lint
	runner := lint.NewRunner(cfg.Command, cfg.Timeout, state.logger)
	gate := lint.NewGate(state.config.Dispatch.MaxConcurrent)

	service, err := lint.NewService(lint.Options{
		Runner:         runner,
		Gate:           gate,
		Command:        cfg.Command,
		DefaultProfile: lint.SanitizeProfile(cfg.DefaultProfile, lint.ProfileBasic, state.logger),
		Logger:         state.logger,
	})
	if err != nil {
		return err
	}

	state.lintService = service
	state.uploadValidator = lint.NewValidator(cfg.MaxUploadBytes)
	state.dispatchValidator = lint.NewValidator(state.config.Dispatch.MaxDocumentBytes)

	if readyErr := service.Ready(); readyErr != nil {
		// Startup still proceeds: syntax-only operations keep working and
		// readiness reports the gap.
		state.logger.WarnTag("LINT", "lint tool unavailable at startup: %v", readyErr)
	}
	return nil
}

func initDispatchStep(_ context.Context, state *appState) error {
	if state == nil || state.config == nil || state.logger == nil || state.lintService == nil {
		return platformerrors.New(
			platformerrors.KindDispatch,
			"dispatch:init-dispatcher",
			"missing config/logger/lint service",
		)
	}

	dispatcher, err := dispatch.NewDispatcher(state.logger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindDispatch, "dispatch:init-dispatcher", "failed to create dispatcher", err)
	}

	hub := dispatch.NewHub(state.logger)

	err = dispatch.RegisterBuiltinOperations(dispatcher, dispatch.OperationDeps{
		Service:       state.lintService,
		Validator:     state.dispatchValidator,
		Hub:           hub,
		Logger:        state.logger,
		ProgressSteps: state.config.Dispatch.ProgressSteps,
		ProgressDelay: state.config.Dispatch.ProgressDelay,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindDispatch, "dispatch:init-dispatcher", "failed to register operations", err)
	}

	state.dispatcher = dispatcher
	state.hub = hub
	return nil
}

func startHTTPServer(
	state *appState,
	g *errgroup.Group,
	groupCtx context.Context,
) (*http.Server, error) {
	config := state.config
	logger := state.logger

	httpRouter, err := httptransport.Build(httptransport.Options{
		Config: config,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	router := httpRouter.Engine

	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/v1") {
			httptransport.RespondError(c, http.StatusNotFound, "not found", nil)
			return
		}
		c.Status(http.StatusNotFound)
	})

	lintService, err := lintapi.NewService(config, logger, state.lintService, state.uploadValidator)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "lintapi:new-service", "failed to create lint REST service", err)
	}

	toolService, err := toolapi.NewService(config, logger, state.dispatcher, state.hub, state.lintService)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "toolapi:new-service", "failed to create tool dispatch service", err)
	}

	lintService.Register(groupCtx, httpRouter.V1)
	toolService.Register(groupCtx, httpRouter.API)

	if config.MCP.Enabled {
		mcpService, err := mcpserver.NewService(config, logger, state.dispatcher)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindTransport, "mcpserver:new-service", "failed to create MCP server", err)
		}
		mcpService.Register(groupCtx, router)
	}

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(config.Web.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "server listening on http://localhost:%d", config.Web.Port)
		logger.InfoTag("HTTP", "lint REST surface: http://localhost:%d/v1", config.Web.Port)
		logger.InfoTag("HTTP", "tool dispatch surface: http://localhost:%d/api/v1", config.Web.Port)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "server shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down gracefully")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("BOOT", "received signal %v, shutting down", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("BOOT", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("BOOT", "all services stopped")
	case <-time.After(15 * time.Second):
		timeoutErr := errors.New("shutdown timed out")
		logger.ErrorTag("BOOT", "shutdown timed out, forcing exit")
		return timeoutErr
	}
	return nil
}
