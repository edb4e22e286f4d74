package toolapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ansible-lint-server-go/internal/domain/dispatch"
	"ansible-lint-server-go/internal/domain/lint"
	"ansible-lint-server-go/internal/platform/config"
	platformerrors "ansible-lint-server-go/internal/platform/errors"
	"ansible-lint-server-go/internal/platform/logging"
	httptransport "ansible-lint-server-go/internal/transport/http"
)

// Service is the tool-dispatch HTTP surface: named operation invocation plus
// the live progress feeds.
type Service struct {
	logger     *logging.Logger
	config     *config.Config
	dispatcher *dispatch.Dispatcher
	hub        *dispatch.Hub
	lint       *lint.Service
}

// NewService creates the tool-dispatch service.
func NewService(
	cfg *config.Config,
	logger *logging.Logger,
	dispatcher *dispatch.Dispatcher,
	hub *dispatch.Hub,
	lintService *lint.Service,
) (*Service, error) {
	if cfg == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "toolapi.new", "config is required")
	}
	if logger == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "toolapi.new", "logger is required")
	}
	if dispatcher == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "toolapi.new", "dispatcher is required")
	}
	if hub == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "toolapi.new", "progress hub is required")
	}
	if lintService == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "toolapi.new", "lint service is required")
	}

	return &Service{
		logger:     logger,
		config:     cfg,
		dispatcher: dispatcher,
		hub:        hub,
		lint:       lintService,
	}, nil
}

// Register mounts the dispatch routes.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.GET("/", s.handleBanner)
	router.POST("/tool", s.handleTool)
	router.GET("/events", s.handleEventsSSE)
	router.GET("/events/ws", s.handleEventsWS)
	router.GET("/health", s.handleHealth)

	s.logger.InfoTag("HTTP", "tool dispatch routes registered")
	return nil
}

func (s *Service) handleBanner(c *gin.Context) {
	c.JSON(http.StatusOK, BannerData{
		Service:        "ansible-lint-server",
		AvailableTools: s.dispatcher.OperationNames(),
		Limits: Limits{
			MaxConcurrent:    int(s.config.Dispatch.MaxConcurrent),
			TimeoutSeconds:   int(s.config.Lint.Timeout.Seconds()),
			MaxDocumentBytes: s.config.Dispatch.MaxDocumentBytes,
		},
	})
}

// handleTool invokes one named operation. Routing failures map to 404/400;
// everything else comes back as a 200 envelope, soft failures included.
func (s *Service) handleTool(c *gin.Context) {
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	if strings.TrimSpace(req.ToolName) == "" {
		httptransport.RespondError(c, http.StatusBadRequest, "tool_name is required", nil)
		return
	}

	envelope, err := s.dispatcher.Dispatch(c.Request.Context(), req.ToolName, req.Inputs)
	if err != nil {
		var notFound *dispatch.NotFoundError
		if errors.As(err, &notFound) {
			httptransport.RespondError(c, http.StatusNotFound, notFound.Error(), gin.H{
				"available_tools": notFound.Available,
			})
			return
		}
		var argErr *dispatch.ArgumentError
		if errors.As(err, &argErr) {
			httptransport.RespondError(c, http.StatusBadRequest, argErr.Error(), nil)
			return
		}
		s.logger.ErrorTag("DISPATCH", "dispatch failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "dispatch failed", nil)
		return
	}

	c.JSON(http.StatusOK, envelope)
}

// handleHealth reports degraded rather than failing when the tool binary is
// missing; the dispatch surface itself still works for validation-only calls.
func (s *Service) handleHealth(c *gin.Context) {
	if err := s.lint.Ready(); err != nil {
		c.JSON(http.StatusOK, HealthData{
			Status:        "degraded",
			ToolAvailable: false,
			Detail:        err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, HealthData{
		Status:        "healthy",
		ToolAvailable: true,
	})
}
