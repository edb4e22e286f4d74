package lintapi

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ansible-lint-server-go/internal/domain/lint"
	"ansible-lint-server-go/internal/platform/config"
	"ansible-lint-server-go/internal/platform/errors"
	"ansible-lint-server-go/internal/platform/logging"
	httptransport "ansible-lint-server-go/internal/transport/http"
)

// Service is the direct REST surface over the lint domain.
type Service struct {
	logger    *logging.Logger
	config    *config.Config
	lint      *lint.Service
	validator *lint.Validator
}

// NewService creates the REST lint service.
func NewService(
	cfg *config.Config,
	logger *logging.Logger,
	lintService *lint.Service,
	validator *lint.Validator,
) (*Service, error) {
	if cfg == nil {
		return nil, errors.Wrap(errors.KindConfig, "lintapi.new", "config is required", nil)
	}
	if logger == nil {
		return nil, errors.Wrap(errors.KindConfig, "lintapi.new", "logger is required", nil)
	}
	if lintService == nil {
		return nil, errors.Wrap(errors.KindConfig, "lintapi.new", "lint service is required", nil)
	}
	if validator == nil {
		return nil, errors.Wrap(errors.KindConfig, "lintapi.new", "validator is required", nil)
	}

	return &Service{
		logger:    logger,
		config:    cfg,
		lint:      lintService,
		validator: validator,
	}, nil
}

// Register mounts the REST lint routes.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.POST("/lint/:profile", s.handleLint)
	router.GET("/profiles", s.handleProfiles)
	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)

	s.logger.InfoTag("HTTP", "lint REST routes registered")
	return nil
}

// handleLint runs one upload through the external tool. The path profile is
// matched strictly; unknown names are rejected rather than coerced.
func (s *Service) handleLint(c *gin.Context) {
	profile, err := lint.ParseProfile(c.Param("profile"))
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, err.Error(), gin.H{
			"supported_profiles": lint.SupportedProfiles(),
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "file field is required", nil)
		return
	}
	defer file.Close()

	if err := s.validator.ValidateFilename(header.Filename); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if header.Size > s.validator.MaxBytes() {
		httptransport.RespondError(c, http.StatusRequestEntityTooLarge, "file exceeds upload size limit", gin.H{
			"max_size_bytes": s.validator.MaxBytes(),
		})
		return
	}

	// LimitReader guards against a dishonest Content-Length.
	data, err := io.ReadAll(io.LimitReader(file, s.validator.MaxBytes()+1))
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "failed to read upload", nil)
		return
	}
	if int64(len(data)) > s.validator.MaxBytes() {
		httptransport.RespondError(c, http.StatusRequestEntityTooLarge, "file exceeds upload size limit", gin.H{
			"max_size_bytes": s.validator.MaxBytes(),
		})
		return
	}

	document, err := s.validator.ValidateDocument(data)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	outcome, err := s.lint.Lint(c.Request.Context(), document, profile)
	if err != nil {
		s.logger.ErrorTag("LINT", "lint run failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "lint execution failed", nil)
		return
	}

	c.JSON(http.StatusOK, LintResult{
		ExitCode: outcome.ExitCode,
		Stdout:   outcome.Stdout,
		Stderr:   outcome.Stderr,
		Profile:  string(profile),
	})
}

func (s *Service) handleProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, ProfilesData{
		Profiles:       lint.SupportedProfiles(),
		Descriptions:   lint.ProfileDescriptions(),
		DefaultProfile: string(s.lint.DefaultProfile()),
	})
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthData{Status: "ok"})
}

// handleReady reports 503 until the external tool binary resolves.
func (s *Service) handleReady(c *gin.Context) {
	if err := s.lint.Ready(); err != nil {
		c.JSON(http.StatusServiceUnavailable, ReadyData{
			Status: "unavailable",
			Detail: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ReadyData{Status: "ready"})
}
