package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/metrics"
)

// SetupErrorPlaceholder is the quoted JavaScript string literal in the setup
// template that receives the failure message.
const SetupErrorPlaceholder = `"__SETUP_ERROR__"`

const msgSetupMissingParams = "Missing authorization token or script id."

// TemplateReader returns the current bootstrap script template.
type TemplateReader interface {
	Read() (string, error)
}

type SetupUsecase interface {
	Render(ctx context.Context, authToken, scriptID string) (string, error)
}

var _ SetupUsecase = (*SetupService)(nil)

// SetupService serves the client bootstrap script and, as a side effect,
// seeds the project with the placeholder code to prove the grant works.
type SetupService struct {
	template        TemplateReader
	projects        repository.ScriptProjectFactory
	updater         *ScriptUpdater
	defaultTimezone string
	logger          *slog.Logger
}

func NewSetupService(
	template TemplateReader,
	projects repository.ScriptProjectFactory,
	updater *ScriptUpdater,
	defaultTimezone string,
	logger *slog.Logger,
) *SetupService {
	return &SetupService{
		template:        template,
		projects:        projects,
		updater:         updater,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

// Render returns the bootstrap script. Upload failures are reported inside
// the script; only an unreadable template is returned as an error.
func (s *SetupService) Render(ctx context.Context, authToken, scriptID string) (string, error) {
	tmpl, err := s.template.Read()
	if err != nil {
		metrics.IncSetupRender("template_error")
		return "", fmt.Errorf("read setup template: %w", err)
	}

	if err := s.seed(ctx, authToken, scriptID); err != nil {
		s.logger.Warn("setup upload failed", "script_id", scriptID, "err", err)
		metrics.IncSetupRender("upload_failed")

		msg := msgSetupMissingParams
		if !errors.Is(err, errMissingSetupParams) {
			msg = setupMessage(err)
		}
		return InjectSetupError(tmpl, msg), nil
	}

	metrics.IncSetupRender("ok")
	return tmpl, nil
}

var errMissingSetupParams = errors.New("missing setup parameters")

func (s *SetupService) seed(ctx context.Context, authToken, scriptID string) error {
	if authToken == "" || scriptID == "" {
		return errMissingSetupParams
	}

	project, err := s.projects.ForToken(ctx, authToken)
	if err != nil {
		return err
	}
	return s.updater.UpdateContent(ctx, project, scriptID, s.defaultTimezone)
}

// InjectSetupError replaces the placeholder literal with msg encoded as a
// JavaScript string.
func InjectSetupError(tmpl, msg string) string {
	encoded, err := json.Marshal(msg)
	if err != nil {
		encoded = []byte(`"setup failed"`)
	}
	return strings.ReplaceAll(tmpl, SetupErrorPlaceholder, string(encoded))
}
