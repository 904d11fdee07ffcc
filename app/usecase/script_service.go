package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
)

const DefaultProjectTitle = "gSheetAgent Script"

type ScriptUsecase interface {
	CreateScript(ctx context.Context, token, spreadsheetID string) (string, error)
}

var _ ScriptUsecase = (*ScriptService)(nil)

// ScriptService creates a script project bound to a spreadsheet and seeds it.
type ScriptService struct {
	projects        repository.ScriptProjectFactory
	updater         *ScriptUpdater
	title           string
	defaultTimezone string
	logger          *slog.Logger
}

func NewScriptService(
	projects repository.ScriptProjectFactory,
	updater *ScriptUpdater,
	title string,
	defaultTimezone string,
	logger *slog.Logger,
) *ScriptService {
	if title == "" {
		title = DefaultProjectTitle
	}
	return &ScriptService{
		projects:        projects,
		updater:         updater,
		title:           title,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

func (s *ScriptService) CreateScript(ctx context.Context, token, spreadsheetID string) (string, error) {
	if spreadsheetID == "" {
		return "", entity.NewPipelineError(entity.KindBadRequest, "spreadsheet_id must be provided", nil)
	}
	if token == "" {
		return "", entity.NewPipelineError(entity.KindUnauthorized, "Unauthorized", entity.ErrMissingToken)
	}

	project, err := s.projects.ForToken(ctx, token)
	if err != nil {
		return "", entity.NewPipelineError(entity.KindUploadFailed, err.Error(), err)
	}

	scriptID, err := project.CreateProject(ctx, s.title, spreadsheetID)
	if err != nil {
		return "", entity.NewPipelineError(entity.KindUploadFailed, setupMessage(err), fmt.Errorf("create project: %w", err))
	}
	s.logger.Info("script project created", "script_id", scriptID, "spreadsheet_id", spreadsheetID)

	if err := s.updater.UpdateContent(ctx, project, scriptID, s.defaultTimezone); err != nil {
		return "", entity.NewPipelineError(entity.KindUploadFailed, setupMessage(err), fmt.Errorf("seed project %s: %w", scriptID, err))
	}

	return scriptID, nil
}
