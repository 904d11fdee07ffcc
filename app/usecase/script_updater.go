package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/metrics"
	"gsheetagent/internal/infrastructure/scriptapi"
)

// UpdateOption tunes a single content update.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	code    string
	hasCode bool
}

// WithCode uploads code instead of the placeholder.
func WithCode(code string) UpdateOption {
	return func(o *updateOptions) {
		o.code = code
		o.hasCode = true
	}
}

type ScriptUpdaterConfig struct {
	Scopes        []string
	UnknownPolicy entity.UnknownPolicy
	Timeout       time.Duration
}

// ScriptUpdater assembles the file manifest and pushes it to a project.
type ScriptUpdater struct {
	templates repository.TemplateSource
	cfg       ScriptUpdaterConfig
	logger    *slog.Logger
	now       func() time.Time
}

func NewScriptUpdater(templates repository.TemplateSource, cfg ScriptUpdaterConfig, logger *slog.Logger) *ScriptUpdater {
	if cfg.UnknownPolicy == "" {
		cfg.UnknownPolicy = entity.UnknownTag
	}
	return &ScriptUpdater{
		templates: templates,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// DefaultCode is the payload used when no code option is given.
func (u *ScriptUpdater) DefaultCode() string {
	return entity.PlaceholderCode(u.now())
}

// BuildManifest returns the complete file list for one update.
func (u *ScriptUpdater) BuildManifest(ctx context.Context, timezone string, opts ...UpdateOption) ([]entity.ManifestFile, error) {
	var o updateOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasCode {
		o.code = u.DefaultCode()
	}

	templates, err := u.templates.LoadTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return entity.BuildManifest(entity.ManifestInput{
		Code:      o.code,
		Timezone:  timezone,
		Scopes:    u.cfg.Scopes,
		Templates: templates,
		Policy:    u.cfg.UnknownPolicy,
	})
}

// UpdateContent replaces the project's content. A manifest failure aborts
// before any network call. Upstream errors are returned as they came.
func (u *ScriptUpdater) UpdateContent(ctx context.Context, project repository.ScriptProject, scriptID, timezone string, opts ...UpdateOption) error {
	files, err := u.BuildManifest(ctx, timezone, opts...)
	if err != nil {
		metrics.IncUpload("manifest")
		return err
	}
	metrics.ObserveManifestFiles(len(files))

	if u.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.cfg.Timeout)
		defer cancel()
	}

	if err := project.UpdateContent(ctx, scriptID, files); err != nil {
		kind := scriptapi.Classify(err)
		metrics.IncUpload(kind.String())
		u.logger.Warn("script content update failed", "script_id", scriptID, "kind", kind.String(), "err", err)
		return err
	}

	metrics.IncUpload("ok")
	u.logger.Info("script content updated", "script_id", scriptID, "files", len(files))
	return nil
}
