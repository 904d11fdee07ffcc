package repository

import (
	"context"

	"gsheetagent/internal/domain/entity"
)

// TemplateSource yields the static files appended to every upload.
type TemplateSource interface {
	LoadTemplates(ctx context.Context) ([]entity.TemplateFile, error)
}
