package repository

import (
	"context"

	"gsheetagent/internal/domain/entity"
)

// GenerationJournal records finished prompt pipelines. It is write-only from
// the request path.
type GenerationJournal interface {
	Record(ctx context.Context, g *entity.Generation) error
}
