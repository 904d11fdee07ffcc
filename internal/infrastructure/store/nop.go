package store

import (
	"context"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
)

// NopJournal drops every record. It is used when no database is configured.
type NopJournal struct{}

var _ repository.GenerationJournal = NopJournal{}

func (NopJournal) Record(context.Context, *entity.Generation) error { return nil }
