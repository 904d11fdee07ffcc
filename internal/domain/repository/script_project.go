package repository

import (
	"context"

	"gsheetagent/internal/domain/entity"
)

// ScriptProject is a client for the remote script-project API bound to one
// caller's credential.
type ScriptProject interface {
	// UpdateContent replaces the whole content of the project in one call.
	UpdateContent(ctx context.Context, scriptID string, files []entity.ManifestFile) error
	// CreateProject creates a project bound to parentID and returns its id.
	CreateProject(ctx context.Context, title, parentID string) (string, error)
}

// ScriptProjectFactory builds a short-lived client from a bearer token.
type ScriptProjectFactory interface {
	ForToken(ctx context.Context, token string) (ScriptProject, error)
}
