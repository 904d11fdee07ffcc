package scriptapi

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	script "google.golang.org/api/script/v1"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
)

var ErrEmptyToken = errors.New("no token provided for authentication")

var wireTypes = map[entity.FileType]string{
	entity.FileTypeServerCode: "SERVER_JS",
	entity.FileTypeMarkup:     "HTML",
	entity.FileTypeConfig:     "JSON",
	entity.FileTypeUnknown:    "ENUM_TYPE_UNSPECIFIED",
}

// Factory builds per-request clients for the Apps Script API.
type Factory struct {
	endpoint string
}

var _ repository.ScriptProjectFactory = (*Factory)(nil)

// NewFactory returns a factory. An empty endpoint means the public API.
func NewFactory(endpoint string) *Factory {
	return &Factory{endpoint: endpoint}
}

func (f *Factory) ForToken(ctx context.Context, token string) (repository.ScriptProject, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	opts := []option.ClientOption{option.WithTokenSource(TokenSource(token))}
	if f.endpoint != "" {
		opts = append(opts, option.WithEndpoint(f.endpoint))
	}

	svc, err := script.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create script service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Client is bound to one credential.
type Client struct {
	svc *script.Service
}

var _ repository.ScriptProject = (*Client)(nil)

// UpdateContent returns upstream errors unwrapped so their text reaches the
// caller verbatim.
func (c *Client) UpdateContent(ctx context.Context, scriptID string, files []entity.ManifestFile) error {
	content := &script.Content{
		ScriptId: scriptID,
		Files:    make([]*script.File, 0, len(files)),
	}
	for _, f := range files {
		content.Files = append(content.Files, &script.File{
			Name:   f.Name,
			Type:   wireTypes[f.Type],
			Source: f.Source,
		})
	}

	_, err := c.svc.Projects.UpdateContent(scriptID, content).Context(ctx).Do()
	return err
}

func (c *Client) CreateProject(ctx context.Context, title, parentID string) (string, error) {
	project, err := c.svc.Projects.Create(&script.CreateProjectRequest{
		Title:    title,
		ParentId: parentID,
	}).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if project.ScriptId == "" {
		return "", errors.New("create project: empty script id in response")
	}
	return project.ScriptId, nil
}
