package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/metrics"
)

// TemplateRepository reads the static script files that accompany every
// upload. Files are re-read on each call so edits need no restart.
type TemplateRepository struct {
	basePath string
}

var _ repository.TemplateSource = (*TemplateRepository)(nil)

func (r *TemplateRepository) GetBasePath() string {
	return r.basePath
}

// NewTemplateRepository checks that basePath is a directory. An empty
// basePath yields a repository with no templates.
func NewTemplateRepository(basePath string) (*TemplateRepository, error) {
	if basePath == "" {
		return &TemplateRepository{}, nil
	}

	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check directory %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %s exists but is not a directory", basePath)
	}

	return &TemplateRepository{basePath: basePath}, nil
}

// LoadTemplates walks the directory recursively. Hidden files and
// directories are ignored. Paths are relative to the base and sorted.
func (r *TemplateRepository) LoadTemplates(ctx context.Context) ([]entity.TemplateFile, error) {
	if r.basePath == "" {
		return nil, nil
	}

	var files []entity.TemplateFile
	err := filepath.WalkDir(r.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path != r.basePath && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		rel, err := filepath.Rel(r.basePath, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}

		files = append(files, entity.TemplateFile{RelPath: filepath.ToSlash(rel), Content: string(content)})
		return nil
	})
	if err != nil {
		metrics.IncError("template_repo", "walk")
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}
