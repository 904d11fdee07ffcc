package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gsheetagent/internal/domain/entity"
)

// LoadPrompt reads a system prompt document. An empty path selects the
// built-in prompt.
func LoadPrompt(path string) (entity.Prompt, error) {
	if path == "" {
		return entity.AppsScriptPrompt, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Prompt{}, fmt.Errorf("read prompt %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return entity.Prompt{}, fmt.Errorf("prompt %s is empty", path)
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return entity.Prompt{ID: id, Text: text}, nil
}

// TextFile is a document read from disk on every access.
type TextFile struct {
	path string
}

func NewTextFile(path string) *TextFile {
	return &TextFile{path: path}
}

func (f *TextFile) Read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.path, err)
	}
	return string(data), nil
}
