package entity

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type FileType string

const (
	FileTypeServerCode FileType = "SERVER_CODE"
	FileTypeMarkup     FileType = "MARKUP"
	FileTypeConfig     FileType = "CONFIG"
	FileTypeUnknown    FileType = "UNKNOWN"
)

const (
	GeneratedFileName = "generated"
	ManifestFileName  = "appsscript"
)

// UnknownPolicy decides what happens to template files whose extension is not
// recognized.
type UnknownPolicy string

const (
	UnknownTag  UnknownPolicy = "tag"
	UnknownSkip UnknownPolicy = "skip"
)

func (p UnknownPolicy) Valid() bool {
	return p == UnknownTag || p == UnknownSkip
}

// ManifestFile is one named source blob of a script project.
type ManifestFile struct {
	Name   string   `json:"name"`
	Type   FileType `json:"type"`
	Source string   `json:"source"`
}

// TemplateFile is a static file read from the template directory.
type TemplateFile struct {
	RelPath string
	Content string
}

// ProjectManifest is the appsscript.json body. Field order is the wire order.
type ProjectManifest struct {
	TimeZone         string   `json:"timeZone"`
	ExceptionLogging string   `json:"exceptionLogging"`
	RuntimeVersion   string   `json:"runtimeVersion"`
	OAuthScopes      []string `json:"oauthScopes"`
}

func NewProjectManifest(timezone string, scopes []string) ProjectManifest {
	if scopes == nil {
		scopes = []string{}
	}
	return ProjectManifest{
		TimeZone:         timezone,
		ExceptionLogging: "CLOUD",
		RuntimeVersion:   "V8",
		OAuthScopes:      scopes,
	}
}

var extensionTypes = map[string]FileType{
	".js":   FileTypeServerCode,
	".gs":   FileTypeServerCode,
	".html": FileTypeMarkup,
	".htm":  FileTypeMarkup,
	".json": FileTypeConfig,
}

// TypeForExtension maps a file name to its manifest type.
func TypeForExtension(name string) FileType {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return FileTypeUnknown
}

// EntryName turns a relative template path into a manifest name: slashes are
// normalized and the extension is dropped.
func EntryName(relPath string) string {
	p := path.Clean(strings.ReplaceAll(filepath.ToSlash(relPath), "\\", "/"))
	return strings.TrimSuffix(p, path.Ext(p))
}

// PlaceholderCode is the default payload when no generated code is supplied.
func PlaceholderCode(now time.Time) string {
	return fmt.Sprintf(`function performAction() {
  const ui = SpreadsheetApp.getUi();
  ui.alert('This script was last generated at %s');
}
`, strings.ToLower(now.Format("03:04PM")))
}

// ManifestInput is everything needed to assemble the file list of one upload.
type ManifestInput struct {
	Code      string
	Timezone  string
	Scopes    []string
	Templates []TemplateFile
	Policy    UnknownPolicy
}

// BuildManifest assembles the generated code, the project manifest and the
// template files. Names must be unique.
func BuildManifest(in ManifestInput) ([]ManifestFile, error) {
	projectManifest, err := json.Marshal(NewProjectManifest(in.Timezone, in.Scopes))
	if err != nil {
		return nil, fmt.Errorf("marshal project manifest: %w", err)
	}

	files := []ManifestFile{
		{Name: GeneratedFileName, Type: FileTypeServerCode, Source: in.Code},
		{Name: ManifestFileName, Type: FileTypeConfig, Source: string(projectManifest)},
	}
	seen := map[string]string{
		GeneratedFileName: "generated code",
		ManifestFileName:  "project manifest",
	}

	for _, tf := range in.Templates {
		fileType := TypeForExtension(tf.RelPath)
		if fileType == FileTypeUnknown && in.Policy == UnknownSkip {
			continue
		}

		name := EntryName(tf.RelPath)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("duplicate manifest entry %q: %s collides with %s", name, tf.RelPath, prev)
		}
		seen[name] = tf.RelPath

		files = append(files, ManifestFile{Name: name, Type: fileType, Source: tf.Content})
	}

	return files, nil
}
