package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifestGeneratedAndProjectManifest(t *testing.T) {
	for _, tz := range []string{"America/New_York", "Europe/Berlin", "UTC", "Not/AZone"} {
		t.Run(tz, func(t *testing.T) {
			files, err := BuildManifest(ManifestInput{
				Code:     "C",
				Timezone: tz,
				Scopes:   []string{"https://www.googleapis.com/auth/spreadsheets"},
				Policy:   UnknownTag,
			})
			require.NoError(t, err)
			require.Len(t, files, 2)

			assert.Equal(t, ManifestFile{Name: "generated", Type: FileTypeServerCode, Source: "C"}, files[0])
			assert.Equal(t, "appsscript", files[1].Name)
			assert.Equal(t, FileTypeConfig, files[1].Type)

			var pm ProjectManifest
			require.NoError(t, json.Unmarshal([]byte(files[1].Source), &pm))
			assert.Equal(t, tz, pm.TimeZone)
			assert.Equal(t, "V8", pm.RuntimeVersion)
			assert.Equal(t, "CLOUD", pm.ExceptionLogging)
			assert.Equal(t, []string{"https://www.googleapis.com/auth/spreadsheets"}, pm.OAuthScopes)
		})
	}
}

func TestBuildManifestTemplates(t *testing.T) {
	templates := []TemplateFile{
		{RelPath: "menu.js", Content: "function onOpen() {}"},
		{RelPath: "ui/sidebar.html", Content: "<div></div>"},
		{RelPath: "ui\\dialog.htm", Content: "<p></p>"},
		{RelPath: "README.md", Content: "# docs"},
	}

	t.Run("tag unknown", func(t *testing.T) {
		files, err := BuildManifest(ManifestInput{Code: "x", Timezone: "UTC", Templates: templates, Policy: UnknownTag})
		require.NoError(t, err)
		require.Len(t, files, 6)
		assert.Equal(t, ManifestFile{Name: "menu", Type: FileTypeServerCode, Source: "function onOpen() {}"}, files[2])
		assert.Equal(t, "ui/sidebar", files[3].Name)
		assert.Equal(t, FileTypeMarkup, files[3].Type)
		assert.Equal(t, FileTypeUnknown, files[5].Type)
		assert.Equal(t, "README", files[5].Name)
	})

	t.Run("skip unknown", func(t *testing.T) {
		files, err := BuildManifest(ManifestInput{Code: "x", Timezone: "UTC", Templates: templates, Policy: UnknownSkip})
		require.NoError(t, err)
		require.Len(t, files, 5)
		for _, f := range files {
			assert.NotEqual(t, FileTypeUnknown, f.Type)
		}
	})
}

func TestBuildManifestRejectsDuplicateNames(t *testing.T) {
	_, err := BuildManifest(ManifestInput{
		Code:     "x",
		Timezone: "UTC",
		Policy:   UnknownTag,
		Templates: []TemplateFile{
			{RelPath: "ui/page.html", Content: "a"},
			{RelPath: "ui/page.js", Content: "b"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ui/page"`)

	_, err = BuildManifest(ManifestInput{
		Code:      "x",
		Timezone:  "UTC",
		Policy:    UnknownTag,
		Templates: []TemplateFile{{RelPath: "appsscript.json", Content: "{}"}},
	})
	require.Error(t, err)
}

func TestTypeForExtension(t *testing.T) {
	cases := map[string]FileType{
		"a.js":         FileTypeServerCode,
		"a.GS":         FileTypeServerCode,
		"a.html":       FileTypeMarkup,
		"a.json":       FileTypeConfig,
		"a.css":        FileTypeUnknown,
		"no_extension": FileTypeUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, TypeForExtension(name), name)
	}
}

func TestPlaceholderCode(t *testing.T) {
	now := time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC)
	code := PlaceholderCode(now)
	assert.Contains(t, code, "function performAction()")
	assert.Contains(t, code, "03:04pm")
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "ui/dialog", EntryName(`ui\dialog.htm`))
	assert.Equal(t, "lib/util", EntryName("./lib/util.js"))
	assert.Equal(t, "Code", EntryName("Code.gs"))
}
