package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gsheetagent/app/usecase"
	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/scriptapi"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(context.Context, string) (string, error) {
	s.calls++
	return s.out, s.err
}

func (s *stubTranslator) Provider() string { return "stub" }

type stubProject struct {
	updateErr error
	updates   int
}

func (p *stubProject) UpdateContent(context.Context, string, []entity.ManifestFile) error {
	p.updates++
	return p.updateErr
}

func (p *stubProject) CreateProject(context.Context, string, string) (string, error) {
	return "new-script", nil
}

type stubFactory struct {
	project *stubProject
	calls   int
}

func (f *stubFactory) ForToken(context.Context, string) (repository.ScriptProject, error) {
	f.calls++
	return f.project, nil
}

type noTemplates struct{}

func (noTemplates) LoadTemplates(context.Context) ([]entity.TemplateFile, error) { return nil, nil }

type noJournal struct{}

func (noJournal) Record(context.Context, *entity.Generation) error { return nil }

type stubSetupTemplate struct {
	text string
	err  error
}

func (s stubSetupTemplate) Read() (string, error) { return s.text, s.err }

const setupTemplate = `var setupError = "__SETUP_ERROR__";`

type fixture struct {
	router     *mux.Router
	translator *stubTranslator
	factory    *stubFactory
	project    *stubProject
}

func newFixture(t *testing.T, setup stubSetupTemplate) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	translator := &stubTranslator{out: `{"explanation":"adds a menu","code":"function onOpen() {}"}`}
	project := &stubProject{}
	factory := &stubFactory{project: project}

	updater := usecase.NewScriptUpdater(noTemplates{}, usecase.ScriptUpdaterConfig{
		Scopes:        []string{"https://www.googleapis.com/auth/spreadsheets"},
		UnknownPolicy: entity.UnknownTag,
	}, logger)

	build := "2024.05.1"
	h := NewAgentHandler(
		usecase.NewPromptService(translator, factory, updater, noJournal{}, 0, logger),
		usecase.NewSetupService(setup, factory, updater, "UTC", logger),
		usecase.NewScriptService(factory, updater, "", "UTC", logger),
		&build,
		logger,
	)

	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return &fixture{router: r, translator: translator, factory: factory, project: project}
}

func (f *fixture) do(method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const validPrompt = `{"instruction":"add a menu","scriptId":"abc","timezone":"UTC"}`

func TestHealth(t *testing.T) {
	f := newFixture(t, stubSetupTemplate{text: setupTemplate})

	rec := f.do(http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2024.05.1", body["latest_build"])
	assert.Zero(t, f.translator.calls)
	assert.Zero(t, f.factory.calls)
}

func TestHealthWithoutBuild(t *testing.T) {
	h := NewAgentHandler(nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"latest_build":null}`, rec.Body.String())
}

func TestPromptSuccess(t *testing.T) {
	f := newFixture(t, stubSetupTemplate{text: setupTemplate})

	rec := f.do(http.MethodPost, "/prompt", validPrompt, "tok")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received_instruction":"adds a menu"}`, rec.Body.String())
	assert.Equal(t, 1, f.translator.calls)
	assert.Equal(t, 1, f.project.updates)
}

func TestPromptRejectsWithoutCollaboratorCalls(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		token string
		code  int
	}{
		{name: "malformed body", body: `{"instruction":`, token: "tok", code: http.StatusBadRequest},
		{name: "missing instruction", body: `{"scriptId":"abc","timezone":"UTC"}`, token: "tok", code: http.StatusBadRequest},
		{name: "missing script id", body: `{"instruction":"x","timezone":"UTC"}`, token: "tok", code: http.StatusBadRequest},
		{name: "missing timezone", body: `{"instruction":"x","scriptId":"abc"}`, token: "tok", code: http.StatusBadRequest},
		{name: "missing token", body: validPrompt, code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, stubSetupTemplate{text: setupTemplate})

			rec := f.do(http.MethodPost, "/prompt", tt.body, tt.token)

			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
			assert.Zero(t, f.translator.calls)
			assert.Zero(t, f.factory.calls)
		})
	}
}

func TestPromptNonBearerSchemeIsUnauthorized(t *testing.T) {
	f := newFixture(t, stubSetupTemplate{text: setupTemplate})

	req := httptest.NewRequest(http.MethodPost, "/prompt", strings.NewReader(validPrompt))
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.translator.calls)
}

func TestPromptFailures(t *testing.T) {
	t.Run("translation error", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})
		f.translator.err = errors.New("connection refused")

		rec := f.do(http.MethodPost, "/prompt", validPrompt, "tok")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, entity.MsgTranslationFailed, decodeBody(t, rec)["error"])
		assert.Zero(t, f.project.updates)
	})

	t.Run("undecodable reply", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})
		f.translator.out = "sure, here is your code"

		rec := f.do(http.MethodPost, "/prompt", validPrompt, "tok")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, entity.MsgDecodeFailed, decodeBody(t, rec)["error"])
		assert.Zero(t, f.project.updates)
	})

	t.Run("insufficient scope", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})
		f.project.updateErr = errors.New("googleapi: Error 403: Request had insufficient authentication scopes. ACCESS_TOKEN_SCOPE_INSUFFICIENT")

		rec := f.do(http.MethodPost, "/prompt", validPrompt, "tok")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, scriptapi.MsgReinstall, decodeBody(t, rec)["error"])
	})

	t.Run("other upload error passes through", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})
		f.project.updateErr = errors.New("googleapi: Error 404: Requested entity was not found.")

		rec := f.do(http.MethodPost, "/prompt", validPrompt, "tok")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "googleapi: Error 404: Requested entity was not found.", decodeBody(t, rec)["error"])
	})
}

func TestSetup(t *testing.T) {
	t.Run("seeds and serves template", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})

		rec := f.do(http.MethodGet, "/setup?authToken=tok&scriptId=abc", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/javascript", rec.Header().Get("Content-Type"))
		assert.Equal(t, setupTemplate, rec.Body.String())
		assert.Equal(t, 1, f.project.updates)
	})

	t.Run("service disabled is reported inside the script", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})
		f.project.updateErr = errors.New("googleapi: Error 403: User has not enabled the Apps Script API. SERVICE_DISABLED")

		rec := f.do(http.MethodGet, "/setup?authToken=tok&scriptId=abc", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "script.google.com/home/usersettings")
		assert.NotContains(t, rec.Body.String(), "SERVICE_DISABLED")
	})

	t.Run("missing parameters", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})

		rec := f.do(http.MethodGet, "/setup", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing authorization token or script id.")
		assert.Zero(t, f.factory.calls)
	})

	t.Run("unreadable template", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{err: errors.New("open setup.js: no such file or directory")})

		rec := f.do(http.MethodGet, "/setup?authToken=tok&scriptId=abc", "", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, msgInternal, decodeBody(t, rec)["error"])
	})
}

func TestCreateScript(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})

		rec := f.do(http.MethodPost, "/script/create", `{"spreadsheet_id":"sheet-1"}`, "tok")

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"message":"Script created successfully","script_id":"new-script"}`, rec.Body.String())
		assert.Equal(t, 1, f.project.updates)
	})

	t.Run("missing spreadsheet", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})

		rec := f.do(http.MethodPost, "/script/create", `{}`, "tok")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "spreadsheet_id must be provided", decodeBody(t, rec)["error"])
		assert.Zero(t, f.factory.calls)
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t, stubSetupTemplate{text: setupTemplate})

		rec := f.do(http.MethodPost, "/script/create", `{"spreadsheet_id":"sheet-1"}`, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, f.factory.calls)
	})
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusForKind(entity.KindBadRequest))
	assert.Equal(t, http.StatusUnauthorized, StatusForKind(entity.KindUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, StatusForKind(entity.KindTranslationFailed))
	assert.Equal(t, http.StatusInternalServerError, StatusForKind(entity.KindDecodeFailed))
	assert.Equal(t, http.StatusInternalServerError, StatusForKind(entity.KindUploadFailed))
}
