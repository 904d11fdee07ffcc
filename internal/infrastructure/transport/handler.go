package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gsheetagent/app/usecase"
	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/infrastructure/metrics"
)

const msgInternal = "Internal server error"

type AgentHandler struct {
	promptService usecase.PromptUsecase
	setupService  usecase.SetupUsecase
	scriptService usecase.ScriptUsecase
	latestBuild   *string
	logger        *slog.Logger
}

func NewAgentHandler(
	promptService usecase.PromptUsecase,
	setupService usecase.SetupUsecase,
	scriptService usecase.ScriptUsecase,
	latestBuild *string,
	logger *slog.Logger,
) *AgentHandler {
	return &AgentHandler{
		promptService: promptService,
		setupService:  setupService,
		scriptService: scriptService,
		latestBuild:   latestBuild,
		logger:        logger,
	}
}

func (h *AgentHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", withMetrics(h.handleHealth)).Methods(http.MethodGet)
	r.HandleFunc("/prompt", withMetrics(h.handlePrompt)).Methods(http.MethodPost)
	r.HandleFunc("/setup", withMetrics(h.handleSetup)).Methods(http.MethodGet)
	r.HandleFunc("/script/create", withMetrics(h.handleCreateScript)).Methods(http.MethodPost)
}

func withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		metrics.ObserveHTTP(r.Method, r.URL.Path, rw.status, strconv.Itoa(rw.status), time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writePipelineError maps a usecase failure onto its status code. Anything
// that is not a *entity.PipelineError is reported as a generic 500.
func (h *AgentHandler) writePipelineError(w http.ResponseWriter, err error) {
	var perr *entity.PipelineError
	if !errors.As(err, &perr) {
		h.logger.Error("unexpected handler error", "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeError(w, StatusForKind(perr.Kind), perr.Message)
}

func StatusForKind(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindBadRequest:
		return http.StatusBadRequest
	case entity.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// bearerToken returns the token from "Authorization: Bearer <token>", or ""
// when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

type healthResp struct {
	Success     bool    `json:"success"`
	LatestBuild *string `json:"latest_build"`
}

// GET /health
func (h *AgentHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{Success: true, LatestBuild: h.latestBuild})
}

type promptResp struct {
	ReceivedInstruction string `json:"received_instruction"`
}

// POST /prompt
func (h *AgentHandler) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var req entity.InstructionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad request body: %v", err))
		return
	}
	req.BearerToken = bearerToken(r)
	req.RequestID = uuid.NewString()

	reply, err := h.promptService.Generate(r.Context(), req)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promptResp{ReceivedInstruction: reply.Explanation})
}

// GET /setup?authToken=...&scriptId=...
func (h *AgentHandler) handleSetup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	script, err := h.setupService.Render(r.Context(), q.Get("authToken"), q.Get("scriptId"))
	if err != nil {
		h.logger.Error("setup render failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(script))
}

type createScriptReq struct {
	SpreadsheetID string `json:"spreadsheet_id"`
}

type createScriptResp struct {
	Message  string `json:"message"`
	ScriptID string `json:"script_id"`
}

// POST /script/create
func (h *AgentHandler) handleCreateScript(w http.ResponseWriter, r *http.Request) {
	var req createScriptReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad request body: %v", err))
		return
	}

	scriptID, err := h.scriptService.CreateScript(r.Context(), bearerToken(r), req.SpreadsheetID)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createScriptResp{Message: "Script created successfully", ScriptID: scriptID})
}
