package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	campaignwizard "adpilot/contexts/campaign-automation/campaign-wizard"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/adplatform"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	wizardhttp "adpilot/contexts/campaign-automation/campaign-wizard/transport/http"
	"adpilot/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "adpilot/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	wizard campaignwizard.Module
}

func New(wizard campaignwizard.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		wizard: wizard,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("POST /v1/wizard/credentials", instrument("save_credential", s.handleSaveCredential))
	s.mux.HandleFunc("POST /v1/wizard/tasks", instrument("start_scan", s.handleStartScan))
	s.mux.HandleFunc("GET /v1/wizard/tasks", instrument("list_tasks", s.handleListTasks))
	s.mux.HandleFunc("GET /v1/wizard/tasks/{task_id}", instrument("get_task", s.handleGetTask))
	s.mux.HandleFunc("POST /v1/wizard/tasks/{task_id}/profile", instrument("provide_profile", s.handleProvideProfile))
	s.mux.HandleFunc("POST /v1/wizard/tasks/{task_id}/strategy", instrument("generate_strategy", s.handleGenerateStrategy))
	s.mux.HandleFunc("POST /v1/wizard/tasks/{task_id}/creatives/select", instrument("select_variant", s.handleSelectVariant))
	s.mux.HandleFunc("POST /v1/wizard/tasks/{task_id}/launch", instrument("launch_campaign", s.handleLaunchCampaign))
}

func (s *Server) handleSaveCredential(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req wizardhttp.SaveCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.wizard.Handler.SaveCredentialHandler(r.Context(), userID, req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req wizardhttp.StartScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.wizard.Handler.StartScanHandler(r.Context(), userID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleProvideProfile(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req wizardhttp.ProvideProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.wizard.Handler.ProvideProfileHandler(r.Context(), userID, r.PathValue("task_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateStrategy(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req wizardhttp.GenerateStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.wizard.Handler.GenerateStrategyHandler(r.Context(), userID, r.PathValue("task_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelectVariant(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req wizardhttp.SelectVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.wizard.Handler.SelectVariantHandler(r.Context(), userID, r.PathValue("task_id"), req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLaunchCampaign(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	var req wizardhttp.LaunchCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.wizard.Handler.LaunchCampaignHandler(r.Context(), userID, r.PathValue("task_id"), req)
	if err != nil {
		metrics.LaunchesTotal.WithLabelValues("failed").Inc()
		writeDomainError(w, err)
		return
	}
	if resp.AlreadyLaunched {
		metrics.LaunchesTotal.WithLabelValues("replayed").Inc()
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	metrics.LaunchesTotal.WithLabelValues("completed").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.wizard.Handler.GetTaskHandler(r.Context(), userID, r.PathValue("task_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	resp, err := s.wizard.Handler.ListTasksHandler(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	var structured adplatform.StructuredError
	if errors.As(err, &structured) {
		metrics.PlatformErrorsTotal.WithLabelValues(string(structured.Kind)).Inc()
		writeError(w, statusForKind(structured.Kind), string(structured.Kind), structured.Rendered())
		return
	}

	switch {
	case errors.Is(err, domainerrors.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrTaskOwnershipMismatch):
		writeError(w, http.StatusForbidden, "task_ownership_mismatch", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTaskInput):
		writeError(w, http.StatusBadRequest, "invalid_task_input", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, domainerrors.ErrMissingBusinessProfile):
		writeError(w, http.StatusUnprocessableEntity, "missing_business_profile", err.Error())
	case errors.Is(err, domainerrors.ErrMissingStrategy):
		writeError(w, http.StatusUnprocessableEntity, "missing_strategy", err.Error())
	case errors.Is(err, domainerrors.ErrMissingCreativeImage):
		writeError(w, http.StatusUnprocessableEntity, "missing_creative_image", err.Error())
	case errors.Is(err, domainerrors.ErrVariantNotFound):
		writeError(w, http.StatusNotFound, "variant_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyLaunched):
		writeError(w, http.StatusConflict, "already_launched", err.Error())
	case errors.Is(err, domainerrors.ErrCredentialNotFound):
		writeError(w, http.StatusPreconditionFailed, "credential_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrCredentialInvalid):
		writeError(w, http.StatusUnprocessableEntity, "credential_invalid", err.Error())
	case errors.Is(err, domainerrors.ErrStrategyGeneration):
		writeError(w, http.StatusBadGateway, "strategy_generation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func statusForKind(kind adplatform.ErrorKind) int {
	switch kind {
	case adplatform.KindPaymentRequired:
		return http.StatusPaymentRequired
	case adplatform.KindAccountDisabled, adplatform.KindPermissionDenied:
		return http.StatusForbidden
	case adplatform.KindRateLimit:
		return http.StatusTooManyRequests
	case adplatform.KindAdDisapproved:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
	}
	return userID
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, wizardhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
	}
}
