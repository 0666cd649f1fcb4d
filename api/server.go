package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cloudcost/core/agent"
	"cloudcost/core/dataset"
	"cloudcost/core/series"
	"cloudcost/core/types"
	"cloudcost/internal/errors"
	"cloudcost/internal/logging"
)

// Server is the API server.
type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	version string
	store   *dataset.Store
	agent   *agent.Client
}

// NewServer wires the dataset store and the analysis client behind the
// HTTP routes.
func NewServer(version string, store *dataset.Store, agentClient *agent.Client) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		version: version,
		store:   store,
		agent:   agentClient,
	}
	s.registerRoutes()
	s.handler = instrument(requestID(s.mux))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// chart data
	s.mux.HandleFunc("GET /projects", s.handleProjects)
	s.mux.HandleFunc("GET /timeseries", s.handleTimeseries)
	s.mux.HandleFunc("GET /instances", s.handleInstances)
	s.mux.HandleFunc("GET /forecast", s.handleForecast)
	s.mux.HandleFunc("GET /assets", s.handleAssets)

	// actions
	s.mux.HandleFunc("POST /run-agent", s.handleRunAgent)
	s.mux.HandleFunc("POST /tickets", s.handleTicket)
	s.mux.HandleFunc("POST /reload", s.handleReload)

	// supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// requestID tags every response for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

// handleProjects handles GET /projects
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		key = "project_id"
	}

	snap := s.store.Snapshot()
	options := series.Distinct(snap.Billing.Rows, key)

	s.writeJSON(w, map[string]interface{}{
		"projects": options,
		"count":    len(options),
	}, http.StatusOK)
}

// handleTimeseries handles GET /timeseries
func (s *Server) handleTimeseries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	project := strings.TrimSpace(q.Get("project"))
	if project == "" {
		s.writeError(w, errors.Input("project is required"))
		return
	}
	days, verr := parseDays(q.Get("days"))
	if verr != nil {
		s.writeError(w, verr)
		return
	}

	hint := types.SchemaHint{
		EntityKey: q.Get("project_key"),
		DateKey:   q.Get("date_key"),
		ValueKey:  q.Get("value_key"),
	}
	if hint.EntityKey == "" {
		hint.EntityKey = "project_id"
	}

	snap := s.store.Snapshot()
	result, err := series.DailyCost(snap.Billing, hint, project, days, time.Now().UTC())
	if err != nil {
		s.writeError(w, asError(err))
		return
	}

	s.writeJSON(w, result, http.StatusOK)
}

// handleInstances handles GET /instances
func (s *Server) handleInstances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	days, verr := parseDays(q.Get("days"))
	if verr != nil {
		s.writeError(w, verr)
		return
	}

	var filter []string
	if raw := strings.TrimSpace(q.Get("instances")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter = append(filter, name)
			}
		}
	}

	snap := s.store.Snapshot()
	aggregates := series.InstanceUtilization(snap.Metrics, days, filter, time.Now().UTC())

	s.writeJSON(w, map[string]interface{}{
		"series": aggregates,
		"count":  len(aggregates),
	}, http.StatusOK)
}

// handleForecast handles GET /forecast
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	project := strings.TrimSpace(q.Get("project"))
	if project == "" {
		s.writeError(w, errors.Input("project is required"))
		return
	}
	days, verr := parseDays(q.Get("days"))
	if verr != nil {
		s.writeError(w, verr)
		return
	}

	snap := s.store.Snapshot()
	result, err := series.DailyCost(snap.Billing, types.SchemaHint{EntityKey: "project_id"}, project, days, time.Now().UTC())
	if err != nil {
		s.writeError(w, asError(err))
		return
	}

	s.writeJSON(w, series.Forecast(result.Series), http.StatusOK)
}

// handleAssets handles GET /assets
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	assets := snap.Assets
	if assets == nil {
		assets = []types.Asset{}
	}
	s.writeJSON(w, map[string]interface{}{
		"assets": assets,
		"count":  len(assets),
	}, http.StatusOK)
}

// handleRunAgent handles POST /run-agent by proxying to the analysis
// service. Each submission is independent; a stale submission is never
// cancelled server-side, the last response wins in the UI.
func (s *Server) handleRunAgent(w http.ResponseWriter, r *http.Request) {
	var req RunAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.writeError(w, errors.Input("invalid JSON body"))
		return
	}

	req.ProjectID = strings.TrimSpace(req.ProjectID)
	if req.ProjectID == "" {
		s.writeError(w, errors.Input("project_id is required"))
		return
	}
	if req.Days == 0 {
		req.Days = 30
	}
	if req.Days < 0 || req.Days > maxWindowDays {
		s.writeError(w, errors.Newf(errors.TypeInput, "days must be between 1 and %d", maxWindowDays))
		return
	}

	result, err := s.agent.Run(r.Context(), req.ProjectID, req.Days)
	if err != nil {
		logging.Error("analysis run failed",
			zap.String("project_id", req.ProjectID), zap.Error(err))
		s.writeError(w, asError(err))
		return
	}

	s.writeJSON(w, result, http.StatusOK)
}

// handleTicket handles POST /tickets
func (s *Server) handleTicket(w http.ResponseWriter, r *http.Request) {
	var req TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Input("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, errors.Input("title is required"))
		return
	}

	s.writeJSON(w, agent.CreateTicket(req.Title, req.Body), http.StatusCreated)
}

// handleReload handles POST /reload
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	err := s.store.Load(r.Context())
	snap := s.store.Snapshot()

	body := map[string]interface{}{
		"billing_rows": len(snap.Billing.Rows),
		"metrics_rows": len(snap.Metrics),
		"assets":       len(snap.Assets),
		"loaded_at":    snap.LoadedAt.Format(time.RFC3339),
	}
	if err != nil {
		// partial refresh: report what loaded alongside the failure
		body["error"] = err.Error()
		s.writeJSON(w, body, http.StatusBadGateway)
		return
	}
	s.writeJSON(w, body, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "cloudcost",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err *errors.Error) {
	var body ErrorBody
	body.Error.Code = string(err.Type)
	body.Error.Message = err.Message
	body.Error.RequestID = w.Header().Get("X-Request-ID")
	s.writeJSON(w, body, statusFor(err))
}

// asError normalizes any error into the domain taxonomy.
func asError(err error) *errors.Error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.Internal("unexpected error", err)
}
