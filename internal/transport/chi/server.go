package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/request"
	"github.com/kailas-cloud/wisdom/internal/logger"
	"github.com/kailas-cloud/wisdom/internal/metrics"
	cataloguc "github.com/kailas-cloud/wisdom/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/wisdom/internal/usecase/health"
	permutationuc "github.com/kailas-cloud/wisdom/internal/usecase/permutation"
	searchuc "github.com/kailas-cloud/wisdom/internal/usecase/search"
	"github.com/kailas-cloud/wisdom/internal/version"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Error codes of the response envelope that are not client messages.
const (
	errInternal    = "internal_error"
	errInvalidBody = "invalid request body"
)

// Search kinds and outcomes for request metrics.
const (
	kindTables       = "tables"
	kindRows         = "rows"
	kindPermutations = "permutations"

	outcomeOK          = "ok"
	outcomeClientError = "client_error"
	outcomeNotFound    = "not_found"
	outcomeError       = "error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Paging holds the row paging limits.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// Server serves the wisdom HTTP API.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	permutations  *permutationuc.Service
	health        *healthuc.Service
	paging        Paging
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	permutations *permutationuc.Service,
	health *healthuc.Service,
	paging Paging,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:       search,
		catalog:      catalog,
		permutations: permutations,
		health:       health,
		paging:       paging,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		notFoundHandler,
		sentinelHandler(domain.ErrDatasetCorrupt, http.StatusInternalServerError, errInternal),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Route("/api", func(r gochi.Router) {
		r.Get("/version", s.Version)
		r.Get("/health", s.Health)
		r.Get("/ready", s.Ready)
		r.Get("/catalog", s.Catalog)
		r.Get("/bdts", s.BDTs)
		r.Post("/search/tables", s.SearchTables)
		r.Post("/search/rows", s.SearchRows)
		r.Post("/permutations", s.Permutations)
	})
	r.Get("/metrics", s.Metrics)
}

// Version handles GET /api/version.
func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.APIVersion})
}

// Health handles GET /api/health. It reports liveness only.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: string(healthuc.Healthy)})
}

// Ready handles GET /api/ready.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// Catalog handles GET /api/catalog.
func (s *Server) Catalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogToResponse(s.catalog.Catalog()))
}

// BDTs handles GET /api/bdts.
func (s *Server) BDTs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"bdts": s.catalog.BDTs()})
}

// SearchTables handles POST /api/search/tables.
func (s *Server) SearchTables(w http.ResponseWriter, r *http.Request) {
	var body searchTablesRequest
	if !s.decode(w, r, kindTables, &body) {
		return
	}

	req, err := request.NewTables(body.databases(), body.Query, body.Filters, body.Permutations, body.PickedTables)
	if err != nil {
		s.fail(w, r, kindTables, err)
		return
	}

	res, err := s.search.SearchTables(r.Context(), &req)
	if err != nil {
		s.fail(w, r, kindTables, err)
		return
	}

	observe(kindTables, outcomeOK)
	writeJSON(w, http.StatusOK, tablesToResponse(res))
}

// SearchRows handles POST /api/search/rows.
func (s *Server) SearchRows(w http.ResponseWriter, r *http.Request) {
	var body searchRowsRequest
	if !s.decode(w, r, kindRows, &body) {
		return
	}
	if body.Options == nil {
		s.fail(w, r, kindRows, domain.NewInvalidRequest("options is required"))
		return
	}

	opts := body.Options
	pg := page.NewRequest(opts.PageNumber, opts.StartRow, opts.SizeLimit, s.paging.DefaultSize)
	req, err := request.NewRows(
		opts.DB, opts.Table, body.Query, body.Filters,
		body.Permutations, body.PickedTables, pg, s.paging.MaxSize,
	)
	if err != nil {
		s.fail(w, r, kindRows, err)
		return
	}

	res, err := s.search.SearchRows(r.Context(), &req)
	if err != nil {
		s.fail(w, r, kindRows, err)
		return
	}

	observe(kindRows, outcomeOK)
	writeJSON(w, http.StatusOK, rowsToResponse(res))
}

// Permutations handles POST /api/permutations.
func (s *Server) Permutations(w http.ResponseWriter, r *http.Request) {
	var body permutationsRequest
	if !s.decode(w, r, kindPermutations, &body) {
		return
	}

	terms, err := body.terms()
	if err != nil {
		s.fail(w, r, kindPermutations, err)
		return
	}

	perms, err := s.permutations.Expand(terms, body.PermutationID, body.Params)
	if err != nil {
		s.fail(w, r, kindPermutations, err)
		return
	}

	observe(kindPermutations, outcomeOK)
	writeJSON(w, http.StatusOK, map[string]any{"permutations": perms})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into v and writes a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, kind string, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		observe(kind, outcomeClientError)
		logger.FromContext(r.Context()).Debug("invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, errInvalidBody, err.Error())
		return false
	}
	return true
}

// fail maps err to a response and records the request outcome.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, kind string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		observe(kind, outcomeClientError)
	case errors.Is(err, domain.ErrNotFound):
		observe(kind, outcomeNotFound)
	default:
		observe(kind, outcomeError)
	}
	s.handleDomainError(w, r, err)
}

func observe(kind, outcome string) {
	metrics.SearchRequestsTotal.WithLabelValues(kind, outcome).Inc()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// invalidRequestHandler answers client-input errors with their message.
func invalidRequestHandler(w http.ResponseWriter, err error) bool {
	var ire *domain.InvalidRequestError
	if !errors.As(err, &ire) {
		return false
	}
	writeError(w, http.StatusBadRequest, ire.Msg, nil)
	return true
}

// notFoundHandler answers with the unresolved identifier, without the
// wrapping context added on the way up.
func notFoundHandler(w http.ResponseWriter, err error) bool {
	var nfe *domain.NotFoundError
	if !errors.As(err, &nfe) {
		return false
	}
	writeError(w, http.StatusNotFound, nfe.Error(), nil)
	return true
}

func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
	writeError(w, http.StatusInternalServerError, errInternal, "internal error")
}
