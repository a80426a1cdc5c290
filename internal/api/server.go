// Package api exposes roster parsing and compliance checking over REST.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ftl_checker/internal/compliance"
	"ftl_checker/internal/duty"
	"ftl_checker/internal/registry"
	"ftl_checker/internal/standby"
	"ftl_checker/internal/storage"
	"ftl_checker/pkg/logger"
)

// Server serves the roster and compliance API.
type Server struct {
	registry *registry.Registry
	engine   *compliance.Engine
	board    flightboardParser
	archive  *storage.DB    // optional roster archive
	store    *storage.Store // optional crew state / analytics
	log      *logger.Logger
	addr     string
	language string
}

// flightboardParser is the subset of the flight-board parser the server
// needs, kept as an interface so tests can stub it.
type flightboardParser interface {
	Parse(text string) *duty.ParseResult
}

// Config holds API server settings.
type Config struct {
	Addr     string
	Language string // default message language for compliance reports
}

// NewServer creates an API server. Archive and store may be nil; the
// corresponding persistence is then skipped.
func NewServer(reg *registry.Registry, engine *compliance.Engine, board flightboardParser, archive *storage.DB, store *storage.Store, log *logger.Logger, cfg Config) *Server {
	return &Server{
		registry: reg,
		engine:   engine,
		board:    board,
		archive:  archive,
		store:    store,
		log:      log.Named("api"),
		addr:     cfg.Addr,
		language: cfg.Language,
	}
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	r := s.Router()
	s.log.Info("listening", logger.String("addr", s.addr))
	return http.ListenAndServe(s.addr, r)
}

// Router returns the configured chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/roster/parse", s.handleParse)
		r.Post("/roster/trace", s.handleTrace)
		r.Get("/roster/formats", s.handleFormats)
		r.Post("/compliance/check", s.handleCheck)
		r.Post("/standby/availability", s.handleStandby)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ParseRequest is the body of POST /api/v1/roster/parse.
type ParseRequest struct {
	Text   string `json:"text"`
	CrewID string `json:"crew_id,omitempty"`
}

// ParseResponse wraps the parse envelope with the detected format.
type ParseResponse struct {
	Format string            `json:"format"`
	Result *duty.ParseResult `json:"result"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	now := time.Now().UTC()
	parser := s.registry.Detect(req.Text)
	if parser == nil {
		writeError(w, http.StatusInternalServerError, "no parser available")
		return
	}
	result := parser.Parse(req.Text, now)

	outcome := "failed"
	if result.Success {
		outcome = "ok"
	}
	rostersParsed.WithLabelValues(parser.Name(), outcome).Inc()

	if s.archive != nil {
		_, err := s.archive.Insert(storage.InsertParams{
			ReceivedAt: now,
			CrewID:     req.CrewID,
			Format:     parser.Name(),
			Success:    result.Success,
			DutyDays:   result.Summary.TotalDays,
			Segments:   result.Summary.TotalSegments,
			RawText:    req.Text,
			Result:     result,
			Errors:     result.Errors,
		})
		if err != nil {
			s.log.Error("archive roster", logger.Error(err))
		}
	}
	if s.store != nil && req.CrewID != "" {
		if err := s.store.PG.UpsertCrew(r.Context(), storage.Crew{CrewID: req.CrewID}); err != nil {
			s.log.Error("upsert crew", logger.Error(err))
		} else {
			for _, p := range result.DutyPeriods {
				if err := s.store.PG.UpsertDutyPeriod(r.Context(), req.CrewID, p); err != nil {
					s.log.Error("upsert duty period", logger.String("date", p.Date), logger.Error(err))
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, ParseResponse{Format: parser.Name(), Result: result})
}

// TraceResponse is the body of POST /api/v1/roster/trace: every parser's
// classification and parse attempt against the submitted text.
type TraceResponse struct {
	Traces []traceEntry `json:"traces"`
}

type traceEntry struct {
	Parser  string                `json:"parser"`
	Claimed bool                  `json:"claimed"`
	Trace   *registry.TraceResult `json:"trace,omitempty"`
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	now := time.Now().UTC()
	var resp TraceResponse
	for _, p := range s.registry.AllParsers() {
		entry := traceEntry{
			Parser:  p.Name(),
			Claimed: p.SignatureCount(req.Text) >= p.Threshold(),
		}
		if t, ok := p.(registry.Traceable); ok {
			entry.Trace = t.ParseWithTrace(req.Text, now)
		}
		resp.Traces = append(resp.Traces, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

// FormatInfo describes one supported roster format.
type FormatInfo struct {
	Name    string `json:"name"`
	Example string `json:"example"`
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	var formats []FormatInfo
	for _, p := range s.registry.AllParsers() {
		formats = append(formats, FormatInfo{Name: p.Name(), Example: p.ExampleInput()})
	}
	writeJSON(w, http.StatusOK, formats)
}

// CheckRequest is the body of POST /api/v1/compliance/check. Duties may be
// supplied inline, or by crew ID to evaluate the stored duty history.
type CheckRequest struct {
	Duties   []duty.Period `json:"duties,omitempty"`
	CrewID   string        `json:"crew_id,omitempty"`
	Scope    string        `json:"scope,omitempty"`
	Language string        `json:"language,omitempty"`
}

// CheckResponse wraps the compliance report with its stored run ID, when
// persistence is configured.
type CheckResponse struct {
	RunID  string             `json:"run_id,omitempty"`
	Report *compliance.Report `json:"report"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	duties := req.Duties
	if len(duties) == 0 && req.CrewID != "" && s.store != nil {
		var err error
		duties, err = s.store.PG.GetDutyPeriods(r.Context(), req.CrewID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "load duty history: "+err.Error())
			return
		}
	}
	if len(duties) == 0 {
		writeError(w, http.StatusBadRequest, "duties or a known crew_id is required")
		return
	}

	lang := req.Language
	if lang == "" {
		lang = s.language
	}

	report, err := s.engine.Evaluate(duties, compliance.Options{
		Scope:    compliance.Scope(req.Scope),
		Language: lang,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recordRunMetrics(report)

	resp := CheckResponse{Report: report}
	if s.store != nil {
		resp.RunID = s.persistRun(r, req, report)
	}
	writeJSON(w, http.StatusOK, resp)
}

// persistRun stores the evaluation in PostgreSQL and its per-day rows in
// ClickHouse, best effort. Returns the run ID or empty on failure.
func (s *Server) persistRun(r *http.Request, req CheckRequest, report *compliance.Report) string {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		s.log.Error("marshal report", logger.Error(err))
		return ""
	}

	runID, err := s.store.PG.InsertComplianceRun(r.Context(), storage.ComplianceRun{
		CrewID:      req.CrewID,
		Scope:       req.Scope,
		Language:    req.Language,
		TotalDays:   report.Summary.TotalDays,
		LegalDays:   report.Summary.LegalDays,
		WarningDays: report.Summary.WarningDays,
		IllegalDays: report.Summary.IllegalDays,
		ReportJSON:  reportJSON,
	})
	if err != nil {
		s.log.Error("store compliance run", logger.Error(err))
		return ""
	}

	days := make([]storage.CHDayParams, 0, len(report.Results))
	for _, res := range report.Results {
		date, err := time.Parse(duty.DateFormat, res.Date)
		if err != nil {
			continue
		}
		issues := make([]string, 0, len(res.Issues))
		for _, iss := range res.Issues {
			issues = append(issues, string(iss.Type))
		}
		days = append(days, storage.CHDayParams{
			RunID:             runID.String(),
			CrewID:            req.CrewID,
			DutyDate:          date,
			DutyType:          string(res.DutyType),
			Status:            string(res.Status),
			FDPMinutes:        minutesFrom(res.Calculations["fdp"]),
			MaxFDPMinutes:     minutesFrom(res.Calculations["max_fdp"]),
			FlightTimeMinutes: minutesFrom(res.Calculations["flight_time"]),
			RestMinutes:       minutesFrom(res.Calculations["rest"]),
			Sectors:           sectorsFrom(res.Calculations["sectors"]),
			FatigueScore:      uint8(res.FatigueScore),
			IssueTypes:        issues,
		})
	}
	if err := s.store.CH.InsertDays(r.Context(), days); err != nil {
		s.log.Error("store compliance days", logger.Error(err))
	}

	return runID.String()
}

func recordRunMetrics(report *compliance.Report) {
	worst := compliance.StatusLegal
	for _, res := range report.Results {
		if res.Status == compliance.StatusIllegal {
			worst = compliance.StatusIllegal
		} else if res.Status == compliance.StatusWarning && worst == compliance.StatusLegal {
			worst = compliance.StatusWarning
		}
		for _, iss := range res.Issues {
			complianceIssues.WithLabelValues(string(iss.Type)).Inc()
		}
	}
	complianceRuns.WithLabelValues(string(worst)).Inc()
}

// StandbyRequest is the body of POST /api/v1/standby/availability.
type StandbyRequest struct {
	BoardText       string `json:"board_text"`
	WindowStart     string `json:"window_start"`
	WindowEnd       string `json:"window_end"`
	CallLeadMinutes int    `json:"call_lead_minutes,omitempty"`
}

// StandbyResponse pairs the board parse envelope with the availability
// outcome.
type StandbyResponse struct {
	ParseErrors  []string             `json:"parse_errors,omitempty"`
	Availability standby.Availability `json:"availability"`
}

func (s *Server) handleStandby(w http.ResponseWriter, r *http.Request) {
	var req StandbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BoardText == "" || req.WindowStart == "" || req.WindowEnd == "" {
		writeError(w, http.StatusBadRequest, "board_text, window_start and window_end are required")
		return
	}

	result := s.board.Parse(req.BoardText)
	av := standby.Compute(result.Flights, standby.Options{
		WindowStart:     req.WindowStart,
		WindowEnd:       req.WindowEnd,
		CallLeadMinutes: req.CallLeadMinutes,
	})

	writeJSON(w, http.StatusOK, StandbyResponse{
		ParseErrors:  result.Errors,
		Availability: av,
	})
}

// minutesFrom parses an elapsed "H:MM" calculation value back into minutes.
// Placeholder values ("N/A") come back as -1.
func minutesFrom(dur string) int32 {
	i := strings.IndexByte(dur, ':')
	if i < 1 {
		return -1
	}
	h, err := strconv.Atoi(dur[:i])
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(dur[i+1:])
	if err != nil || m < 0 || m > 59 {
		return -1
	}
	return int32(h*60 + m)
}

func sectorsFrom(s string) uint8 {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
