package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finsight/internal/core"
	"finsight/internal/services"
	"finsight/internal/storage"
)

const (
	candidatesKey = "candidates"
	summaryKey    = "summary"
)

func trendsKey(limit int) string {
	return "trends:" + strconv.Itoa(limit)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// limitParam reads ?limit= and clamps it to [1, 50], falling back to
// def when absent or unparsable.
func limitParam(r *http.Request, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 1 {
		return def
	}
	if limit > 50 {
		return 50
	}
	return limit
}

// handleInsights serves a random sample of the currently firing
// insights. The candidate set is cached; the shuffle runs per request.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	candidates, found := s.candidatesCache.Get(candidatesKey)
	if !found {
		var err error
		candidates, err = s.service.InsightCandidates(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Insight evaluation failed", "error", err)
			writeError(w, http.StatusBadGateway, "failed to evaluate insights")
			return
		}
		s.candidatesCache.Set(candidatesKey, candidates)
	}

	limit := limitParam(r, s.insightLimit)
	selected := s.service.SelectInsights(candidates, limit)
	if selected == nil {
		selected = []core.Insight{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": selected})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := limitParam(r, s.trendLimit)
	key := trendsKey(limit)

	trends, found := s.trendsCache.Get(key)
	if !found {
		var err error
		trends, err = s.service.Trends(r.Context(), limit)
		if err != nil {
			slog.ErrorContext(r.Context(), "Trend analysis failed", "error", err)
			writeError(w, http.StatusBadGateway, "failed to analyze trends")
			return
		}
		s.trendsCache.Set(key, trends)
	}

	if trends == nil {
		trends = []core.Trend{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trends": trends})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, found := s.summaryCache.Get(summaryKey)
	if !found {
		var err error
		summary, err = s.service.Summary(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Summary aggregation failed", "error", err)
			writeError(w, http.StatusBadGateway, "failed to compute summary")
			return
		}
		s.summaryCache.Set(summaryKey, summary)
	}

	writeJSON(w, http.StatusOK, summary)
}

// transactionRequest is the ingestion payload. Date and amount accept
// strings in the formats the parsers understand; malformed values
// coerce to zero and fail validation rather than erroring earlier.
type transactionRequest struct {
	Date     string          `json:"date"`
	Amount   json.RawMessage `json:"amount"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Notes    string          `json:"notes"`
}

// coerceAmount accepts a JSON number or a formatted string
// ("1.200,50", "$45.99"). Anything else coerces to zero.
func coerceAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return core.SafeNumber(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return core.ParseAmount(s)
	}
	return 0
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	txType := core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type)))
	if txType == "" {
		txType = core.Expense
	}

	tx := core.Transaction{
		Date:     core.ParseDate(req.Date),
		Amount:   coerceAmount(req.Amount),
		Type:     txType,
		Category: strings.TrimSpace(req.Category),
		Notes:    strings.TrimSpace(req.Notes),
	}

	err := s.service.AddTransaction(r.Context(), tx)
	switch {
	case errors.Is(err, services.ErrReadOnlyBackend):
		writeError(w, http.StatusMethodNotAllowed, "ledger backend is read-only")
		return
	case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrInvalidType):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Transaction create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type budgetRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Spent    json.RawMessage `json:"spent"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	budget := core.Budget{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Amount:   coerceAmount(req.Amount),
		Spent:    coerceAmount(req.Spent),
	}

	err := s.service.AddBudget(r.Context(), budget)
	switch {
	case errors.Is(err, services.ErrReadOnlyBackend):
		writeError(w, http.StatusMethodNotAllowed, "ledger backend is read-only")
		return
	case errors.Is(err, core.ErrEmptyBudgetName), errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Budget create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.service.RequestRefresh(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Refresh request failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "refresh unavailable")
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh requested"})
}

// digestResponse flattens the stored digest for the API.
type digestResponse struct {
	ID          string         `json:"id"`
	Reason      string         `json:"reason"`
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     core.Summary   `json:"summary"`
	Insights    []core.Insight `json:"insights"`
	Trends      []core.Trend   `json:"trends"`
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.digests == nil {
		writeError(w, http.StatusNotFound, "digest storage not configured")
		return
	}

	digest, err := s.digests.LatestDigest(r.Context())
	if errors.Is(err, storage.ErrNoDigest) {
		writeError(w, http.StatusNotFound, "no digest generated yet")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Digest lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load digest")
		return
	}

	writeJSON(w, http.StatusOK, digestResponse{
		ID:          digest.ID,
		Reason:      digest.Reason,
		GeneratedAt: digest.GeneratedAt,
		Summary:     digest.Summary,
		Insights:    digest.Insights,
		Trends:      digest.Trends,
	})
}
