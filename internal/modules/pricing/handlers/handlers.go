// Package handlers provides HTTP handlers for price analysis operations.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/eyaachaabene/agrimarket/internal/modules/pricing"
	"github.com/eyaachaabene/agrimarket/internal/scheduler"
)

// AnalysisRunner defines the contract for triggering an analysis run.
// Satisfied by *scheduler.PriceAlertJob; tests substitute a fake.
type AnalysisRunner interface {
	Run(ctx context.Context) (scheduler.Summary, error)
}

// FeedSource defines the contract for on-demand commodity lookups.
// FetchWithFallback tolerates a briefly unavailable feed by serving the
// cached snapshot.
type FeedSource interface {
	FetchWithFallback(ctx context.Context) ([]pricing.MarketCommodity, error)
}

// Handler handles price analysis HTTP requests
type Handler struct {
	runner     AnalysisRunner
	feed       FeedSource
	matcher    *pricing.Matcher
	cronSecret string
	log        zerolog.Logger
}

// NewHandler creates a new pricing handler
func NewHandler(
	runner AnalysisRunner,
	feed FeedSource,
	matcher *pricing.Matcher,
	cronSecret string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		runner:     runner,
		feed:       feed,
		matcher:    matcher,
		cronSecret: cronSecret,
		log:        log.With().Str("handler", "pricing").Logger(),
	}
}

// HandleRunAnalysis triggers a full price analysis run.
// POST /api/pricing/analysis/run
// Gated by the X-Cron-Secret header; the external cron service and the
// manual trigger share the same secret.
func (h *Handler) HandleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Cron-Secret") != h.cronSecret {
		h.writeError(w, http.StatusUnauthorized, "Invalid or missing cron secret")
		return
	}

	h.log.Info().Msg("Price analysis run triggered")

	summary, err := h.runner.Run(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Price analysis run failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"message":           "Price analysis completed",
		"usersAnalyzed":     summary.UsersAnalyzed,
		"notificationsSent": summary.NotificationsSent,
		"failures":          summary.Failures,
	})
}

// HandleCompare scores a hypothetical listing against the current market
// without writing anything.
// GET /api/pricing/compare?name=...&price=...
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.writeError(w, http.StatusBadRequest, "Missing required parameter: name")
		return
	}

	price, err := strconv.ParseFloat(r.URL.Query().Get("price"), 64)
	if err != nil || price < 0 {
		h.writeError(w, http.StatusBadRequest, "Parameter price must be a non-negative number")
		return
	}

	commodities, err := h.feed.FetchWithFallback(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch market prices")
		h.writeError(w, http.StatusInternalServerError, "Market price feed unavailable")
		return
	}

	commodity := h.matcher.Match(name, commodities)
	if commodity == nil || commodity.Price <= 0 {
		// Not an error: most free-text names simply have no reference price.
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"matched": false,
			"message": "No market commodity matches this listing name",
		})
		return
	}

	analysis := pricing.Analyze(price, commodity.Price)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"matched":   true,
		"commodity": commodity,
		"analysis":  analysis,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
