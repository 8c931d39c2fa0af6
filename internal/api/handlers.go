package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/customer-analytics/internal/infrastructure/store"
	"github.com/example/customer-analytics/internal/query"
	"github.com/example/customer-analytics/internal/ranking"
	"github.com/example/customer-analytics/internal/readmodel"
	"github.com/example/customer-analytics/internal/segmentation"
)

// Handlers serves the client lookup endpoints and the dashboard metric
// feeds. Every endpoint is a read-only, idempotent query.
type Handlers struct {
	recordStore store.RecordStore
	metrics     *query.Handler
	scorer      segmentation.Scorer
	ranker      *ranking.Ranker
	defaultN    int
	now         func() time.Time
}

func NewHandlers(recordStore store.RecordStore, metrics *query.Handler, scorer segmentation.Scorer, ranker *ranking.Ranker, defaultN int) *Handlers {
	return &Handlers{
		recordStore: recordStore,
		metrics:     metrics,
		scorer:      scorer,
		ranker:      ranker,
		defaultN:    defaultN,
		now:         time.Now,
	}
}

// Client Lookup Handlers

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type clientRef struct {
	CustomerID string `json:"customer_id"`
}

func (h *Handlers) GetClients(w http.ResponseWriter, r *http.Request) {
	ids, err := h.recordStore.CustomerIDs(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	clients := make([]clientRef, 0, len(ids))
	for _, id := range ids {
		clients = append(clients, clientRef{CustomerID: id})
	}
	respondJSON(w, http.StatusOK, clients)
}

func (h *Handlers) GetClient(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/client/")
	if id == "" {
		http.Error(w, "Missing client id", http.StatusBadRequest)
		return
	}

	seg, found, err := h.recordStore.Segment(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Client not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, segmentation.Assign(h.scorer, *seg))
}

func (h *Handlers) GetTopClients(w http.ResponseWriter, r *http.Request) {
	h.rankedClients(w, r, true)
}

func (h *Handlers) GetWorstClients(w http.ResponseWriter, r *http.Request) {
	h.rankedClients(w, r, false)
}

func (h *Handlers) rankedClients(w http.ResponseWriter, r *http.Request, best bool) {
	n := h.defaultN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid n", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	segs, err := h.recordStore.Segments(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ranked, err := rank(h.ranker, segs, n, best)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, segmentation.AssignAll(h.scorer, ranked))
}

// Metric Handlers (dashboard feed)

func (h *Handlers) GetDelayedOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.metrics.DelayedOrders(r.Context())
	if err != nil {
		respondMetricError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetTopSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.metrics.HighRevenueSellers(r.Context())
	if err != nil {
		respondMetricError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sellers)
}

func (h *Handlers) GetWorstPostalAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.metrics.WorstReviewedPostalAreas(r.Context())
	if err != nil {
		respondMetricError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, areas)
}

func (h *Handlers) GetRFM(w http.ResponseWriter, r *http.Request) {
	records, err := h.metrics.CustomerRFM(r.Context(), h.now())
	if err != nil {
		respondMetricError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GetMetricsSummary returns the KPI counts for all four metrics. A
// failed metric reports its error under "errors" without suppressing
// the others.
func (h *Handlers) GetMetricsSummary(w http.ResponseWriter, r *http.Request) {
	type summary struct {
		DelayedOrders      *int              `json:"delayed_orders,omitempty"`
		HighRevenueSellers *int              `json:"high_revenue_sellers,omitempty"`
		WorstPostalAreas   *int              `json:"worst_postal_areas,omitempty"`
		RFMCustomers       *int              `json:"rfm_customers,omitempty"`
		Errors             map[string]string `json:"errors,omitempty"`
	}
	s := summary{Errors: map[string]string{}}

	if orders, err := h.metrics.DelayedOrders(r.Context()); err != nil {
		s.Errors["delayed_orders"] = err.Error()
	} else {
		n := len(orders)
		s.DelayedOrders = &n
	}
	if sellers, err := h.metrics.HighRevenueSellers(r.Context()); err != nil {
		s.Errors["high_revenue_sellers"] = err.Error()
	} else {
		n := len(sellers)
		s.HighRevenueSellers = &n
	}
	if areas, err := h.metrics.WorstReviewedPostalAreas(r.Context()); err != nil {
		s.Errors["worst_postal_areas"] = err.Error()
	} else {
		n := len(areas)
		s.WorstPostalAreas = &n
	}
	if records, err := h.metrics.CustomerRFM(r.Context(), h.now()); err != nil {
		s.Errors["rfm_customers"] = err.Error()
	} else {
		n := len(records)
		s.RFMCustomers = &n
	}

	if len(s.Errors) == 0 {
		s.Errors = nil
	}
	respondJSON(w, http.StatusOK, s)
}

// Helper functions

func rank(ranker *ranking.Ranker, segs []readmodel.SegmentationResult, n int, best bool) ([]readmodel.SegmentationResult, error) {
	if best {
		return ranker.Top(segs, n)
	}
	return ranker.Bottom(segs, n)
}

func respondMetricError(w http.ResponseWriter, err error) {
	var paramErr *query.ParamError
	if errors.As(err, &paramErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
