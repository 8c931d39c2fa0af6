package query

import (
	"context"
	"time"

	"github.com/example/customer-analytics/internal/infrastructure/store"
	"github.com/example/customer-analytics/internal/readmodel"
)

// Handler computes the dashboard's four aggregate metrics against a
// record store. All methods are read-only and independent; an empty
// store yields empty slices, never an error. Reference times are passed
// in explicitly so results are reproducible.
type Handler struct {
	recordStore store.RecordStore
	params      Params
}

// NewHandler creates a metric query handler with the given thresholds.
func NewHandler(recordStore store.RecordStore, params Params) *Handler {
	return &Handler{recordStore: recordStore, params: params}
}

// DelayedOrders returns non-canceled orders purchased within the
// configured window of the latest purchase in the store whose delivery
// exceeded the estimated date by more than the delay margin, most
// recent purchase first.
func (h *Handler) DelayedOrders(ctx context.Context) ([]readmodel.DelayedOrder, error) {
	if err := h.params.validate(); err != nil {
		return nil, err
	}

	latest, found, err := h.recordStore.LatestPurchaseAt(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return []readmodel.DelayedOrder{}, nil
	}

	since := latest.AddDate(0, -h.params.PurchaseWindowMonths, 0)
	candidates, err := h.recordStore.DelayedOrderCandidates(ctx, since)
	if err != nil {
		return nil, err
	}

	delayed := []readmodel.DelayedOrder{}
	for _, o := range candidates {
		if o.DeliveredAt.After(o.EstimatedAt.Add(h.params.DeliveryDelayMargin)) {
			delayed = append(delayed, o)
		}
	}
	return delayed, nil
}

// HighRevenueSellers returns sellers whose delivered-order revenue
// (item price + freight) exceeds the configured threshold, descending
// by total, ascending seller id on ties.
func (h *Handler) HighRevenueSellers(ctx context.Context) ([]readmodel.SellerRevenue, error) {
	if err := h.params.validate(); err != nil {
		return nil, err
	}
	return h.recordStore.SellerRevenueTotals(ctx, h.params.RevenueThreshold)
}

// WorstReviewedPostalAreas returns the postal-code prefixes with the
// lowest mean review scores over the configured window, subject to the
// count and score thresholds, ascending by mean score.
func (h *Handler) WorstReviewedPostalAreas(ctx context.Context) ([]readmodel.PostalAreaScore, error) {
	if err := h.params.validate(); err != nil {
		return nil, err
	}

	latest, found, err := h.recordStore.LatestReviewAt(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return []readmodel.PostalAreaScore{}, nil
	}

	since := latest.AddDate(0, -h.params.ReviewWindowMonths, 0)
	return h.recordStore.PostalReviewScores(ctx, since, h.params.MinReviewCount, h.params.MaxAvgReviewScore, h.params.WorstAreaLimit)
}

// CustomerRFM computes one RFM record per customer with at least one
// delivered order. Recency is whole days between now and the customer's
// most recent delivered purchase.
func (h *Handler) CustomerRFM(ctx context.Context, now time.Time) ([]readmodel.RFM, error) {
	bases, err := h.recordStore.CustomerRFMBase(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]readmodel.RFM, 0, len(bases))
	for _, b := range bases {
		recency := int(now.Sub(b.LastPurchase).Hours() / 24)
		if recency < 0 {
			recency = 0
		}
		records = append(records, readmodel.RFM{
			CustomerID: b.CustomerID,
			Recency:    recency,
			Frequency:  b.Frequency,
			Monetary:   b.Monetary,
		})
	}
	return records, nil
}
