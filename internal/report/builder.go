// Package report assembles the dashboard's batch report: the four
// aggregate metrics plus their KPI counts. Sections are computed
// independently; one failed metric never suppresses the others.
package report

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/customer-analytics/internal/query"
	"github.com/example/customer-analytics/internal/readmodel"
)

// Section names used in Report.Errors and for export selection.
const (
	SectionDelayedOrders    = "delayed_orders"
	SectionTopSellers       = "top_sellers"
	SectionWorstPostalAreas = "worst_postal_areas"
	SectionRFM              = "rfm"
)

// KPISummary holds the scalar counts rendered in the dashboard header.
type KPISummary struct {
	DelayedOrders      int `json:"delayed_orders"`
	HighRevenueSellers int `json:"high_revenue_sellers"`
	WorstPostalAreas   int `json:"worst_postal_areas"`
	RFMCustomers       int `json:"rfm_customers"`
}

// Report is one batch run over the record store. A section whose query
// failed is left empty and its error recorded under Errors.
type Report struct {
	RunID            string                      `json:"run_id"`
	GeneratedAt      time.Time                   `json:"generated_at"`
	KPIs             KPISummary                  `json:"kpis"`
	DelayedOrders    []readmodel.DelayedOrder    `json:"delayed_orders"`
	TopSellers       []readmodel.SellerRevenue   `json:"top_sellers"`
	WorstPostalAreas []readmodel.PostalAreaScore `json:"worst_postal_areas"`
	RFM              []readmodel.RFM             `json:"rfm"`
	Errors           map[string]string           `json:"errors,omitempty"`
}

// Builder runs the metric queries and collects them into a Report.
type Builder struct {
	metrics *query.Handler
}

// NewBuilder creates a report builder over a metric query handler.
func NewBuilder(metrics *query.Handler) *Builder {
	return &Builder{metrics: metrics}
}

// Build runs all four metrics against the store. now is the reference
// time for recency; it is recorded on the report for reproducibility.
// Build never fails as a whole: per-section errors are captured on the
// report.
func (b *Builder) Build(ctx context.Context, now time.Time) *Report {
	r := &Report{
		RunID:            uuid.NewString(),
		GeneratedAt:      now,
		DelayedOrders:    []readmodel.DelayedOrder{},
		TopSellers:       []readmodel.SellerRevenue{},
		WorstPostalAreas: []readmodel.PostalAreaScore{},
		RFM:              []readmodel.RFM{},
		Errors:           map[string]string{},
	}

	if delayed, err := b.metrics.DelayedOrders(ctx); err != nil {
		log.Printf("[Report] delayed orders failed: %v", err)
		r.Errors[SectionDelayedOrders] = err.Error()
	} else {
		r.DelayedOrders = delayed
		r.KPIs.DelayedOrders = len(delayed)
	}

	if sellers, err := b.metrics.HighRevenueSellers(ctx); err != nil {
		log.Printf("[Report] high-revenue sellers failed: %v", err)
		r.Errors[SectionTopSellers] = err.Error()
	} else {
		r.TopSellers = sellers
		r.KPIs.HighRevenueSellers = len(sellers)
	}

	if areas, err := b.metrics.WorstReviewedPostalAreas(ctx); err != nil {
		log.Printf("[Report] worst postal areas failed: %v", err)
		r.Errors[SectionWorstPostalAreas] = err.Error()
	} else {
		r.WorstPostalAreas = areas
		r.KPIs.WorstPostalAreas = len(areas)
	}

	if rfm, err := b.metrics.CustomerRFM(ctx, now); err != nil {
		log.Printf("[Report] customer rfm failed: %v", err)
		r.Errors[SectionRFM] = err.Error()
	} else {
		r.RFM = rfm
		r.KPIs.RFMCustomers = len(rfm)
	}

	if len(r.Errors) == 0 {
		r.Errors = nil
	}
	return r
}
