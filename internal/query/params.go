package query

import (
	"fmt"
	"time"
)

// Params holds the thresholds and windows for the metric queries.
type Params struct {
	// PurchaseWindowMonths bounds DelayedOrders to orders purchased
	// within this many months of the latest purchase in the store.
	PurchaseWindowMonths int

	// DeliveryDelayMargin is how far past the estimated delivery date a
	// delivery must land to count as delayed.
	DeliveryDelayMargin time.Duration

	// RevenueThreshold is the minimum delivered-order revenue
	// (exclusive) for HighRevenueSellers, in currency units.
	RevenueThreshold float64

	// ReviewWindowMonths bounds WorstReviewedPostalAreas to reviews
	// created within this many months of the latest review.
	ReviewWindowMonths int

	// MinReviewCount is the minimum review count (exclusive) for a
	// postal area to be reported.
	MinReviewCount int

	// MaxAvgReviewScore is the maximum mean score (inclusive) for a
	// postal area to be reported.
	MaxAvgReviewScore float64

	// WorstAreaLimit caps the number of postal areas returned.
	WorstAreaLimit int
}

// DefaultParams returns the dashboard's standard thresholds.
func DefaultParams() Params {
	return Params{
		PurchaseWindowMonths: 3,
		DeliveryDelayMargin:  3 * 24 * time.Hour,
		RevenueThreshold:     100000,
		ReviewWindowMonths:   12,
		MinReviewCount:       30,
		MaxAvgReviewScore:    3.7,
		WorstAreaLimit:       5,
	}
}

// ParamError reports a malformed metric query parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("query: invalid parameter %s: %s", e.Param, e.Reason)
}

func (p Params) validate() error {
	if p.PurchaseWindowMonths <= 0 {
		return &ParamError{Param: "PurchaseWindowMonths", Reason: "must be positive"}
	}
	if p.DeliveryDelayMargin < 0 {
		return &ParamError{Param: "DeliveryDelayMargin", Reason: "must not be negative"}
	}
	if p.RevenueThreshold < 0 {
		return &ParamError{Param: "RevenueThreshold", Reason: "must not be negative"}
	}
	if p.ReviewWindowMonths <= 0 {
		return &ParamError{Param: "ReviewWindowMonths", Reason: "must be positive"}
	}
	if p.MinReviewCount < 0 {
		return &ParamError{Param: "MinReviewCount", Reason: "must not be negative"}
	}
	if p.MaxAvgReviewScore < 0 {
		return &ParamError{Param: "MaxAvgReviewScore", Reason: "must not be negative"}
	}
	if p.WorstAreaLimit <= 0 {
		return &ParamError{Param: "WorstAreaLimit", Reason: "must be positive"}
	}
	return nil
}
