package store

import (
	"context"
	"time"

	"github.com/example/customer-analytics/internal/readmodel"
)

// RecordStore defines read-only access to the analytics record store
// (orders, order_items, customers, sellers, order_reviews) plus the
// externally produced customer_segments relation.
//
// All methods tolerate an empty store: no matching rows means an empty
// slice (or found=false) with a nil error. A non-nil error is always an
// *AccessError.
type RecordStore interface {
	// LatestPurchaseAt returns the most recent order purchase timestamp.
	// found is false when the store holds no orders.
	LatestPurchaseAt(ctx context.Context) (latest time.Time, found bool, err error)

	// LatestReviewAt returns the most recent review creation timestamp.
	LatestReviewAt(ctx context.Context) (latest time.Time, found bool, err error)

	// DelayedOrderCandidates returns non-canceled orders purchased at or
	// after since that have a delivered timestamp, most recent purchase
	// first. The delay-margin filter is applied by the caller.
	DelayedOrderCandidates(ctx context.Context, since time.Time) ([]readmodel.DelayedOrder, error)

	// SellerRevenueTotals returns sellers whose summed (price + freight)
	// over delivered orders exceeds threshold, descending by total,
	// ascending seller id on equal totals.
	SellerRevenueTotals(ctx context.Context, threshold float64) ([]readmodel.SellerRevenue, error)

	// PostalReviewScores groups reviews created after since by the
	// owning customer's postal prefix and returns at most limit groups
	// with more than minCount reviews and a mean score of at most
	// maxAvgScore, ascending by mean score.
	PostalReviewScores(ctx context.Context, since time.Time, minCount int, maxAvgScore float64, limit int) ([]readmodel.PostalAreaScore, error)

	// CustomerRFMBase returns, for every customer with at least one
	// delivered order, the latest delivered purchase timestamp, the
	// delivered-order count and the item-price sum (freight excluded).
	CustomerRFMBase(ctx context.Context) ([]readmodel.RFMBase, error)

	// CustomerIDs lists the customer ids present in customer_segments.
	CustomerIDs(ctx context.Context) ([]string, error)

	// Segment returns one customer's stored segmentation result.
	// found is false for an unknown customer id.
	Segment(ctx context.Context, customerID string) (seg *readmodel.SegmentationResult, found bool, err error)

	// Segments returns all stored segmentation results.
	Segments(ctx context.Context) ([]readmodel.SegmentationResult, error)
}
