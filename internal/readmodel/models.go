package readmodel

import "time"

// DelayedOrder is a non-canceled order whose delivery missed the
// estimated date by more than the configured margin.
type DelayedOrder struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	Status      string    `json:"order_status"`
	PurchasedAt time.Time `json:"order_purchase_timestamp"`
	DeliveredAt time.Time `json:"order_delivered_customer_date"`
	EstimatedAt time.Time `json:"order_estimated_delivery_date"`
}

// SellerRevenue is a seller's total revenue (item price + freight)
// across delivered orders.
type SellerRevenue struct {
	SellerID     string  `json:"seller_id"`
	TotalRevenue float64 `json:"total_revenue"`
}

// PostalAreaScore aggregates review scores for one postal-code prefix.
type PostalAreaScore struct {
	PostalPrefix   string  `json:"customer_zip_code_prefix"`
	AvgReviewScore float64 `json:"avg_review_score"`
	ReviewCount    int     `json:"review_count"`
}

// RFMBase is the per-customer aggregate scanned from the record store
// before recency is derived from a reference time.
type RFMBase struct {
	CustomerID   string
	LastPurchase time.Time
	Frequency    int
	Monetary     float64
}

// RFM is a customer's Recency/Frequency/Monetary record. Recency is
// whole days since the most recent delivered-order purchase, frequency
// the count of delivered orders, monetary the sum of item prices
// (freight excluded) across delivered orders.
type RFM struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

// SegmentationResult is a customer's stored segmentation record,
// produced by an external clustering process and read-only here.
type SegmentationResult struct {
	CustomerID   string  `json:"customer_id"`
	Cluster      int     `json:"cluster"`
	Type         string  `json:"type"`
	Recency      int     `json:"recency"`
	Frequency    int     `json:"frequency"`
	Monetary     float64 `json:"monetary"`
	Satisfaction float64 `json:"satisfaction"`
}
