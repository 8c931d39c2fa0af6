package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/example/customer-analytics/internal/readmodel"
)

// SQLRecordStore implements RecordStore over database/sql. The SQL is
// kept free of dialect-specific date functions so the same statements
// run against both supported drivers; time windows arrive as query
// parameters computed by the caller.
type SQLRecordStore struct {
	db *sql.DB
}

// NewSQLRecordStore creates a record store backed by an open database
// handle.
func NewSQLRecordStore(db *sql.DB) *SQLRecordStore {
	return &SQLRecordStore{db: db}
}

// Connect opens and pings the record store. Supported drivers are
// "postgres" and "sqlite".
func Connect(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func (rs *SQLRecordStore) LatestPurchaseAt(ctx context.Context) (time.Time, bool, error) {
	var latest sql.NullTime
	err := rs.db.QueryRowContext(ctx, `
		SELECT MAX(order_purchase_timestamp) FROM orders
	`).Scan(&latest)
	if err != nil {
		return time.Time{}, false, accessErr("latest purchase", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return latest.Time, true, nil
}

func (rs *SQLRecordStore) LatestReviewAt(ctx context.Context) (time.Time, bool, error) {
	var latest sql.NullTime
	err := rs.db.QueryRowContext(ctx, `
		SELECT MAX(review_creation_date) FROM order_reviews
	`).Scan(&latest)
	if err != nil {
		return time.Time{}, false, accessErr("latest review", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return latest.Time, true, nil
}

func (rs *SQLRecordStore) DelayedOrderCandidates(ctx context.Context, since time.Time) ([]readmodel.DelayedOrder, error) {
	rows, err := rs.db.QueryContext(ctx, `
		SELECT order_id, customer_id, order_status, order_purchase_timestamp,
		       order_delivered_customer_date, order_estimated_delivery_date
		FROM orders
		WHERE order_status != 'canceled'
		  AND order_purchase_timestamp >= $1
		  AND order_delivered_customer_date IS NOT NULL
		ORDER BY order_purchase_timestamp DESC
	`, since)
	if err != nil {
		return nil, accessErr("delayed order candidates", err)
	}
	defer rows.Close()

	orders := []readmodel.DelayedOrder{}
	for rows.Next() {
		var o readmodel.DelayedOrder
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.Status, &o.PurchasedAt, &o.DeliveredAt, &o.EstimatedAt); err != nil {
			return nil, accessErr("delayed order candidates", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("delayed order candidates", err)
	}
	return orders, nil
}

func (rs *SQLRecordStore) SellerRevenueTotals(ctx context.Context, threshold float64) ([]readmodel.SellerRevenue, error) {
	rows, err := rs.db.QueryContext(ctx, `
		SELECT s.seller_id, SUM(oi.price + oi.freight_value) AS total_revenue
		FROM order_items oi
		JOIN sellers s ON s.seller_id = oi.seller_id
		JOIN orders o ON o.order_id = oi.order_id
		WHERE o.order_status = 'delivered'
		GROUP BY s.seller_id
		HAVING SUM(oi.price + oi.freight_value) > $1
		ORDER BY total_revenue DESC, s.seller_id ASC
	`, threshold)
	if err != nil {
		return nil, accessErr("seller revenue totals", err)
	}
	defer rows.Close()

	sellers := []readmodel.SellerRevenue{}
	for rows.Next() {
		var sr readmodel.SellerRevenue
		if err := rows.Scan(&sr.SellerID, &sr.TotalRevenue); err != nil {
			return nil, accessErr("seller revenue totals", err)
		}
		sellers = append(sellers, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("seller revenue totals", err)
	}
	return sellers, nil
}

func (rs *SQLRecordStore) PostalReviewScores(ctx context.Context, since time.Time, minCount int, maxAvgScore float64, limit int) ([]readmodel.PostalAreaScore, error) {
	rows, err := rs.db.QueryContext(ctx, `
		SELECT c.customer_zip_code_prefix,
		       AVG(r.review_score) AS avg_review_score,
		       COUNT(r.review_id) AS review_count
		FROM order_reviews r
		JOIN orders o ON o.order_id = r.order_id
		JOIN customers c ON c.customer_id = o.customer_id
		WHERE r.review_creation_date > $1
		GROUP BY c.customer_zip_code_prefix
		HAVING COUNT(r.review_id) > $2 AND AVG(r.review_score) <= $3
		ORDER BY avg_review_score ASC
		LIMIT $4
	`, since, minCount, maxAvgScore, limit)
	if err != nil {
		return nil, accessErr("postal review scores", err)
	}
	defer rows.Close()

	areas := []readmodel.PostalAreaScore{}
	for rows.Next() {
		var a readmodel.PostalAreaScore
		if err := rows.Scan(&a.PostalPrefix, &a.AvgReviewScore, &a.ReviewCount); err != nil {
			return nil, accessErr("postal review scores", err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("postal review scores", err)
	}
	return areas, nil
}

func (rs *SQLRecordStore) CustomerRFMBase(ctx context.Context) ([]readmodel.RFMBase, error) {
	// COUNT(DISTINCT ...) keeps frequency at the order grain despite the
	// item join; monetary deliberately excludes freight_value.
	rows, err := rs.db.QueryContext(ctx, `
		SELECT o.customer_id,
		       MAX(o.order_purchase_timestamp) AS last_purchase,
		       COUNT(DISTINCT o.order_id) AS frequency,
		       SUM(oi.price) AS monetary
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.order_id
		WHERE o.order_status = 'delivered'
		GROUP BY o.customer_id
	`)
	if err != nil {
		return nil, accessErr("customer rfm", err)
	}
	defer rows.Close()

	bases := []readmodel.RFMBase{}
	for rows.Next() {
		var b readmodel.RFMBase
		if err := rows.Scan(&b.CustomerID, &b.LastPurchase, &b.Frequency, &b.Monetary); err != nil {
			return nil, accessErr("customer rfm", err)
		}
		bases = append(bases, b)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("customer rfm", err)
	}
	return bases, nil
}

func (rs *SQLRecordStore) CustomerIDs(ctx context.Context) ([]string, error) {
	rows, err := rs.db.QueryContext(ctx, `
		SELECT customer_id FROM customer_segments ORDER BY customer_id
	`)
	if err != nil {
		return nil, accessErr("customer ids", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, accessErr("customer ids", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("customer ids", err)
	}
	return ids, nil
}

func (rs *SQLRecordStore) Segment(ctx context.Context, customerID string) (*readmodel.SegmentationResult, bool, error) {
	var seg readmodel.SegmentationResult
	err := rs.db.QueryRowContext(ctx, `
		SELECT customer_id, cluster, segment_type, recency, frequency, monetary, satisfaction
		FROM customer_segments WHERE customer_id = $1
	`, customerID).Scan(&seg.CustomerID, &seg.Cluster, &seg.Type, &seg.Recency, &seg.Frequency, &seg.Monetary, &seg.Satisfaction)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, accessErr("segment", err)
	}
	return &seg, true, nil
}

func (rs *SQLRecordStore) Segments(ctx context.Context) ([]readmodel.SegmentationResult, error) {
	rows, err := rs.db.QueryContext(ctx, `
		SELECT customer_id, cluster, segment_type, recency, frequency, monetary, satisfaction
		FROM customer_segments ORDER BY customer_id
	`)
	if err != nil {
		return nil, accessErr("segments", err)
	}
	defer rows.Close()

	segs := []readmodel.SegmentationResult{}
	for rows.Next() {
		var seg readmodel.SegmentationResult
		if err := rows.Scan(&seg.CustomerID, &seg.Cluster, &seg.Type, &seg.Recency, &seg.Frequency, &seg.Monetary, &seg.Satisfaction); err != nil {
			return nil, accessErr("segments", err)
		}
		segs = append(segs, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("segments", err)
	}
	return segs, nil
}
