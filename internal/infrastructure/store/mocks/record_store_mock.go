package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/example/customer-analytics/internal/readmodel"
)

// MockRecordStore is an in-memory RecordStore for testing. Fixture data
// is assigned directly to the exported fields; per-method failures are
// injected through Errs keyed by method name.
type MockRecordStore struct {
	mu sync.RWMutex

	LatestPurchase    time.Time
	HasPurchases      bool
	LatestReview      time.Time
	HasReviews        bool
	DelayedCandidates []readmodel.DelayedOrder
	Revenues          []readmodel.SellerRevenue
	PostalScores      []readmodel.PostalAreaScore
	RFMBases          []readmodel.RFMBase
	SegmentData       []readmodel.SegmentationResult

	// Errs maps a method name (e.g. "CustomerRFMBase") to the error it
	// should return.
	Errs map[string]error

	// Calls records method invocations in order.
	Calls []string
}

// NewMockRecordStore creates an empty MockRecordStore.
func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{
		Errs:  make(map[string]error),
		Calls: make([]string, 0),
	}
}

func (m *MockRecordStore) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, method)
	return m.Errs[method]
}

func (m *MockRecordStore) LatestPurchaseAt(ctx context.Context) (time.Time, bool, error) {
	if err := m.record("LatestPurchaseAt"); err != nil {
		return time.Time{}, false, err
	}
	return m.LatestPurchase, m.HasPurchases, nil
}

func (m *MockRecordStore) LatestReviewAt(ctx context.Context) (time.Time, bool, error) {
	if err := m.record("LatestReviewAt"); err != nil {
		return time.Time{}, false, err
	}
	return m.LatestReview, m.HasReviews, nil
}

func (m *MockRecordStore) DelayedOrderCandidates(ctx context.Context, since time.Time) ([]readmodel.DelayedOrder, error) {
	if err := m.record("DelayedOrderCandidates"); err != nil {
		return nil, err
	}
	out := []readmodel.DelayedOrder{}
	for _, o := range m.DelayedCandidates {
		if !o.PurchasedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockRecordStore) SellerRevenueTotals(ctx context.Context, threshold float64) ([]readmodel.SellerRevenue, error) {
	if err := m.record("SellerRevenueTotals"); err != nil {
		return nil, err
	}
	out := []readmodel.SellerRevenue{}
	for _, s := range m.Revenues {
		if s.TotalRevenue > threshold {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockRecordStore) PostalReviewScores(ctx context.Context, since time.Time, minCount int, maxAvgScore float64, limit int) ([]readmodel.PostalAreaScore, error) {
	if err := m.record("PostalReviewScores"); err != nil {
		return nil, err
	}
	out := []readmodel.PostalAreaScore{}
	for _, a := range m.PostalScores {
		if a.ReviewCount > minCount && a.AvgReviewScore <= maxAvgScore && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockRecordStore) CustomerRFMBase(ctx context.Context) ([]readmodel.RFMBase, error) {
	if err := m.record("CustomerRFMBase"); err != nil {
		return nil, err
	}
	return append([]readmodel.RFMBase{}, m.RFMBases...), nil
}

func (m *MockRecordStore) CustomerIDs(ctx context.Context) ([]string, error) {
	if err := m.record("CustomerIDs"); err != nil {
		return nil, err
	}
	ids := []string{}
	for _, s := range m.SegmentData {
		ids = append(ids, s.CustomerID)
	}
	return ids, nil
}

func (m *MockRecordStore) Segment(ctx context.Context, customerID string) (*readmodel.SegmentationResult, bool, error) {
	if err := m.record("Segment"); err != nil {
		return nil, false, err
	}
	for _, s := range m.SegmentData {
		if s.CustomerID == customerID {
			seg := s
			return &seg, true, nil
		}
	}
	return nil, false, nil
}

func (m *MockRecordStore) Segments(ctx context.Context) ([]readmodel.SegmentationResult, error) {
	if err := m.record("Segments"); err != nil {
		return nil, err
	}
	return append([]readmodel.SegmentationResult{}, m.SegmentData...), nil
}
