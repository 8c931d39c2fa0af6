package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/customer-analytics/internal/infrastructure/store/mocks"
	"github.com/example/customer-analytics/internal/query"
	"github.com/example/customer-analytics/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() (*Builder, *mocks.MockRecordStore) {
	recordStore := mocks.NewMockRecordStore()
	metrics := query.NewHandler(recordStore, query.DefaultParams())
	return NewBuilder(metrics), recordStore
}

func TestBuild_EmptyStore(t *testing.T) {
	builder, _ := newTestBuilder()

	r := builder.Build(context.Background(), time.Now())

	assert.NotEmpty(t, r.RunID)
	assert.Nil(t, r.Errors)
	assert.Empty(t, r.DelayedOrders)
	assert.Empty(t, r.TopSellers)
	assert.Empty(t, r.WorstPostalAreas)
	assert.Empty(t, r.RFM)
	assert.Equal(t, KPISummary{}, r.KPIs)
}

func TestBuild_KPICounts(t *testing.T) {
	builder, recordStore := newTestBuilder()
	now := time.Date(2018, 8, 29, 0, 0, 0, 0, time.UTC)

	recordStore.Revenues = []readmodel.SellerRevenue{
		{SellerID: "s1", TotalRevenue: 150000},
		{SellerID: "s2", TotalRevenue: 110000},
	}
	recordStore.RFMBases = []readmodel.RFMBase{
		{CustomerID: "c1", LastPurchase: now.AddDate(0, 0, -3), Frequency: 2, Monetary: 40},
	}

	r := builder.Build(context.Background(), now)

	assert.Equal(t, 2, r.KPIs.HighRevenueSellers)
	assert.Equal(t, 1, r.KPIs.RFMCustomers)
	assert.Equal(t, 0, r.KPIs.DelayedOrders)
}

func TestBuild_SectionFailureDoesNotAbortOthers(t *testing.T) {
	builder, recordStore := newTestBuilder()
	now := time.Date(2018, 8, 29, 0, 0, 0, 0, time.UTC)

	recordStore.Errs["SellerRevenueTotals"] = errors.New("store unreachable")
	recordStore.RFMBases = []readmodel.RFMBase{
		{CustomerID: "c1", LastPurchase: now.AddDate(0, 0, -5), Frequency: 3, Monetary: 60},
	}

	r := builder.Build(context.Background(), now)

	require.Contains(t, r.Errors, SectionTopSellers)
	assert.Empty(t, r.TopSellers)
	// The independent RFM section still renders.
	require.Len(t, r.RFM, 1)
	assert.Equal(t, 5, r.RFM[0].Recency)
	assert.Equal(t, 1, r.KPIs.RFMCustomers)
}

func TestBuild_RunIDsAreUnique(t *testing.T) {
	builder, _ := newTestBuilder()

	r1 := builder.Build(context.Background(), time.Now())
	r2 := builder.Build(context.Background(), time.Now())

	assert.NotEqual(t, r1.RunID, r2.RunID)
}
