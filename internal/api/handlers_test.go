package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/customer-analytics/internal/infrastructure/store/mocks"
	"github.com/example/customer-analytics/internal/query"
	"github.com/example/customer-analytics/internal/ranking"
	"github.com/example/customer-analytics/internal/readmodel"
	"github.com/example/customer-analytics/internal/segmentation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() (http.Handler, *mocks.MockRecordStore) {
	recordStore := mocks.NewMockRecordStore()
	metrics := query.NewHandler(recordStore, query.DefaultParams())
	handlers := NewHandlers(recordStore, metrics, segmentation.ClusterRule{}, ranking.NewRanker(ranking.DefaultWeights), 10)
	handlers.now = func() time.Time { return time.Date(2018, 8, 29, 0, 0, 0, 0, time.UTC) }
	return NewRouter(handlers), recordStore
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer()

	rec := doGet(t, router, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetClients(t *testing.T) {
	router, recordStore := newTestServer()
	recordStore.SegmentData = []readmodel.SegmentationResult{
		{CustomerID: "cust-1"},
		{CustomerID: "cust-2"},
	}

	rec := doGet(t, router, "/clients")

	assert.Equal(t, http.StatusOK, rec.Code)
	var clients []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clients))
	require.Len(t, clients, 2)
	assert.Equal(t, "cust-1", clients[0]["customer_id"])
}

func TestGetClients_Empty(t *testing.T) {
	router, _ := newTestServer()

	rec := doGet(t, router, "/clients")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetClient_Found(t *testing.T) {
	router, recordStore := newTestServer()
	recordStore.SegmentData = []readmodel.SegmentationResult{
		{CustomerID: "cust-1", Cluster: 1, Type: "dormant", Recency: 210, Frequency: 1, Monetary: 89.9, Satisfaction: 3},
	}

	rec := doGet(t, router, "/client/cust-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body segmentation.ScoredSegment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cust-1", body.CustomerID)
	assert.Equal(t, 1, body.Cluster)
	assert.Equal(t, 80, body.DormantProbability)
}

func TestGetClient_NotFound(t *testing.T) {
	router, _ := newTestServer()

	rec := doGet(t, router, "/client/nobody")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetClient_StoreError(t *testing.T) {
	router, recordStore := newTestServer()
	recordStore.Errs["Segment"] = errors.New("store unreachable")

	rec := doGet(t, router, "/client/cust-1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetTopClients_RankedBestFirst(t *testing.T) {
	router, recordStore := newTestServer()
	recordStore.SegmentData = []readmodel.SegmentationResult{
		{CustomerID: "low", Cluster: 1, Recency: 300, Frequency: 1, Monetary: 50},
		{CustomerID: "high", Cluster: 0, Recency: 5, Frequency: 10, Monetary: 5000},
	}

	rec := doGet(t, router, "/top-clients?n=1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []segmentation.ScoredSegment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "high", body[0].CustomerID)
	assert.Equal(t, 20, body[0].DormantProbability)
}

func TestGetWorstClients_RankedWorstFirst(t *testing.T) {
	router, recordStore := newTestServer()
	recordStore.SegmentData = []readmodel.SegmentationResult{
		{CustomerID: "low", Cluster: 1, Recency: 300, Frequency: 1, Monetary: 50},
		{CustomerID: "high", Cluster: 0, Recency: 5, Frequency: 10, Monetary: 5000},
	}

	rec := doGet(t, router, "/worst-clients?n=1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []segmentation.ScoredSegment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "low", body[0].CustomerID)
	assert.Equal(t, 80, body[0].DormantProbability)
}

func TestGetTopClients_InvalidN(t *testing.T) {
	router, _ := newTestServer()

	assert.Equal(t, http.StatusBadRequest, doGet(t, router, "/top-clients?n=abc").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, router, "/top-clients?n=0").Code)
}

func TestGetRFM(t *testing.T) {
	router, recordStore := newTestServer()
	now := time.Date(2018, 8, 29, 0, 0, 0, 0, time.UTC)
	recordStore.RFMBases = []readmodel.RFMBase{
		{CustomerID: "cust-c", LastPurchase: now.AddDate(0, 0, -5), Frequency: 3, Monetary: 60},
	}

	rec := doGet(t, router, "/metrics/rfm")

	assert.Equal(t, http.StatusOK, rec.Code)
	var records []readmodel.RFM
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, readmodel.RFM{CustomerID: "cust-c", Recency: 5, Frequency: 3, Monetary: 60}, records[0])
}

func TestGetDelayedOrders_EmptyStore(t *testing.T) {
	router, _ := newTestServer()

	rec := doGet(t, router, "/metrics/delayed-orders")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetMetricsSummary_PartialFailure(t *testing.T) {
	router, recordStore := newTestServer()
	now := time.Date(2018, 8, 29, 0, 0, 0, 0, time.UTC)
	recordStore.Errs["SellerRevenueTotals"] = errors.New("store unreachable")
	recordStore.RFMBases = []readmodel.RFMBase{
		{CustomerID: "c1", LastPurchase: now.AddDate(0, 0, -1), Frequency: 1, Monetary: 10},
	}

	rec := doGet(t, router, "/metrics/summary")

	// Partial failure still renders the healthy sections.
	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		RFMCustomers *int              `json:"rfm_customers"`
		TopSellers   *int              `json:"high_revenue_sellers"`
		Errors       map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.RFMCustomers)
	assert.Equal(t, 1, *body.RFMCustomers)
	assert.Nil(t, body.TopSellers)
	assert.Contains(t, body.Errors, "high_revenue_sellers")
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/clients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
