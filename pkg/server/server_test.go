package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
	"github.com/halilanisa/ecommerce-insights/pkg/pipeline"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pipe, err := pipeline.New(zap.NewNop())
	require.NoError(t, err)

	delivered := time.Date(2018, 1, 10, 0, 0, 0, 0, time.UTC)
	estimated := time.Date(2018, 1, 12, 0, 0, 0, 0, time.UTC)
	ds := &model.Dataset{
		Orders: []model.Order{
			{OrderID: "o1", CustomerID: "c1", Status: model.StatusDelivered,
				PurchasedAt: time.Date(2018, 1, 5, 0, 0, 0, 0, time.UTC),
				DeliveredAt: &delivered, EstimatedAt: &estimated},
		},
		Items: []model.OrderItem{
			{OrderID: "o1", ItemSeq: 1, ProductID: "p1", Price: 50},
		},
		Products: []model.Product{
			{ProductID: "p1", Category: "esporte_lazer"},
		},
		Customers: []model.Customer{
			{CustomerID: "c1", CustomerUniqueID: "u1", ZipPrefix: "01001", City: "sao paulo", State: "SP"},
		},
	}

	s, err := NewServer(pipe, ds, zap.NewNop())
	require.NoError(t, err)
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := get(testServer(t), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["orders"])
}

func TestOverviewEndpoint(t *testing.T) {
	w := get(testServer(t), "/api/overview")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Totals model.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Totals.Orders)
	assert.InDelta(t, 50.0, body.Totals.Revenue, 1e-9)
}

func TestSummaryEndpointWithDateRange(t *testing.T) {
	w := get(testServer(t), "/api/summary?start=2018-01-01&end=2018-01-31")
	require.Equal(t, http.StatusOK, w.Code)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Delivery.OnTime)
	assert.Len(t, res.ReviewScores, 5)
}

func TestSummaryEndpointWithStateFilter(t *testing.T) {
	w := get(testServer(t), "/api/summary?state=MG")
	require.Equal(t, http.StatusOK, w.Code)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Zero(t, res.Totals.Orders)
}

func TestSummaryRejectsCombinedFilters(t *testing.T) {
	w := get(testServer(t), "/api/summary?start=2018-01-01&end=2018-01-31&state=SP")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryRejectsHalfDateRange(t *testing.T) {
	w := get(testServer(t), "/api/summary?start=2018-01-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryRejectsBadDate(t *testing.T) {
	w := get(testServer(t), "/api/summary?start=01/05/2018&end=2018-01-31")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryRejectsReversedRange(t *testing.T) {
	w := get(testServer(t), "/api/summary?start=2018-02-01&end=2018-01-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
