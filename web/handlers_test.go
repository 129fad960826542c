package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/sheets-cache/types"
)

// MockCache implements api.RecordCache for testing
type MockCache struct {
	RecordsFunc func(ctx context.Context) []types.Record
	RefreshFunc func(ctx context.Context) ([]types.Record, error)
	StatusFunc  func() types.Status
}

func (m *MockCache) Records(ctx context.Context) []types.Record {
	if m.RecordsFunc != nil {
		return m.RecordsFunc(ctx)
	}
	return []types.Record{}
}

func (m *MockCache) Refresh(ctx context.Context) ([]types.Record, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return []types.Record{}, nil
}

func (m *MockCache) Status() types.Status {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return types.Status{}
}

func init() {
	gin.SetMode(gin.TestMode)
}

func clients(n int) []types.Record {
	out := make([]types.Record, n)
	for i := range out {
		out[i] = types.Record{"CLIENTE": fmt.Sprintf("Cliente %d", i+1), "BANCO": "BCP"}
	}
	return out
}

type recordsResponse struct {
	Query      string         `json:"query"`
	Records    []types.Record `json:"records"`
	Count      int            `json:"count"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

func getRecords(t *testing.T, s *Server, target string) recordsResponse {
	t.Helper()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp recordsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleRecordsPaging(t *testing.T) {
	mock := &MockCache{RecordsFunc: func(context.Context) []types.Record { return clients(45) }}
	s := NewServer(mock, Options{})

	tests := []struct {
		name      string
		target    string
		wantPage  int
		wantCount int
		wantFirst string
	}{
		{"default page", "/api/records", 1, 20, "Cliente 1"},
		{"second page", "/api/records?page=2", 2, 20, "Cliente 21"},
		{"last page", "/api/records?page=3", 3, 5, "Cliente 41"},
		{"past the end", "/api/records?page=9", 9, 0, ""},
		{"huge page", "/api/records?page=" + strconv.Itoa(math.MaxInt), math.MaxInt, 0, ""},
		{"invalid page", "/api/records?page=abc", 1, 20, "Cliente 1"},
		{"negative page", "/api/records?page=-2", 1, 20, "Cliente 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getRecords(t, s, tt.target)

			assert.Equal(t, tt.wantPage, resp.Page)
			assert.Equal(t, tt.wantCount, resp.Count)
			assert.Equal(t, 45, resp.Total)
			assert.Equal(t, 3, resp.TotalPages)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, resp.Records[0]["CLIENTE"])
			} else {
				assert.Empty(t, resp.Records)
			}
		})
	}
}

func TestHandleRecordsSearch(t *testing.T) {
	records := []types.Record{
		{"CLIENTE": "Ana Pérez", "CORREO": "ana@x.com"},
		{"CLIENTE": "Luis", "CORREO": "luis@ANA.pe"},
		{"CLIENTE": "Rosa", "CORREO": "rosa@x.com"},
	}
	mock := &MockCache{RecordsFunc: func(context.Context) []types.Record { return records }}
	s := NewServer(mock, Options{PageSize: 10})

	resp := getRecords(t, s, "/api/records?q=ANA")

	assert.Equal(t, "ana", resp.Query)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "Ana Pérez", resp.Records[0]["CLIENTE"])
	assert.Equal(t, "Luis", resp.Records[1]["CLIENTE"])
}

func TestHandleRecordsQueryParam(t *testing.T) {
	records := []types.Record{
		{"CLIENTE": "Ana Pérez"},
		{"CLIENTE": "Luis"},
	}
	mock := &MockCache{RecordsFunc: func(context.Context) []types.Record { return records }}
	s := NewServer(mock, Options{})

	resp := getRecords(t, s, "/api/records?query=%20LUIS%20")
	assert.Equal(t, "luis", resp.Query)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Luis", resp.Records[0]["CLIENTE"])

	// query wins over q when both are given.
	resp = getRecords(t, s, "/api/records?query=ana&q=luis")
	assert.Equal(t, "ana", resp.Query)
	assert.Equal(t, 1, resp.Total)
}

func TestHandleRecordsUnavailableSource(t *testing.T) {
	s := NewServer(&MockCache{}, Options{})

	resp := getRecords(t, s, "/api/records")

	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Empty(t, resp.Records)
}

func TestHandleRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := &MockCache{RefreshFunc: func(context.Context) ([]types.Record, error) { return clients(3), nil }}
		s := NewServer(mock, Options{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"records":3}`, w.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		mock := &MockCache{RefreshFunc: func(context.Context) ([]types.Record, error) {
			return []types.Record{}, types.NewRefreshError("open worksheet", types.ErrRemoteLookup, errors.New("no tab"))
		}}
		s := NewServer(mock, Options{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "remote_lookup", body["kind"])
		assert.Contains(t, body["error"], "no tab")
	})
}

func TestHandleStatus(t *testing.T) {
	mock := &MockCache{StatusFunc: func() types.Status {
		return types.Status{HasEntry: true, Fresh: true, Records: 7, FetchedAt: time.Now().Add(-2 * time.Minute)}
	}}
	s := NewServer(mock, Options{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status  types.Status `json:"status"`
		Fetched string       `json:"fetched"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Status.Records)
	assert.Equal(t, "2 minutes ago", body.Fetched)
}

func TestHandleStatusNeverFetched(t *testing.T) {
	s := NewServer(&MockCache{}, Options{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Contains(t, w.Body.String(), `"fetched":"never"`)
}

func TestRequestID(t *testing.T) {
	s := NewServer(&MockCache{}, Options{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheetcache_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	s := NewServer(&MockCache{}, Options{Gatherer: reg})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sheetcache_test_total 1")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	s := NewServer(&MockCache{}, Options{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaginate(t *testing.T) {
	items, pages := paginate(nil, 1, 20)
	assert.Empty(t, items)
	assert.Equal(t, 1, pages)

	items, pages = paginate(clients(20), 1, 20)
	assert.Len(t, items, 20)
	assert.Equal(t, 1, pages)

	items, pages = paginate(clients(21), 2, 20)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, pages)

	items, pages = paginate(clients(3), math.MaxInt, 20)
	assert.Empty(t, items)
	assert.Equal(t, 1, pages)

	items, pages = paginate(clients(3), 0, 20)
	assert.Empty(t, items)
	assert.Equal(t, 1, pages)
}
