package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	errs "github.com/Schera-ole/tracking-metrics/internal/errors"
	models "github.com/Schera-ole/tracking-metrics/internal/model"
	"github.com/Schera-ole/tracking-metrics/internal/repository"
	"github.com/Schera-ole/tracking-metrics/internal/service"
	"github.com/Schera-ole/tracking-metrics/internal/units"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.MetricsService) {
	t.Helper()
	storage := repository.NewMemStorage()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	t.Cleanup(func() { logger.Sync() })
	metricService := service.NewMetricsService(storage)

	ts := httptest.NewServer(Router(logger.Sugar(), metricService, nil))
	t.Cleanup(ts.Close)
	return ts, metricService
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestCreateMetricHandler(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		statusCode int
		errorCode  string
	}{
		{
			name:       "valid distance metric",
			body:       `{"user_id":1,"metric_type":"distance","value":100.5,"unit":"meter","date_recorded":"2024-01-15"}`,
			statusCode: http.StatusCreated,
		},
		{
			name:       "valid temperature metric",
			body:       `{"user_id":1,"metric_type":"temperature","value":36.6,"unit":"°C","date_recorded":"2024-01-15"}`,
			statusCode: http.StatusCreated,
		},
		{
			name:       "invalid unit",
			body:       `{"user_id":1,"metric_type":"distance","value":100.5,"unit":"invalid_unit","date_recorded":"2024-01-15"}`,
			statusCode: http.StatusBadRequest,
			errorCode:  errs.CodeInvalidUnit,
		},
		{
			name:       "cross-type unit",
			body:       `{"user_id":1,"metric_type":"distance","value":100.5,"unit":"°C","date_recorded":"2024-01-15"}`,
			statusCode: http.StatusBadRequest,
			errorCode:  errs.CodeInvalidUnit,
		},
		{
			name:       "unknown metric type",
			body:       `{"user_id":1,"metric_type":"weight","value":80,"unit":"meter","date_recorded":"2024-01-15"}`,
			statusCode: http.StatusBadRequest,
			errorCode:  errs.CodeInvalidMetricType,
		},
		{
			name:       "bad date",
			body:       `{"user_id":1,"metric_type":"distance","value":100.5,"unit":"meter","date_recorded":"15.01.2024"}`,
			statusCode: http.StatusBadRequest,
			errorCode:  errs.CodeInvalidDate,
		},
		{
			name:       "not json",
			body:       `not json`,
			statusCode: http.StatusBadRequest,
			errorCode:  errs.CodeInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/metrics", tt.body)
			assert.Equal(t, tt.statusCode, resp.StatusCode)

			if tt.errorCode != "" {
				var errResp models.ErrorResponse
				decodeJSON(t, resp, &errResp)
				assert.Equal(t, tt.errorCode, errResp.ErrorCode)
				assert.NotEmpty(t, errResp.CorrelationID)
			} else {
				resp.Body.Close()
			}
		})
	}
}

func TestCreateMetricHandler_ResponseShape(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/metrics",
		`{"user_id":1,"metric_type":"distance","value":100.5,"unit":"meter","date_recorded":"2024-01-15"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeJSON(t, resp, &body)

	assert.Equal(t, 100.5, body["value"])
	assert.Equal(t, "meter", body["unit"])
	assert.Equal(t, "distance", body["metric_type"])
	assert.Equal(t, "2024-01-15", body["date_recorded"])
	assert.Contains(t, body, "created_date")
	assert.Contains(t, body, "updated_date")
	// The user relation never leaves the service layer.
	assert.NotContains(t, body, "user")
}

func TestCreateMetricHandler_InvalidUnitDetails(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/metrics",
		`{"user_id":1,"metric_type":"distance","value":1,"unit":"invalid_unit","date_recorded":"2024-01-15"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp struct {
		ErrorCode string                    `json:"errorCode"`
		Details   models.InvalidUnitDetails `json:"details"`
	}
	decodeJSON(t, resp, &errResp)

	assert.Equal(t, errs.CodeInvalidUnit, errResp.ErrorCode)
	assert.Equal(t, "invalid_unit", errResp.Details.ProvidedUnit)
	assert.Equal(t, "distance", errResp.Details.MetricType)
	assert.Equal(t, []string{"meter", "centimeter", "inch", "feet", "yard", "mile"}, errResp.Details.ValidUnits)

	// The rejected submission left no row behind.
	list, err := http.Get(ts.URL + "/metrics?userId=1&metricType=distance")
	require.NoError(t, err)
	var listResp models.MetricListResponse
	decodeJSON(t, list, &listResp)
	assert.Zero(t, listResp.Total)
}

func TestGetMetricsHandler(t *testing.T) {
	ts, _ := newTestServer(t)

	for day := 1; day <= 12; day++ {
		body := fmt.Sprintf(`{"user_id":7,"metric_type":"distance","value":%d,"unit":"meter","date_recorded":"2024-01-%02d"}`, day, day)
		resp := postJSON(t, ts.URL+"/metrics", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/metrics?userId=7&metricType=distance&page=2&limit=5")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listResp models.MetricListResponse
	decodeJSON(t, resp, &listResp)

	assert.Equal(t, 12, listResp.Total)
	assert.Equal(t, 2, listResp.Page)
	assert.Equal(t, 5, listResp.Limit)
	assert.Equal(t, 3, listResp.TotalPages)
	require.Len(t, listResp.Data, 5)
	assert.Equal(t, "2024-01-07", listResp.Data[0].DateRecorded)
}

func TestGetMetricsHandler_BadParams(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "missing user", query: "metricType=distance"},
		{name: "bad metric type", query: "userId=1&metricType=speed"},
		{name: "bad page", query: "userId=1&metricType=distance&page=zero"},
		{name: "negative limit", query: "userId=1&metricType=distance&limit=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/metrics?" + tt.query)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetChartDataHandler_Conversion(t *testing.T) {
	ts, _ := newTestServer(t)
	date := time.Now().UTC().AddDate(0, 0, -1).Format(models.DateLayout)

	resp := postJSON(t, ts.URL+"/metrics",
		fmt.Sprintf(`{"user_id":1,"metric_type":"distance","value":1.5,"unit":"meter","date_recorded":"%s"}`, date))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/metrics/chart-data?userId=1&metricType=distance&timePeriod=1&targetUnit=centimeter")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chart models.ChartDataResponse
	decodeJSON(t, resp, &chart)

	assert.Equal(t, "distance", chart.MetricType)
	assert.Equal(t, 1, chart.TimePeriod)
	assert.Equal(t, "centimeter", chart.TargetUnit)
	assert.Equal(t, 1, chart.TotalPoints)
	require.Len(t, chart.Data, 1)

	point := chart.Data[0]
	assert.Equal(t, date, point.Date)
	assert.Equal(t, 150.0, point.Value)
	assert.Equal(t, "meter", point.OriginalUnit)
	assert.Equal(t, "centimeter", point.ConvertedUnit)
	require.NotNil(t, point.OriginalValue)
	assert.Equal(t, 1.5, *point.OriginalValue)
}

func TestGetChartDataHandler_Empty(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics/chart-data?userId=99&metricType=temperature&timePeriod=2")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chart models.ChartDataResponse
	decodeJSON(t, resp, &chart)

	assert.NotNil(t, chart.Data)
	assert.Empty(t, chart.Data)
	assert.Zero(t, chart.TotalPoints)
}

func TestGetChartDataHandler_BadParams(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "time period out of range", query: "userId=1&metricType=distance&timePeriod=3"},
		{name: "time period missing", query: "userId=1&metricType=distance"},
		{name: "bad metric type", query: "userId=1&metricType=speed&timePeriod=1"},
		{name: "bad user", query: "userId=abc&metricType=distance&timePeriod=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/metrics/chart-data?" + tt.query)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetChartDataHandler_InvalidTargetUnit(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics/chart-data?userId=1&metricType=temperature&timePeriod=1&targetUnit=meter")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, errs.CodeInvalidUnit, errResp.ErrorCode)
}

func TestUserHandlers(t *testing.T) {
	ts, _ := newTestServer(t)

	// Create.
	resp := postJSON(t, ts.URL+"/users", `{"name":"alice"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user models.User
	decodeJSON(t, resp, &user)
	assert.Equal(t, "alice", user.Name)

	// Duplicate name.
	resp = postJSON(t, ts.URL+"/users", `{"name":"alice"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Empty name.
	resp = postJSON(t, ts.URL+"/users", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// List.
	resp, err := http.Get(ts.URL + "/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	decodeJSON(t, resp, &users)
	require.Len(t, users, 1)

	// Delete.
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/users/%d", ts.URL, user.ID), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deleting again is a 404.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUserHandler_CascadesToMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users", `{"name":"bob"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user models.User
	decodeJSON(t, resp, &user)

	resp = postJSON(t, ts.URL+"/metrics",
		fmt.Sprintf(`{"user_id":%d,"metric_type":"distance","value":1.5,"unit":"meter","date_recorded":"2024-01-15"}`, user.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/users/%d", ts.URL, user.ID), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("%s/metrics?userId=%d&metricType=distance", ts.URL, user.ID))
	require.NoError(t, err)
	var listResp models.MetricListResponse
	decodeJSON(t, resp, &listResp)
	assert.Zero(t, listResp.Total)
}

func TestPingStorageHandler(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_CorrelationHeader(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-Id"))
}

func TestIsKnownMetricType(t *testing.T) {
	assert.True(t, isKnownMetricType(units.Distance))
	assert.True(t, isKnownMetricType(units.Temperature))
	assert.False(t, isKnownMetricType("weight"))
}
