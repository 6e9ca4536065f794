// Package service provides the business logic layer for the tracking system.
package service

import (
	"context"
	"time"

	errs "github.com/Schera-ole/tracking-metrics/internal/errors"
	models "github.com/Schera-ole/tracking-metrics/internal/model"
	"github.com/Schera-ole/tracking-metrics/internal/repository"
	"github.com/Schera-ole/tracking-metrics/internal/units"
)

// MetricsService orchestrates unit validation, storage access and
// display-time unit conversion. It is the only component that rejects a
// request; storage errors pass through unchanged.
type MetricsService struct {
	// repository is the underlying data storage implementation
	repository repository.Repository
}

// NewMetricsService creates a new MetricsService with the specified repository.
func NewMetricsService(repo repository.Repository) *MetricsService {

	return &MetricsService{repository: repo}
}

// CreateMetric validates the unit against the metric type's registry and
// upserts the measurement under its natural key. A resubmission for the same
// (user, type, date) overwrites the earlier value and unit.
func (ms *MetricsService) CreateMetric(ctx context.Context, userID int64, metricType string, value float64, unit string, dateRecorded time.Time) (models.MetricResponse, error) {
	if !units.IsValid(metricType, unit) {
		return models.MetricResponse{}, &errs.InvalidUnitError{
			ProvidedUnit: unit,
			MetricType:   metricType,
			ValidUnits:   units.ValidUnits(metricType),
		}
	}

	metric, err := ms.repository.UpsertMetric(ctx, userID, metricType, value, unit, dateRecorded)
	if err != nil {
		return models.MetricResponse{}, err
	}
	return metricToResponse(metric), nil
}

// GetMetricsByType returns one page of the user's metrics for the type.
// The metric type alone filters the result; no unit validation happens here.
func (ms *MetricsService) GetMetricsByType(ctx context.Context, userID int64, metricType string, page, limit int) (models.MetricListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	metrics, total, err := ms.repository.ListMetricsByType(ctx, userID, metricType, page, limit)
	if err != nil {
		return models.MetricListResponse{}, err
	}

	data := make([]models.MetricResponse, 0, len(metrics))
	for _, metric := range metrics {
		data = append(data, metricToResponse(metric))
	}

	return models.MetricListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// GetChartData returns the latest value per calendar date over the last
// timePeriod months, converted to targetUnit where it differs from the
// stored unit. An empty targetUnit skips validation and conversion entirely;
// this mirrors the write path's stricter behavior on purpose.
func (ms *MetricsService) GetChartData(ctx context.Context, userID int64, metricType string, timePeriod int, targetUnit string) (models.ChartDataResponse, error) {
	if targetUnit != "" && !units.IsValid(metricType, targetUnit) {
		return models.ChartDataResponse{}, &errs.InvalidUnitError{
			ProvidedUnit: targetUnit,
			MetricType:   metricType,
			ValidUnits:   units.ValidUnits(metricType),
		}
	}

	rows, err := ms.repository.ChartRange(ctx, userID, metricType, timePeriod)
	if err != nil {
		return models.ChartDataResponse{}, err
	}

	data := make([]models.ChartPoint, 0, len(rows))
	for _, row := range rows {
		point := models.ChartPoint{
			Date:         row.Date.Format(models.DateLayout),
			Value:        row.Value,
			OriginalUnit: row.Unit,
		}
		// No conversion fields when the stored unit already matches.
		if targetUnit != "" && targetUnit != row.Unit {
			originalValue := row.Value
			point.Value = units.Convert(row.Value, row.Unit, targetUnit, metricType)
			point.OriginalValue = &originalValue
			point.ConvertedUnit = targetUnit
		}
		data = append(data, point)
	}

	return models.ChartDataResponse{
		Data:        data,
		MetricType:  metricType,
		TimePeriod:  timePeriod,
		TargetUnit:  targetUnit,
		TotalPoints: len(data),
	}, nil
}

// CreateUser creates a user with a unique display name, delegating to the repository implementation.
func (ms *MetricsService) CreateUser(ctx context.Context, name string) (models.User, error) {

	return ms.repository.CreateUser(ctx, name)
}

// ListUsers retrieves all active users, delegating to the repository implementation.
func (ms *MetricsService) ListUsers(ctx context.Context) ([]models.User, error) {

	return ms.repository.ListUsers(ctx)
}

// DeleteUser soft-deletes a user and its metrics, delegating to the repository implementation.
func (ms *MetricsService) DeleteUser(ctx context.Context, id int64) error {

	return ms.repository.DeleteUser(ctx, id)
}

// Ping checks the repository connection, delegating to the repository implementation.
func (ms *MetricsService) Ping(ctx context.Context) error {

	return ms.repository.Ping(ctx)
}

// metricToResponse projects a stored record onto its API shape. The fields
// are enumerated on purpose: nothing beyond the scalars and the four date
// fields leaves this layer.
func metricToResponse(metric models.Metric) models.MetricResponse {
	return models.MetricResponse{
		ID:           metric.ID,
		UserID:       metric.UserID,
		MetricType:   metric.MetricType,
		Value:        metric.Value,
		Unit:         metric.Unit,
		DateRecorded: metric.DateRecorded.Format(models.DateLayout),
		CreatedDate:  metric.CreatedDate,
		UpdatedDate:  metric.UpdatedDate,
		DeletedDate:  metric.DeletedDate,
	}
}
