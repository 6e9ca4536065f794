package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	errs "github.com/Schera-ole/tracking-metrics/internal/errors"
	models "github.com/Schera-ole/tracking-metrics/internal/model"
)

// MemStorage keeps all records in memory. It backs the server when no
// database DSN is configured and serves as the storage in tests. The mutex
// makes lookup-then-write atomic, which is what the database backend gets
// from its transaction plus the unique index.
type MemStorage struct {
	mu           sync.Mutex
	metrics      []models.Metric
	users        []models.User
	nextMetricID int64
	nextUserID   int64
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		nextMetricID: 1,
		nextUserID:   1,
	}
}

func (ms *MemStorage) UpsertMetric(ctx context.Context, userID int64, metricType string, value float64, unit string, dateRecorded time.Time) (models.Metric, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	date := truncateToDate(dateRecorded)
	now := time.Now().UTC()

	for i := range ms.metrics {
		metric := &ms.metrics[i]
		if metric.DeletedDate != nil {
			continue
		}
		if metric.UserID == userID && metric.MetricType == metricType && metric.DateRecorded.Equal(date) {
			metric.Value = value
			metric.Unit = unit
			metric.UpdatedDate = now
			return *metric, nil
		}
	}

	metric := models.Metric{
		ID:           ms.nextMetricID,
		UserID:       userID,
		MetricType:   metricType,
		Value:        value,
		Unit:         unit,
		DateRecorded: date,
		CreatedDate:  now,
		UpdatedDate:  now,
	}
	ms.nextMetricID++
	ms.metrics = append(ms.metrics, metric)
	return metric, nil
}

func (ms *MemStorage) ListMetricsByType(ctx context.Context, userID int64, metricType string, page, limit int) ([]models.Metric, int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var matched []models.Metric
	for _, metric := range ms.metrics {
		if metric.DeletedDate != nil {
			continue
		}
		if metric.UserID == userID && metric.MetricType == metricType {
			matched = append(matched, metric)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].DateRecorded.Equal(matched[j].DateRecorded) {
			return matched[i].DateRecorded.After(matched[j].DateRecorded)
		}
		return matched[i].CreatedDate.After(matched[j].CreatedDate)
	})

	total := len(matched)
	offset := (page - 1) * limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (ms *MemStorage) ChartRange(ctx context.Context, userID int64, metricType string, months int) ([]models.ChartRow, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	start, end := chartWindow(months)

	// Latest write wins per calendar date. Insertion order breaks
	// created_date ties, matching how the upsert would have overwritten.
	latest := make(map[time.Time]models.ChartRow)
	for _, metric := range ms.metrics {
		if metric.DeletedDate != nil {
			continue
		}
		if metric.UserID != userID || metric.MetricType != metricType {
			continue
		}
		if metric.DateRecorded.Before(start) || metric.DateRecorded.After(end) {
			continue
		}
		row := models.ChartRow{
			Date:        metric.DateRecorded,
			Value:       metric.Value,
			Unit:        metric.Unit,
			CreatedDate: metric.CreatedDate,
		}
		best, exists := latest[metric.DateRecorded]
		if !exists || !row.CreatedDate.Before(best.CreatedDate) {
			latest[metric.DateRecorded] = row
		}
	}

	result := make([]models.ChartRow, 0, len(latest))
	for _, row := range latest {
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (ms *MemStorage) CreateUser(ctx context.Context, name string) (models.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, user := range ms.users {
		if user.DeletedDate == nil && user.Name == name {
			return models.User{}, errs.ErrUserAlreadyExists
		}
	}

	now := time.Now().UTC()
	user := models.User{
		ID:          ms.nextUserID,
		Name:        name,
		CreatedDate: now,
		UpdatedDate: now,
	}
	ms.nextUserID++
	ms.users = append(ms.users, user)
	return user, nil
}

func (ms *MemStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var users []models.User
	for _, user := range ms.users {
		if user.DeletedDate == nil {
			users = append(users, user)
		}
	}
	return users, nil
}

func (ms *MemStorage) DeleteUser(ctx context.Context, id int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now().UTC()
	found := false
	for i := range ms.users {
		user := &ms.users[i]
		if user.ID == id && user.DeletedDate == nil {
			user.DeletedDate = &now
			user.UpdatedDate = now
			found = true
			break
		}
	}
	if !found {
		return errs.ErrUserNotFound
	}

	for i := range ms.metrics {
		metric := &ms.metrics[i]
		if metric.UserID == id && metric.DeletedDate == nil {
			metric.DeletedDate = &now
			metric.UpdatedDate = now
		}
	}
	return nil
}

func (ms *MemStorage) Ping(ctx context.Context) error {
	return nil
}
