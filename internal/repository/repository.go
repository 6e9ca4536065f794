// Package repository implements the persistence layer of the tracking
// system: a PostgreSQL-backed storage and an in-memory storage sharing one
// interface. Soft-deleted rows stay in storage but are excluded from every
// read path.
package repository

import (
	"context"
	"time"

	models "github.com/Schera-ole/tracking-metrics/internal/model"
)

// Repository is the storage contract consumed by the service layer.
type Repository interface {
	// UpsertMetric writes a measurement under its natural key
	// (user, metric type, date recorded). An active record for the key is
	// overwritten in place; otherwise a new record is created. The
	// lookup-then-write is atomic with respect to concurrent submissions
	// for the same key.
	UpsertMetric(ctx context.Context, userID int64, metricType string, value float64, unit string, dateRecorded time.Time) (models.Metric, error)

	// ListMetricsByType returns one page of the user's active records for
	// the type, ordered by date_recorded descending then created_date
	// descending, together with the total matching count.
	ListMetricsByType(ctx context.Context, userID int64, metricType string, page, limit int) ([]models.Metric, int, error)

	// ChartRange returns, for each calendar date within the last `months`
	// months, the active row with the latest created_date, ordered by date
	// ascending.
	ChartRange(ctx context.Context, userID int64, metricType string, months int) ([]models.ChartRow, error)

	CreateUser(ctx context.Context, name string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// DeleteUser soft-deletes the user and cascades the soft delete to all
	// of the user's active metrics in one atomic step.
	DeleteUser(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
}

// truncateToDate drops the time component, keeping the calendar date in UTC.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// chartWindow is the inclusive [today - months, today] range of a chart query.
func chartWindow(months int) (time.Time, time.Time) {
	end := truncateToDate(time.Now())
	start := end.AddDate(0, -months, 0)
	return start, end
}
