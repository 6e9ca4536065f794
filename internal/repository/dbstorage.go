package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	errs "github.com/Schera-ole/tracking-metrics/internal/errors"
	models "github.com/Schera-ole/tracking-metrics/internal/model"
)

type DBStorage struct {
	db *sql.DB
}

func NewDBStorage(dsn string) (*DBStorage, error) {
	dbConnect, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &DBStorage{db: dbConnect}, nil
}

func (storage *DBStorage) Close() error {
	return storage.db.Close()
}

const metricColumns = "id, user_id, metric_type, value, unit, date_recorded, created_date, updated_date, deleted_date"

func scanMetric(row *sql.Row) (models.Metric, error) {
	var metric models.Metric
	var deleted sql.NullTime
	err := row.Scan(
		&metric.ID,
		&metric.UserID,
		&metric.MetricType,
		&metric.Value,
		&metric.Unit,
		&metric.DateRecorded,
		&metric.CreatedDate,
		&metric.UpdatedDate,
		&deleted,
	)
	if err != nil {
		return models.Metric{}, err
	}
	if deleted.Valid {
		metric.DeletedDate = &deleted.Time
	}
	return metric, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// UpsertMetric overwrites the active record for (user, type, date) or
// inserts a new one. A concurrent submission for the same key can win the
// insert race; the partial unique index rejects the loser, which retries
// once and lands on the winner's row as an update.
func (storage *DBStorage) UpsertMetric(ctx context.Context, userID int64, metricType string, value float64, unit string, dateRecorded time.Time) (models.Metric, error) {
	metric, err := storage.upsertMetricTx(ctx, userID, metricType, value, unit, truncateToDate(dateRecorded))
	if err != nil && isUniqueViolation(err) {
		metric, err = storage.upsertMetricTx(ctx, userID, metricType, value, unit, truncateToDate(dateRecorded))
	}
	return metric, err
}

func (storage *DBStorage) upsertMetricTx(ctx context.Context, userID int64, metricType string, value float64, unit string, dateRecorded time.Time) (models.Metric, error) {
	tx, err := storage.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Metric{}, fmt.Errorf("can't start transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	query := `SELECT id FROM metrics
		WHERE user_id = $1 AND metric_type = $2 AND date_recorded = $3 AND deleted_date IS NULL
		FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, userID, metricType, dateRecorded).Scan(&id)

	var metric models.Metric
	switch {
	case errors.Is(err, sql.ErrNoRows):
		insert := `INSERT INTO metrics (user_id, metric_type, value, unit, date_recorded, created_date, updated_date)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING ` + metricColumns
		metric, err = scanMetric(tx.QueryRowContext(ctx, insert, userID, metricType, value, unit, dateRecorded))
	case err != nil:
		return models.Metric{}, fmt.Errorf("error checking if metric exists: %w", err)
	default:
		update := `UPDATE metrics SET value = $1, unit = $2, updated_date = NOW()
			WHERE id = $3
			RETURNING ` + metricColumns
		metric, err = scanMetric(tx.QueryRowContext(ctx, update, value, unit, id))
	}
	if err != nil {
		return models.Metric{}, fmt.Errorf("error saving metric: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.Metric{}, fmt.Errorf("error committing metric: %w", err)
	}
	return metric, nil
}

func (storage *DBStorage) ListMetricsByType(ctx context.Context, userID int64, metricType string, page, limit int) ([]models.Metric, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM metrics
		WHERE user_id = $1 AND metric_type = $2 AND deleted_date IS NULL`
	err := storage.db.QueryRowContext(ctx, countQuery, userID, metricType).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting metrics: %w", err)
	}

	query := `SELECT ` + metricColumns + ` FROM metrics
		WHERE user_id = $1 AND metric_type = $2 AND deleted_date IS NULL
		ORDER BY date_recorded DESC, created_date DESC
		OFFSET $3 LIMIT $4`
	rows, err := storage.db.QueryContext(ctx, query, userID, metricType, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.Metric
	for rows.Next() {
		var metric models.Metric
		var deleted sql.NullTime
		err = rows.Scan(
			&metric.ID,
			&metric.UserID,
			&metric.MetricType,
			&metric.Value,
			&metric.Unit,
			&metric.DateRecorded,
			&metric.CreatedDate,
			&metric.UpdatedDate,
			&deleted,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning metric: %w", err)
		}
		if deleted.Valid {
			metric.DeletedDate = &deleted.Time
		}
		metrics = append(metrics, metric)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating over metrics: %w", err)
	}

	return metrics, total, nil
}

// ChartRange selects the latest write per calendar date via a correlated
// subquery, tolerating historical duplicates that predate the natural-key
// unique index.
func (storage *DBStorage) ChartRange(ctx context.Context, userID int64, metricType string, months int) ([]models.ChartRow, error) {
	start, end := chartWindow(months)

	query := `SELECT m.date_recorded, m.value, m.unit, m.created_date
		FROM metrics m
		WHERE m.user_id = $1
		  AND m.metric_type = $2
		  AND m.date_recorded BETWEEN $3 AND $4
		  AND m.deleted_date IS NULL
		  AND m.created_date = (
			SELECT MAX(m2.created_date)
			FROM metrics m2
			WHERE m2.user_id = m.user_id
			  AND m2.metric_type = m.metric_type
			  AND m2.date_recorded = m.date_recorded
			  AND m2.deleted_date IS NULL
		  )
		ORDER BY m.date_recorded ASC`
	rows, err := storage.db.QueryContext(ctx, query, userID, metricType, start, end)
	if err != nil {
		return nil, fmt.Errorf("error retrieving chart data: %w", err)
	}
	defer rows.Close()

	var result []models.ChartRow
	for rows.Next() {
		var row models.ChartRow
		err = rows.Scan(&row.Date, &row.Value, &row.Unit, &row.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("error scanning chart row: %w", err)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over chart rows: %w", err)
	}

	return result, nil
}

func (storage *DBStorage) CreateUser(ctx context.Context, name string) (models.User, error) {
	var user models.User
	var deleted sql.NullTime
	query := `INSERT INTO users (name, created_date, updated_date)
		VALUES ($1, NOW(), NOW())
		RETURNING id, name, created_date, updated_date, deleted_date`
	err := storage.db.QueryRowContext(ctx, query, name).Scan(
		&user.ID, &user.Name, &user.CreatedDate, &user.UpdatedDate, &deleted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, errs.ErrUserAlreadyExists
		}
		return models.User{}, fmt.Errorf("error creating user: %w", err)
	}
	if deleted.Valid {
		user.DeletedDate = &deleted.Time
	}
	return user, nil
}

func (storage *DBStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, created_date, updated_date, deleted_date FROM users
		WHERE deleted_date IS NULL
		ORDER BY id`
	rows, err := storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var deleted sql.NullTime
		err = rows.Scan(&user.ID, &user.Name, &user.CreatedDate, &user.UpdatedDate, &deleted)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		if deleted.Valid {
			user.DeletedDate = &deleted.Time
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over users: %w", err)
	}

	return users, nil
}

// DeleteUser soft-deletes the user and its metrics in one transaction.
func (storage *DBStorage) DeleteUser(ctx context.Context, id int64) error {
	tx, err := storage.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET deleted_date = NOW(), updated_date = NOW()
		 WHERE id = $1 AND deleted_date IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if affected == 0 {
		return errs.ErrUserNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE metrics SET deleted_date = NOW(), updated_date = NOW()
		 WHERE user_id = $1 AND deleted_date IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error deleting user metrics: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing user delete: %w", err)
	}
	return nil
}

func (storage *DBStorage) Ping(ctx context.Context) error {
	err := storage.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
