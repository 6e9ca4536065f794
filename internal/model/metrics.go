// Package models defines the data structures used throughout the tracking system.
package models

import "time"

// DateLayout is the wire format for calendar dates (date_recorded and chart
// point dates carry no time component).
const DateLayout = "2006-01-02"

// Metric represents one stored measurement for a user.
type Metric struct {
	// ID is the surrogate primary key
	ID int64

	// UserID is the owning user
	UserID int64

	// MetricType is either "distance" or "temperature"
	MetricType string

	// Value is the measured value, stored with 4 fractional digits
	Value float64

	// Unit is the unit the value was submitted in
	Unit string

	// DateRecorded is the calendar date the measurement pertains to
	DateRecorded time.Time

	CreatedDate time.Time
	UpdatedDate time.Time

	// DeletedDate is nil while the record is active
	DeletedDate *time.Time
}

// User owns zero or more metrics. Deleting a user soft-deletes its metrics.
type User struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	CreatedDate time.Time  `json:"created_date"`
	UpdatedDate time.Time  `json:"updated_date"`
	DeletedDate *time.Time `json:"deleted_date"`
}

// ChartRow is one row of the chart-range query before response shaping: the
// latest surviving value for one calendar date.
type ChartRow struct {
	Date        time.Time
	Value       float64
	Unit        string
	CreatedDate time.Time
}
