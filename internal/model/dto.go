package models

import "time"

// CreateMetricRequest is the POST /metrics payload.
type CreateMetricRequest struct {
	UserID       int64   `json:"user_id"`
	MetricType   string  `json:"metric_type"`
	Value        float64 `json:"value"`
	Unit         string  `json:"unit"`
	DateRecorded string  `json:"date_recorded"`
}

// MetricResponse is the explicit projection of a Metric exposed by the API:
// the scalar fields plus the four date fields, never the user relation.
type MetricResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	MetricType   string     `json:"metric_type"`
	Value        float64    `json:"value"`
	Unit         string     `json:"unit"`
	DateRecorded string     `json:"date_recorded"`
	CreatedDate  time.Time  `json:"created_date"`
	UpdatedDate  time.Time  `json:"updated_date"`
	DeletedDate  *time.Time `json:"deleted_date"`
}

// MetricListResponse is the paginated GET /metrics response.
type MetricListResponse struct {
	Data       []MetricResponse `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// ChartPoint is one calendar date's latest value. The conversion fields are
// present only when a target unit was requested and differs from the stored
// unit; an identical target unit adds nothing.
type ChartPoint struct {
	Date          string   `json:"date"`
	Value         float64  `json:"value"`
	OriginalUnit  string   `json:"originalUnit"`
	ConvertedUnit string   `json:"convertedUnit,omitempty"`
	OriginalValue *float64 `json:"originalValue,omitempty"`
}

// ChartDataResponse is the GET /metrics/chart-data response.
type ChartDataResponse struct {
	Data        []ChartPoint `json:"data"`
	MetricType  string       `json:"metricType"`
	TimePeriod  int          `json:"timePeriod"`
	TargetUnit  string       `json:"targetUnit,omitempty"`
	TotalPoints int          `json:"totalPoints"`
}

// CreateUserRequest is the POST /users payload.
type CreateUserRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the body returned for failed requests.
type ErrorResponse struct {
	StatusCode    int    `json:"statusCode"`
	ErrorCode     string `json:"errorCode"`
	Message       string `json:"message"`
	Details       any    `json:"details,omitempty"`
	Timestamp     string `json:"timestamp"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// InvalidUnitDetails is the details payload of an invalid-unit error.
type InvalidUnitDetails struct {
	ProvidedUnit string   `json:"providedUnit"`
	ValidUnits   []string `json:"validUnits"`
	MetricType   string   `json:"metricType"`
}

// AuditEvent represents an audit log entry for metric submissions.
type AuditEvent struct {
	// TS is the timestamp of the event in ISO 8601 format
	TS string `json:"ts"`

	// UserID is the owner of the submitted metric
	UserID int64 `json:"user_id"`

	// MetricType is the type of the submitted metric
	MetricType string `json:"metric_type"`

	// DateRecorded is the calendar date the submission pertains to
	DateRecorded string `json:"date_recorded"`

	// IPAddress is the address of the client that made the submission
	IPAddress string `json:"ip_address"`
}
