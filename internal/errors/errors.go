// Package errors defines the domain errors of the tracking system and the
// error codes surfaced in API error bodies.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes follow the [DOMAIN][ERROR_TYPE][SPECIFIC_CODE] scheme, e.g.
// METVL002 = Metrics Validation error 002.
const (
	CodeInvalidMetricType = "METVL001"
	CodeInvalidUnit       = "METVL002"
	CodeInvalidValue      = "METVL003"
	CodeInvalidDate       = "METVL004"

	CodeUserNotFound      = "USRNF001"
	CodeUserAlreadyExists = "USRBL001"
	CodeInvalidUserName   = "USRVL001"

	CodeInternalServerError = "SYSGE001"
	CodeDatabaseConnection  = "SYSGE004"
)

var (
	// Common errors
	ErrMetricNotFound = errors.New("metric not found")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InvalidUnitError reports a unit that is not registered for the given
// metric type. It carries the full valid-unit list so the boundary layer
// can include it in the response details.
type InvalidUnitError struct {
	ProvidedUnit string
	MetricType   string
	ValidUnits   []string
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("invalid unit '%s' for metric type '%s'. Valid units: %s",
		e.ProvidedUnit, e.MetricType, strings.Join(e.ValidUnits, ", "))
}
