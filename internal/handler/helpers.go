package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	errs "github.com/Schera-ole/tracking-metrics/internal/errors"
	middlewareinternal "github.com/Schera-ole/tracking-metrics/internal/middleware"
	models "github.com/Schera-ole/tracking-metrics/internal/model"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteError writes the structured error body used by every failing request.
func WriteError(w http.ResponseWriter, r *http.Request, status int, errorCode, message string, details any) {
	response := models.ErrorResponse{
		StatusCode:    status,
		ErrorCode:     errorCode,
		Message:       message,
		Details:       details,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CorrelationID: middlewareinternal.CorrelationID(r.Context()),
	}
	WriteJSON(w, status, response)
}

// WriteServiceError maps domain errors from the service layer to HTTP status
// codes. Anything unrecognized is a storage or programming fault and
// surfaces as a 500 without leaking its message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.SugaredLogger) {
	var invalidUnit *errs.InvalidUnitError
	switch {
	case errors.As(err, &invalidUnit):
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidUnit, invalidUnit.Error(), models.InvalidUnitDetails{
			ProvidedUnit: invalidUnit.ProvidedUnit,
			ValidUnits:   invalidUnit.ValidUnits,
			MetricType:   invalidUnit.MetricType,
		})
	case errors.Is(err, errs.ErrUserNotFound):
		WriteError(w, r, http.StatusNotFound, errs.CodeUserNotFound, "User not found", nil)
	case errors.Is(err, errs.ErrUserAlreadyExists):
		WriteError(w, r, http.StatusConflict, errs.CodeUserAlreadyExists, "User already exists", nil)
	default:
		logger.Errorf("unhandled service error: %v", err)
		WriteError(w, r, http.StatusInternalServerError, errs.CodeInternalServerError, "An internal server error occurred", nil)
	}
}

// queryInt parses an optional positive integer query parameter.
func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, errors.New(name + " should be a positive integer")
	}
	return value, nil
}
