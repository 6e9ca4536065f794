package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Schera-ole/tracking-metrics/internal/audit"
	errs "github.com/Schera-ole/tracking-metrics/internal/errors"
	middlewareinternal "github.com/Schera-ole/tracking-metrics/internal/middleware"
	models "github.com/Schera-ole/tracking-metrics/internal/model"
	"github.com/Schera-ole/tracking-metrics/internal/service"
	"github.com/Schera-ole/tracking-metrics/internal/units"
)

func Router(
	logger *zap.SugaredLogger,
	metricService *service.MetricsService,
	auditLogger audit.AuditLogger,
) chi.Router {
	router := chi.NewRouter()
	router.Use(middlewareinternal.CorrelationMiddleware)
	router.Use(middlewareinternal.LoggingMiddleware(logger))
	router.Use(middlewareinternal.GzipMiddleware)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(15 * time.Second))
	router.Post("/metrics", func(w http.ResponseWriter, r *http.Request) {
		CreateMetricHandler(w, r, metricService, logger, auditLogger)
	})
	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		GetMetricsHandler(w, r, metricService, logger)
	})
	router.Get("/metrics/chart-data", func(w http.ResponseWriter, r *http.Request) {
		GetChartDataHandler(w, r, metricService, logger)
	})
	router.Post("/users", func(w http.ResponseWriter, r *http.Request) {
		CreateUserHandler(w, r, metricService, logger)
	})
	router.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		ListUsersHandler(w, r, metricService, logger)
	})
	router.Delete("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		DeleteUserHandler(w, r, metricService, logger)
	})
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		PingStorageHandler(w, r, metricService, logger)
	})
	return router
}

func CreateMetricHandler(
	w http.ResponseWriter,
	r *http.Request,
	metricService *service.MetricsService,
	logger *zap.SugaredLogger,
	auditLogger audit.AuditLogger,
) {
	var request models.CreateMetricRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidValue, "Invalid JSON format: "+err.Error(), nil)
		return
	}
	if !isKnownMetricType(request.MetricType) {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidMetricType, "Invalid metric type provided", nil)
		return
	}
	dateRecorded, err := time.Parse(models.DateLayout, request.DateRecorded)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidDate, "Invalid date format, expected YYYY-MM-DD", nil)
		return
	}

	response, err := metricService.CreateMetric(r.Context(), request.UserID, request.MetricType, request.Value, request.Unit, dateRecorded)
	if err != nil {
		WriteServiceError(w, r, err, logger)
		return
	}

	if auditLogger != nil {
		auditLogger.Log(request.UserID, request.MetricType, request.DateRecorded, r.RemoteAddr)
	}
	WriteJSON(w, http.StatusCreated, response)
}

func GetMetricsHandler(
	w http.ResponseWriter,
	r *http.Request,
	metricService *service.MetricsService,
	logger *zap.SugaredLogger,
) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidValue, "userId should be an integer", nil)
		return
	}
	metricType := r.URL.Query().Get("metricType")
	if !isKnownMetricType(metricType) {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidMetricType, "Invalid metric type provided", nil)
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidValue, "page should be a positive integer", nil)
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidValue, "limit should be a positive integer", nil)
		return
	}

	response, err := metricService.GetMetricsByType(r.Context(), userID, metricType, page, limit)
	if err != nil {
		WriteServiceError(w, r, err, logger)
		return
	}
	WriteJSON(w, http.StatusOK, response)
}

func GetChartDataHandler(
	w http.ResponseWriter,
	r *http.Request,
	metricService *service.MetricsService,
	logger *zap.SugaredLogger,
) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidValue, "userId should be an integer", nil)
		return
	}
	metricType := r.URL.Query().Get("metricType")
	if !isKnownMetricType(metricType) {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidMetricType, "Invalid metric type provided", nil)
		return
	}
	timePeriod, err := strconv.Atoi(r.URL.Query().Get("timePeriod"))
	if err != nil || (timePeriod != 1 && timePeriod != 2) {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidValue, "timePeriod should be 1 or 2", nil)
		return
	}
	targetUnit := r.URL.Query().Get("targetUnit")

	response, err := metricService.GetChartData(r.Context(), userID, metricType, timePeriod, targetUnit)
	if err != nil {
		WriteServiceError(w, r, err, logger)
		return
	}
	WriteJSON(w, http.StatusOK, response)
}

func CreateUserHandler(
	w http.ResponseWriter,
	r *http.Request,
	metricService *service.MetricsService,
	logger *zap.SugaredLogger,
) {
	var request models.CreateUserRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidUserName, "Invalid JSON format: "+err.Error(), nil)
		return
	}
	if request.Name == "" || len(request.Name) > 60 {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidUserName, "name is required and must be at most 60 characters", nil)
		return
	}

	user, err := metricService.CreateUser(r.Context(), request.Name)
	if err != nil {
		WriteServiceError(w, r, err, logger)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

func ListUsersHandler(
	w http.ResponseWriter,
	r *http.Request,
	metricService *service.MetricsService,
	logger *zap.SugaredLogger,
) {
	users, err := metricService.ListUsers(r.Context())
	if err != nil {
		WriteServiceError(w, r, err, logger)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	WriteJSON(w, http.StatusOK, users)
}

func DeleteUserHandler(
	w http.ResponseWriter,
	r *http.Request,
	metricService *service.MetricsService,
	logger *zap.SugaredLogger,
) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, errs.CodeInvalidUserName, "user id should be an integer", nil)
		return
	}

	err = metricService.DeleteUser(r.Context(), id)
	if err != nil {
		WriteServiceError(w, r, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func PingStorageHandler(
	w http.ResponseWriter,
	r *http.Request,
	metricService *service.MetricsService,
	logger *zap.SugaredLogger,
) {
	err := metricService.Ping(r.Context())
	if err != nil {
		logger.Errorf("storage ping failed: %v", err)
		WriteError(w, r, http.StatusInternalServerError, errs.CodeDatabaseConnection, "Failed to connect to storage", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func isKnownMetricType(metricType string) bool {
	return metricType == units.Distance || metricType == units.Temperature
}
