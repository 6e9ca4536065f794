// Package audit provides audit logging for metric submissions.
//
// It implements a publish-subscribe pattern: every accepted submission is
// published as an event and distributed to the configured destinations,
// a file and/or an HTTP endpoint.
package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	models "github.com/Schera-ole/tracking-metrics/internal/model"
)

// AuditLogger is an interface for logging audit events.
type AuditLogger interface {
	// Log records a metric submission for the given user, type and date.
	Log(userID int64, metricType, dateRecorded, ipAddress string)
}

// auditLogger is a concrete implementation of AuditLogger that sends events to a channel.
type auditLogger struct {
	eventChan chan models.AuditEvent
	logger    *zap.SugaredLogger
}

// NewAuditLogger creates a new AuditLogger that sends events to the provided channel.
func NewAuditLogger(eventChan chan models.AuditEvent, logger *zap.SugaredLogger) AuditLogger {
	return &auditLogger{
		eventChan: eventChan,
		logger:    logger,
	}
}

// Log sends an audit event describing one metric submission. A full channel
// drops the event rather than blocking the request.
func (a *auditLogger) Log(userID int64, metricType, dateRecorded, ipAddress string) {
	event := models.AuditEvent{
		TS:           time.Now().Format(time.RFC3339),
		UserID:       userID,
		MetricType:   metricType,
		DateRecorded: dateRecorded,
		IPAddress:    ipAddress,
	}

	select {
	case a.eventChan <- event:
		// Event sent successfully
	default:
		a.logger.Info("audit channel is full, dropped event")
	}
}

// Broadcaster distributes audit events to multiple subscriber channels.
//
// It receives events from a source channel and sends them to all provided
// subscriber channels, dropping events for blocked subscribers to prevent
// goroutine leaks.
func Broadcaster(source <-chan models.AuditEvent, logger *zap.SugaredLogger, subs ...chan<- models.AuditEvent) {
	for evt := range source {
		for _, subChan := range subs {
			select {
			case subChan <- evt:
				// Event sent successfully
			default:
				logger.Info("dropped audit event for blocked subscriber channel")
			}
		}
	}
	for _, subChan := range subs {
		close(subChan)
	}
}

// FileSubscriber appends audit events to a file, one JSON object per line.
func FileSubscriber(events <-chan models.AuditEvent, fname string, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorf("FileSubscriber: error marshalling event: %v", err)
			continue
		}
		f, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logger.Errorf("FileSubscriber: can't open file %s: %v", fname, err)
			continue
		}
		_, err = f.WriteString(string(data) + "\n")
		if err != nil {
			logger.Errorf("FileSubscriber: error writing to file: %v", err)
		}
		f.Close()
	}
}

// URLSubscriber posts audit events to an HTTP endpoint.
func URLSubscriber(events <-chan models.AuditEvent, url string, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorf("URLSubscriber: error marshalling event: %v", err)
			continue
		}
		resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
		if err != nil {
			logger.Errorf("URLSubscriber: error posting event to %s: %v", url, err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
