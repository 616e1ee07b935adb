// Package audit provides structured logging for security-relevant events:
// login attempts, rejected tokens, rate-limit triggers, and orphaned
// application writes. Events carry masked subjects so raw PII never lands
// in log storage.
package audit

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginSuccess       EventType = "login_success"
	EventRegistered         EventType = "applicant_registered"
	EventTokenRejected      EventType = "token_rejected"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventOrphanWrite        EventType = "orphan_write"
	EventOrphanRepaired     EventType = "orphan_repaired"
)

// Event is a single security-relevant occurrence to be logged.
type Event struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip", "applicant_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // masked for PII
	IP           string                 `json:"ip,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Logger writes security events through Zap.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *Logger

// Init initializes the audit logger with Zap.
func Init(serviceName string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	l := &Logger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: getEnvironment(),
	}

	defaultLogger = l
	return l
}

// Default returns the default audit logger, initializing a basic one if
// Init was never called.
func Default() *Logger {
	if defaultLogger == nil {
		return Init("internship-backend")
	}
	return defaultLogger
}

// Log records a security event.
func (l *Logger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment

	level := zapcore.WarnLevel
	switch event.Event {
	case EventLoginSuccess, EventRegistered, EventOrphanRepaired:
		level = zapcore.InfoLevel
	case EventOrphanWrite:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

// LogLoginFailed logs a failed login attempt.
func (l *Logger) LogLoginFailed(ctx context.Context, email, ip, requestID string) {
	l.Log(ctx, Event{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		RequestID:    requestID,
	})
}

// LogLoginSuccess logs a successful login.
func (l *Logger) LogLoginSuccess(ctx context.Context, applicantID, ip, requestID string) {
	l.Log(ctx, Event{
		Event:        EventLoginSuccess,
		SubjectType:  "applicant_id",
		SubjectValue: applicantID,
		IP:           ip,
		RequestID:    requestID,
	})
}

// LogOrphanWrite logs that an application row was created but the owner's
// reference-list append failed. The write itself is durable; the reference
// list is repaired by the reconciler.
func (l *Logger) LogOrphanWrite(ctx context.Context, applicantID, applicationID string, cause error) {
	l.Log(ctx, Event{
		Event:        EventOrphanWrite,
		SubjectType:  "applicant_id",
		SubjectValue: applicantID,
		Details: map[string]interface{}{
			"application_id": applicationID,
			"cause":          cause.Error(),
		},
	})
}

// LogTokenRejected logs a session token that failed verification.
func (l *Logger) LogTokenRejected(ctx context.Context, ip, requestID string, cause error) {
	l.Log(ctx, Event{
		Event:        EventTokenRejected,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"cause": cause.Error()},
	})
}

// LogRateLimitTriggered logs when rate limiting rejects a request.
func (l *Logger) LogRateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	l.Log(ctx, Event{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

func getEnvironment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
