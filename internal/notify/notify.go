// internal/notify/notify.go
package notify

import "log"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Sink displays transient messages to the user. Notify is fire-and-forget:
// callers never block on it and never consume a result.
type Sink interface {
	Notify(message string, severity Severity)
}

// LogSink writes notifications to the process log.
type LogSink struct{}

func (LogSink) Notify(message string, severity Severity) {
	log.Printf("[%s] %s", severity, message)
}
