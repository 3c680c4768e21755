package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type LogType string

const (
	LogTypeOrder   LogType = "order"
	LogTypePayment LogType = "payment"
	LogTypeAdmin   LogType = "admin"
	LogTypeSystem  LogType = "system"
	LogTypeManual  LogType = "manual"
)

// LogEntry is one line of the operator-facing audit trail. Distinct from
// process logging: entries survive restarts and show up in the admin panel.
type LogEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      LogType        `json:"type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	AdminUser string         `json:"adminUser,omitempty"`
}

// NewLogEntry stamps a ULID so entries sort lexicographically by time. The
// package-level monotonic entropy keeps ids unique even when entries land on
// the same clock tick.
func NewLogEntry(typ LogType, message string, details map[string]any) LogEntry {
	now := time.Now().UTC()
	return LogEntry{
		ID:        ulid.Make().String(),
		Timestamp: now,
		Type:      typ,
		Message:   message,
		Details:   details,
	}
}
