package server

import (
	"time"
)

type AuditLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Handler    string    `json:"handler"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Username   string    `json:"username,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	Action     string    `json:"action,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
}
