package domain

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records security relevant actions such as approval decisions.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type NopAuditLogger struct{}

func (NopAuditLogger) Log(context.Context, AuditLog) {}
