package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operator-facing lifecycle events. The stdout
// implementation is the only one wired today.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
