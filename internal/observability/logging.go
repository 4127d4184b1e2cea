package observability

import (
	"context"
	"log/slog"
)

// RepoLogger provides structured logging for repository mutations.
type RepoLogger struct {
	tableName string
	logger    *slog.Logger
	enabled   bool
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string, logger *slog.Logger) *RepoLogger {
	return &RepoLogger{
		tableName: tableName,
		logger:    logger,
		enabled:   logger != nil,
	}
}

func (l *RepoLogger) log(ctx context.Context, level slog.Level, operation string, fields map[string]any) {
	if l == nil || !l.enabled {
		return
	}
	attrs := []slog.Attr{
		slog.String("table", l.tableName),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.LogAttrs(ctx, level, "repository "+operation, attrs...)
}

// LogCreate logs a repository create operation.
func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]any) {
	l.log(ctx, slog.LevelDebug, "create", fields)
}

// LogDelete logs a repository delete operation.
func (l *RepoLogger) LogDelete(ctx context.Context, fields map[string]any) {
	l.log(ctx, slog.LevelDebug, "delete", fields)
}

// LogUpdate logs a repository update operation.
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]any) {
	l.log(ctx, slog.LevelDebug, "update", fields)
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	if err == nil {
		return
	}
	l.log(ctx, slog.LevelError, operation, map[string]any{"error": err.Error()})
}
