// Package logging centralizes slog construction and conventions.
//
// It provides console and JSON handlers with consistent timestamp and level
// formatting, attribute helper aliases, standardized field name constants,
// and helpers that derive logger fields (session id, stage) from context.
// Stale log files are pruned via CleanupOldLogs.
package logging
