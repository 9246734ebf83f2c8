// Package logging provides structured logging for xrdscan.
//
// The package wraps log/slog with:
//   - JSON, text, and console output formats
//   - Configurable log levels (debug, info, warn, error)
//   - Context fields (run_id, command, file) added to every *Context call
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "json"})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "scan loaded", "segments", 3) // includes run_id
//
// Libraries that accept a *slog.Logger, such as ras.Loader, take
// logger.Slog(); their DebugContext calls pick up the same context fields.
package logging
