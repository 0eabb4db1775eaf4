// Package logging provides structured logging for fsel.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// persistent context attributes. fsel's standard output and standard error
// belong to the user's pipeline, so diagnostic logs never go there unless
// explicitly configured; they are written to a per-user log file next to the
// selection state and rotated by size.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Persistent attributes (command, uid)
//   - Size-based log rotation with numbered backups
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/tmp/fsel_1000.log", "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("lock acquired", "path", lockPath)
//
// # Context Propagation
//
//	cmdLogger := logger.WithCommand("add").With("uid", 1000)
//	cmdLogger.Debug("duplicate skipped", "path", p)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"duplicate skipped","command":"add","uid":1000,"path":"/tmp/a"}
//
// # Disabled Logging
//
// [NopLogger] returns a logger that discards everything. Components accept a
// nil *Logger and substitute a NopLogger, so logging stays optional.
package logging
