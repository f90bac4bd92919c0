// Package logging assembles structured slog loggers for pix commands.
//
// It owns the console and JSON handlers, maps config levels onto slog, and
// exposes context helpers so every line written during one command
// invocation carries the same command name and correlation ID. A no-op
// logger is provided for tests and for wiring code that cannot fail.
package logging
