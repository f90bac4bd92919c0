// Package notifications pushes move, frame extraction and error events to an
// ntfy topic.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers never need to nil-check. Each event class can be switched off in
// the [notifications] config section.
package notifications
