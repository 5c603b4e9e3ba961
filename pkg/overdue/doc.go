// Package overdue implements the deadline scanner.
//
// The scanner periodically stamps overdue_at on incomplete todos whose
// deadline has passed. Flagging is one-way and idempotent: a todo is
// flagged at most once, and completing it afterwards does not clear the
// stamp. The scan runs either in-process on a cron schedule inside the
// API server, or standalone via cmd/taskhub-scanner.
package overdue
