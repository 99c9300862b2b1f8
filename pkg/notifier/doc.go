// Package notifier is the send pipeline that ties the engine together.
//
// A SendRequest names recipients and either a template or inline content.
// The Service renders it, resolves each recipient's preferences, fans out
// to the configured channel adapters in parallel, and records a delivery
// attempt for every outcome, including channels that preferences filtered
// away.
//
// Priority decides the execution path: high, urgent, and critical requests
// dispatch synchronously, normal and low go through a bounded worker pool.
// Requests with a future ScheduledAt become scheduler jobs instead, and
// the Service doubles as the scheduler's fire callback. Failed sends retry
// through the pool with exponential backoff until the attempt budget runs
// out; permanent provider rejections stop immediately.
package notifier
