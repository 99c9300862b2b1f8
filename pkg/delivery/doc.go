// Package delivery tracks per-channel delivery attempts and deduplicates
// repeat sends.
//
// Every (notification, recipient, channel) pair gets one Attempt row that
// moves through pending, sent, and delivered, or ends in failed or bounced.
// Channels that were never tried still get a terminal audit row, suppressed
// or skipped, so delivery history explains itself. Retries reuse the row:
// the attempt count climbs toward a budget and the row flips to failed only
// once the budget is spent.
//
// The Tracker is the write path the dispatcher uses; Storage has memory and
// Postgres implementations. Deduper claims a (template, recipient) key for
// a window so bursts of identical templated notifications collapse to one,
// with an in-process implementation and a Redis one for multi-instance
// deployments.
package delivery
