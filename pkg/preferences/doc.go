// Package preferences stores per-user delivery preferences and resolves
// them against outgoing notifications.
//
// A Preference controls which channels a user accepts for each notification
// category, whether low-priority traffic is muted entirely (urgent only),
// and an optional quiet-hours window during which only in-app delivery is
// allowed. Users without a stored preference receive a sensible default:
// email, push, and in-app enabled for every category, SMS and Telegram off.
//
// # Resolution
//
// The Resolver narrows a notification's requested channels to the set the
// user actually accepts, reporting a reason for every channel it filters:
//
//	resolver := preferences.NewResolver(store)
//	res, err := resolver.Resolve(ctx, n, recipient)
//	// res.Effective  -> channels to deliver on
//	// res.Filtered   -> channel -> reason (quiet hours, disabled, ...)
//
// Critical notifications bypass quiet hours, and the urgent-only flag
// suppresses everything below high priority regardless of channel settings.
//
// # Storage
//
// Two Storage implementations are provided: MemoryStorage for tests and
// single-process use, and PGStorage backed by Postgres with an upsert-based
// Set so concurrent writers cannot lose the row.
package preferences
