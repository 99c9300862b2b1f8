// Package inbox stores in-app notification messages: the per-user feed the
// in_app channel delivers to.
//
// Messages keep read state and an optional expiry, and every message points
// back to the notification that produced it. Storage has a memory
// implementation for tests and a Postgres one for production.
package inbox
