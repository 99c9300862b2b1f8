// Package redis connects the engine to Redis, which backs the delivery
// deduplication store (cooldown windows keyed by template and recipient).
package redis
