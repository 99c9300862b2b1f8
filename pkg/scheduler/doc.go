// Package scheduler holds notifications for later delivery and fires them
// when due.
//
// A Job snapshots the notification and its recipients at scheduling time
// and carries a recurrence: none, daily, weekly, monthly, or a fixed
// interval. The Scheduler polls the store, claims due jobs atomically so
// multiple instances can share one table, and hands each to a FireFunc.
// One-shot jobs end as sent or failed; recurring jobs move to their next
// occurrence, which is always strictly in the future.
package scheduler
