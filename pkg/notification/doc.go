// Package notification defines the shared vocabulary of the delivery
// engine: channels, categories, priorities, recipient snapshots, rendered
// content, and the notification record itself.
//
// Every other package speaks these types; none of them reach back into the
// orchestration layer, which keeps the dependency graph a strict tree.
package notification
