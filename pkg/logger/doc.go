// Package logger provides a small slog factory and typed attribute helpers
// shared by the notification engine.
//
// The attribute helpers keep log keys consistent across packages:
//
//	log.InfoContext(ctx, "delivery attempted",
//	    logger.NotificationID(notifID),
//	    logger.RecipientID(userID),
//	    logger.Channel("email"),
//	)
//
// Nil-tolerant helpers return an empty slog.Attr, which slog drops, so call
// sites never need nil checks.
package logger
