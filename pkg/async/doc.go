// Package async provides typed futures for fan-out work. The channel
// dispatcher uses it to attempt every effective channel of a recipient
// concurrently and still collect per-channel results in order.
package async
