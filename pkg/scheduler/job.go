package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/notification"
)

// Status tracks a scheduled job through its lifecycle. Processing marks a
// job claimed by a poller so a second instance cannot fire it twice.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusProcessing, StatusSent, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Recurrence determines whether and how a job reschedules after firing.
type Recurrence string

const (
	RecurrenceNone     Recurrence = "none"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceMonthly  Recurrence = "monthly"
	RecurrenceInterval Recurrence = "interval"
)

// Valid reports whether the recurrence is known.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceInterval:
		return true
	}
	return false
}

// Job is a notification held for later delivery, with an optional
// recurrence. Recipients are snapshotted at scheduling time.
type Job struct {
	ID           uuid.UUID                 `json:"id"`
	Notification notification.Notification `json:"notification"`
	Recipients   []notification.Recipient  `json:"recipients"`
	NextRun      time.Time                 `json:"next_run"`
	Recurrence   Recurrence                `json:"recurrence"`
	Every        time.Duration             `json:"every,omitempty"`
	Status       Status                    `json:"status"`
	RunCount     int                       `json:"run_count"`
	LastError    string                    `json:"last_error,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// Recurring reports whether the job reschedules after firing.
func (j *Job) Recurring() bool {
	return j.Recurrence != "" && j.Recurrence != RecurrenceNone
}

// NextOccurrence computes the run after from. The result is strictly after
// from so a recurring job can never fire twice in the same instant. The
// second return is false for one-shot jobs.
func (j *Job) NextOccurrence(from time.Time) (time.Time, bool) {
	switch j.Recurrence {
	case RecurrenceDaily:
		return nextByDate(j.NextRun, from, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }), true
	case RecurrenceWeekly:
		return nextByDate(j.NextRun, from, func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }), true
	case RecurrenceMonthly:
		return nextByDate(j.NextRun, from, addMonthClamped), true
	case RecurrenceInterval:
		every := j.Every
		if every <= 0 {
			every = time.Minute
		}
		next := j.NextRun
		for !next.After(from) {
			next = next.Add(every)
		}
		return next, true
	}
	return time.Time{}, false
}

// nextByDate advances anchor by step until it passes from, preserving the
// anchor's wall-clock time across DST and month boundaries.
func nextByDate(anchor, from time.Time, step func(time.Time) time.Time) time.Time {
	next := anchor
	for !next.After(from) {
		next = step(next)
	}
	return next
}

// addMonthClamped moves one month forward, clamping the day so Jan 31 goes
// to Feb 28 rather than Mar 3.
func addMonthClamped(t time.Time) time.Time {
	year, month := t.Year(), t.Month()
	if month == time.December {
		year++
		month = time.January
	} else {
		month++
	}
	day := min(t.Day(), daysInMonth(year, month))
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
