package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/scheduler"
)

func TestJob_NextOccurrence(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		job  scheduler.Job
		from time.Time
		want time.Time
		ok   bool
	}{
		{
			name: "one-shot has no next",
			job:  scheduler.Job{NextRun: anchor, Recurrence: scheduler.RecurrenceNone},
			from: anchor,
			ok:   false,
		},
		{
			name: "daily advances one day",
			job:  scheduler.Job{NextRun: anchor, Recurrence: scheduler.RecurrenceDaily},
			from: anchor,
			want: anchor.AddDate(0, 0, 1),
			ok:   true,
		},
		{
			name: "daily catches up after downtime",
			job:  scheduler.Job{NextRun: anchor, Recurrence: scheduler.RecurrenceDaily},
			from: anchor.AddDate(0, 0, 3).Add(time.Hour),
			want: anchor.AddDate(0, 0, 4),
			ok:   true,
		},
		{
			name: "weekly advances seven days",
			job:  scheduler.Job{NextRun: anchor, Recurrence: scheduler.RecurrenceWeekly},
			from: anchor,
			want: anchor.AddDate(0, 0, 7),
			ok:   true,
		},
		{
			name: "monthly clamps at month end",
			job:  scheduler.Job{NextRun: anchor, Recurrence: scheduler.RecurrenceMonthly},
			from: anchor,
			want: time.Date(2026, time.February, 28, 9, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "interval repeats by duration",
			job:  scheduler.Job{NextRun: anchor, Recurrence: scheduler.RecurrenceInterval, Every: 15 * time.Minute},
			from: anchor.Add(40 * time.Minute),
			want: anchor.Add(45 * time.Minute),
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.job.NextOccurrence(tt.from)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
				assert.True(t, got.After(tt.from), "next occurrence must be strictly after from")
			}
		})
	}
}

func TestJob_NextOccurrence_StrictlyIncreasing(t *testing.T) {
	t.Parallel()

	job := scheduler.Job{
		NextRun:    time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
		Recurrence: scheduler.RecurrenceDaily,
	}

	from := job.NextRun
	for i := 0; i < 10; i++ {
		next, ok := job.NextOccurrence(from)
		require.True(t, ok)
		require.True(t, next.After(from))
		job.NextRun = next
		from = next
	}
}
