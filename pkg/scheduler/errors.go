package scheduler

import "errors"

var (
	// ErrNotFound is returned when a job does not exist.
	ErrNotFound = errors.New("scheduler: job not found")
	// ErrAlreadyExists is returned on a duplicate job id.
	ErrAlreadyExists = errors.New("scheduler: job already exists")
	// ErrNotCancellable is returned when cancelling a job that already
	// fired or was cancelled.
	ErrNotCancellable = errors.New("scheduler: job not cancellable")
	// ErrNotClaimed is returned when completing a job that is not in the
	// processing state.
	ErrNotClaimed = errors.New("scheduler: job not claimed")
	// ErrInvalidJob is returned when a job is stored with missing or
	// inconsistent fields.
	ErrInvalidJob = errors.New("scheduler: invalid job")
	// ErrFireFuncNil is returned when a Scheduler is started without a
	// fire callback.
	ErrFireFuncNil = errors.New("scheduler: fire func is nil")
)
