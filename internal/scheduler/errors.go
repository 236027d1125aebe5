package scheduler

import "errors"

var (
	ErrInvalidSchedule = errors.New("scheduler: invalid schedule")
	ErrInvalidJitter   = errors.New("scheduler: invalid jitter range")
	ErrNilTrigger      = errors.New("scheduler: trigger is required")
	ErrAlreadyStarted  = errors.New("scheduler: already started")
)
