// Package scheduler runs the warmup gate on a timer.
//
// It replaces an external cron hitting /api/warmup when the service runs as
// a long-lived process:
//
//	s, err := scheduler.New(cfg.Scheduler, gate, scheduler.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return s.Run(ctx) // blocks until ctx is cancelled
//
// Each tick calls the gate, which alone decides whether to send. After a
// send the scheduler waits a random delay between WARMUP_JITTER_MIN and
// WARMUP_JITTER_MAX before evaluating again.
package scheduler
