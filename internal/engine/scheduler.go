package engine

import "time"

// TimerScheduler is the production Scheduler: each call to Schedule
// starts its own time.AfterFunc timer. Exemption-clear delays are short
// and one-shot, so there's no need for a shared timer wheel.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delayMs int64, fn func()) {
	time.AfterFunc(time.Duration(delayMs)*time.Millisecond, fn)
}
