package quiz

import "time"

// AdvanceScheduler defers a single callback. Schedule returns a cancel
// function; canceling after the callback ran is a no-op.
type AdvanceScheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// TimerScheduler runs callbacks on real timers.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}

// NoopScheduler never fires; line-mode fronts advance on their own.
type NoopScheduler struct{}

func (NoopScheduler) Schedule(time.Duration, func()) func() {
	return func() {}
}
