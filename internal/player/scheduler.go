package player

import (
	"sync"
	"time"
)

// Scheduler arms periodic callbacks.
type Scheduler interface {
	// Every calls fn once per interval until the returned cancel function is called.
	// cancel must not block and may be called more than once.
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler is a [Scheduler] backed by [time.Ticker]. Each sequence runs fn on its own goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
