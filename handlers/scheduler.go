package handlers

import "time"

// Scheduler defers work back into the hub loop. There is no cancellation:
// every callback re-validates its target when it fires, so a deleted battle
// simply turns the callback into a no-op.
type Scheduler interface {
	// After runs fn on the hub loop once, d from now.
	After(d time.Duration, fn func())
	// Every runs fn on the hub loop at each interval until process exit.
	Every(d time.Duration, fn func())
}

type timerScheduler struct {
	callbacks chan<- func()
}

func (s *timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		s.callbacks <- fn
	})
}

func (s *timerScheduler) Every(d time.Duration, fn func()) {
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for range ticker.C {
			s.callbacks <- fn
		}
	}()
}
