package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a translation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Translate.
type PhaseObserver func(PhaseEvent)

// observePhase brackets one pipeline phase; вызывающий зовёт
// возвращённую функцию по завершении фазы.
func observePhase(obs PhaseObserver, name string) func() {
	if obs == nil {
		return func() {}
	}
	obs(PhaseEvent{Name: name, Status: PhaseStart})
	started := time.Now()
	return func() {
		obs(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(started)})
	}
}
