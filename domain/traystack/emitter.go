package traystack

import "sync"

// ResultListener receives every emitted Result.
type ResultListener func(Result)

// Emitter fans results out to listeners in registration order.
// The zero value is ready to use.
type Emitter struct {
	mu        sync.RWMutex
	listeners []ResultListener
}

// AddListener registers l. Nil listeners are ignored.
func (e *Emitter) AddListener(l ResultListener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	e.listeners = append(e.listeners, l)
	e.mu.Unlock()
}

// Emit delivers r to every listener.
func (e *Emitter) Emit(r Result) {
	e.mu.RLock()
	ls := e.listeners
	e.mu.RUnlock()
	for _, l := range ls {
		l(r)
	}
}
