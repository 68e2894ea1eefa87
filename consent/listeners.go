package consent

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

// Listener is notified with the (category, grantee) pair of every successful
// mutation so UI layers can re-render the affected summaries.
type Listener func(category schema.ConsentCategory, grantee schema.ConsentGrantee)

type listenerRegistry struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{
		listeners: make(map[int]Listener),
	}
}

func (r *listenerRegistry) subscribe(fn Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

func (r *listenerRegistry) notify(category schema.ConsentCategory, grantee schema.ConsentGrantee) {
	r.mu.Lock()
	fns := make([]Listener, 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		notifyOne(fn, category, grantee)
	}
}

// notifyOne isolates each callback so one panicking listener cannot stop the
// others from being notified.
func notifyOne(fn Listener, category schema.ConsentCategory, grantee schema.ConsentGrantee) {
	defer func() {
		if p := recover(); p != nil {
			log.WithField("panic", p).Warn("consent change listener panicked")
		}
	}()
	fn(category, grantee)
}
