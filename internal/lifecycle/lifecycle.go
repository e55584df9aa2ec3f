package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Events the deployment host fires. The host owns the event names and the
// points at which they trigger; wafsync only registers handlers against them.
const (
	BeforePackageFinalize = "before:package:finalize"
	AfterDeploy           = "after:deploy:deploy"
)

// HandlerFunc is a single lifecycle hook. A handler returning an error fails
// the event; handlers that must never fail the deployment are expected to
// log and return nil themselves.
type HandlerFunc func(ctx context.Context) error

type Registry struct {
	mu    sync.RWMutex
	hooks map[string][]HandlerFunc // event -> handlers, in registration order
}

func NewRegistry() *Registry {
	return &Registry{
		hooks: make(map[string][]HandlerFunc),
	}
}

// Register appends a handler for the named event.
func (r *Registry) Register(event string, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks[event] = append(r.hooks[event], handler)
}

// Fire invokes every handler registered for the event, in order, stopping at
// the first error. Firing an unknown event is an error so typos in host
// wiring surface immediately.
func (r *Registry) Fire(ctx context.Context, event string) error {
	r.mu.RLock()
	handlers, exists := r.hooks[event]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no handlers registered for lifecycle event %q", event)
	}

	for _, handler := range handlers {
		if err := handler(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Events returns the registered event names, sorted.
func (r *Registry) Events() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]string, 0, len(r.hooks))
	for event := range r.hooks {
		events = append(events, event)
	}
	sort.Strings(events)

	return events
}
