package cue

import (
	"github.com/sirupsen/logrus"

	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// Registry maps cue keys to the handlers that render them. Multiple
// handlers may register under the same key (e.g. a VFX handler and a UI
// handler both reacting to the same apply cue).
type Registry struct {
	handlers map[string][]Handler
	log      *logrus.Logger
}

// NewRegistry creates an empty cue registry. A nil logger falls back to
// logrus's standard logger.
func NewRegistry(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{handlers: make(map[string][]Handler), log: log}
}

// Register attaches handler to key.
func (r *Registry) Register(key *forgeref.Ref, handler Handler) {
	r.handlers[key.String()] = append(r.handlers[key.String()], handler)
}

// Unregister removes every registration of handler under key. Unlike most
// Forge removal operations this is a linear scan — cue registries are
// small and rarely mutated at runtime.
func (r *Registry) Unregister(key *forgeref.Ref, handler Handler) {
	list := r.handlers[key.String()]
	kept := list[:0]
	for _, h := range list {
		if h != handler {
			kept = append(kept, h)
		}
	}
	r.handlers[key.String()] = kept
}

func (r *Registry) handlersFor(key *forgeref.Ref) []Handler {
	if key == nil {
		return nil
	}
	handlers := r.handlers[key.String()]
	if len(handlers) == 0 {
		r.log.WithField("cue_key", key.String()).Debug("forge/cue: no handler registered for cue key")
	}
	return handlers
}
