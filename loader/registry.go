package loader

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Registry maps the entry points named by image descriptors to the Programs
// implementing them.
type Registry struct {
	mu       sync.RWMutex
	programs map[string]Program
}

func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]Program)}
}

// Register binds |entry| to |prog|. Registering an entry twice panics.
func (reg *Registry) Register(entry string, prog Program) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if entry == ScriptEntry {
		log.WithField("entry", entry).Panic("entry point is reserved")
	} else if _, ok := reg.programs[entry]; ok {
		log.WithField("entry", entry).Panic("entry point registered twice")
	}
	reg.programs[entry] = prog
}

// Lookup returns the Program bound to |entry|.
func (reg *Registry) Lookup(entry string) (Program, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	prog, ok := reg.programs[entry]
	return prog, ok
}
