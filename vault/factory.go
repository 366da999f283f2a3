package vault

import (
	"fmt"
	"sync"

	"github.com/kbukum/voicenotes/logger"
)

// StoreFactory creates a Store from configuration.
type StoreFactory func(cfg Config, log *logger.Logger) (Store, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]StoreFactory)
)

// RegisterFactory registers a backend factory for the given provider name.
// Backend packages call this from an init function.
func RegisterFactory(name string, f StoreFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates the Store selected by cfg.Provider. The backend package must
// be imported (e.g. _ "github.com/kbukum/voicenotes/vault/local") so its
// factory is registered.
func New(cfg Config, log *logger.Logger) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("vault: unsupported provider %q (not registered)", cfg.Provider)
	}

	l := log.WithComponent("vault")
	l.Info("opening vault", logger.Fields("provider", cfg.Provider))
	return f(cfg, l)
}
