package consent

import (
	"sync"
	"time"

	"github.com/Karuna-AI/karuna-platform-sub001/store"
)

// Manager hands out one Store per account and guarantees there is never more
// than one, so all mutations for a user funnel through a single mutex even
// when requests arrive concurrently.
type Manager struct {
	mu      sync.Mutex
	storage store.ConsentStorage
	audit   store.AuditLogger
	stores  map[string]*Store
}

func NewManager(storage store.ConsentStorage, audit store.AuditLogger) *Manager {
	return &Manager{
		storage: storage,
		audit:   audit,
		stores:  make(map[string]*Store),
	}
}

// ForAccount returns the cached Store for the account, loading the persisted
// aggregate on first use. An account with no stored aggregate starts from
// the restrictive defaults.
func (m *Manager) ForAccount(accountNumber string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[accountNumber]; ok {
		return s, nil
	}

	preferences, err := m.storage.LoadPreferences(accountNumber)
	if err != nil {
		return nil, err
	}
	if preferences == nil {
		preferences = defaultPreferences(accountNumber, time.Now().UTC())
	}

	s := NewStore(preferences, m.storage, m.audit)
	m.stores[accountNumber] = s
	return s, nil
}
