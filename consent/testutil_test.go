package consent

import (
	"fmt"
	"time"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

// memoryStorage records every save so tests can count persistence writes.
type memoryStorage struct {
	saved   []schema.ConsentPreferences
	saveErr error
}

func (f *memoryStorage) LoadPreferences(accountNumber string) (*schema.ConsentPreferences, error) {
	if len(f.saved) == 0 {
		return nil, nil
	}
	latest := f.saved[len(f.saved)-1]
	return &latest, nil
}

func (f *memoryStorage) SavePreferences(preferences *schema.ConsentPreferences) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *preferences)
	return nil
}

// auditRecorder collects events in order.
type auditRecorder struct {
	events []schema.AuditEvent
}

func (a *auditRecorder) RecordAuditEvent(event schema.AuditEvent) error {
	a.events = append(a.events, event)
	return nil
}

// testClock is a manually advanced clock so expiry and staleness are
// deterministic.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time {
	return c.current
}

func (c *testClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestStore() (*Store, *memoryStorage, *auditRecorder, *testClock) {
	storage := &memoryStorage{}
	audit := &auditRecorder{}
	clock := newTestClock()

	s := NewStore(defaultPreferences("test-account", clock.now()), storage, audit)
	s.now = clock.now

	sequence := 0
	s.newID = func() string {
		sequence++
		return fmt.Sprintf("record-%d", sequence)
	}

	return s, storage, audit, clock
}
