package store

import (
	"context"
	"time"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

// RecordAuditEvent appends one policy event to the audit collection. Events
// are insert-only; nothing in this codebase updates or removes them.
func (m *mongoDB) RecordAuditEvent(event schema.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	c := m.client.Database(m.database).Collection(schema.ConsentAuditCollection)
	_, err := c.InsertOne(ctx, &event)
	return err
}
