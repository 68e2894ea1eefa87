package schema

import "time"

// AuditAction classifies a policy event for the append-only audit log.
type AuditAction string

const (
	AuditActionGranted AuditAction = "granted"
	AuditActionRevoked AuditAction = "revoked"
	AuditActionUpdated AuditAction = "updated"
	AuditActionViewed  AuditAction = "viewed"
)

// AuditEvent is one entry in the audit log. The engine only writes these;
// it never reads them back.
type AuditEvent struct {
	AccountNumber string          `json:"account_number" bson:"account_number"`
	Action        AuditAction     `json:"action" bson:"action"`
	Category      ConsentCategory `json:"category" bson:"category"`
	GrantedTo     ConsentGrantee  `json:"granted_to,omitempty" bson:"granted_to,omitempty"`
	Details       string          `json:"details" bson:"details"`
	Timestamp     time.Time       `json:"ts" bson:"ts"`
}
