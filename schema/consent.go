package schema

import "time"

const (
	ConsentPreferencesCollection = "consentPreferences"
	ConsentAuditCollection       = "consentAudits"
)

// CurrentConsentSchemaVersion is stamped into every persisted aggregate so
// future migrations have something to dispatch on. Documents written before
// this field existed decode as 0 and are treated as version 1.
const CurrentConsentSchemaVersion = 1

// ConsentCategory is one of the closed set of data domains the engine gates.
// Adding a category is a schema change.
type ConsentCategory string

const (
	CategoryHealthData         ConsentCategory = "health_data"
	CategoryFinancialData      ConsentCategory = "financial_data"
	CategoryPersonalDocuments  ConsentCategory = "personal_documents"
	CategoryContactInformation ConsentCategory = "contact_information"
	CategoryLocationData       ConsentCategory = "location_data"
	CategoryVoiceData          ConsentCategory = "voice_data"
	CategoryUsageAnalytics     ConsentCategory = "usage_analytics"
	CategoryCaregiverSharing   ConsentCategory = "caregiver_sharing"
)

// AllConsentCategories is the display order used by summary projections.
var AllConsentCategories = []ConsentCategory{
	CategoryHealthData,
	CategoryFinancialData,
	CategoryPersonalDocuments,
	CategoryContactInformation,
	CategoryLocationData,
	CategoryVoiceData,
	CategoryUsageAnalytics,
	CategoryCaregiverSharing,
}

func (c ConsentCategory) Valid() bool {
	for _, known := range AllConsentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ConsentGrantee is a declared class of actor, not a verified identity.
type ConsentGrantee string

const (
	GranteeApp              ConsentGrantee = "app"
	GranteeAIAssistant      ConsentGrantee = "ai_assistant"
	GranteeCaregiverOwner   ConsentGrantee = "caregiver_owner"
	GranteeCaregiverMember  ConsentGrantee = "caregiver_member"
	GranteeCaregiverViewer  ConsentGrantee = "caregiver_viewer"
	GranteeAnalyticsService ConsentGrantee = "analytics_service"
	GranteeBackupService    ConsentGrantee = "backup_service"
)

var AllConsentGrantees = []ConsentGrantee{
	GranteeApp,
	GranteeAIAssistant,
	GranteeCaregiverOwner,
	GranteeCaregiverMember,
	GranteeCaregiverViewer,
	GranteeAnalyticsService,
	GranteeBackupService,
}

var caregiverGrantees = map[ConsentGrantee]struct{}{
	GranteeCaregiverOwner:  {},
	GranteeCaregiverMember: {},
	GranteeCaregiverViewer: {},
}

func (g ConsentGrantee) Valid() bool {
	for _, known := range AllConsentGrantees {
		if g == known {
			return true
		}
	}
	return false
}

// IsCaregiver reports whether the grantee is subject to the global
// data-sharing gate. Membership is explicit rather than inferred from the
// "caregiver_" wire prefix.
func (g ConsentGrantee) IsCaregiver() bool {
	_, ok := caregiverGrantees[g]
	return ok
}

// AccessLevel is totally ordered: none < read < write < full. All
// comparisons go through Ordinal, never through the string value.
type AccessLevel string

const (
	AccessNone  AccessLevel = "none"
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessFull  AccessLevel = "full"
)

var AllAccessLevels = []AccessLevel{AccessNone, AccessRead, AccessWrite, AccessFull}

var accessLevelOrdinal = map[AccessLevel]int{
	AccessNone:  0,
	AccessRead:  1,
	AccessWrite: 2,
	AccessFull:  3,
}

// Ordinal maps an unknown level to 0 so malformed data fails closed.
func (l AccessLevel) Ordinal() int {
	return accessLevelOrdinal[l]
}

func (l AccessLevel) Valid() bool {
	_, ok := accessLevelOrdinal[l]
	return ok
}

// TimeWindow is a daily active-hours restriction, "HH:MM" local time.
type TimeWindow struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// ConsentScope is a category-specific restriction bundle. The engine carries
// it verbatim and returns it to callers; it never interprets the contents.
type ConsentScope struct {
	IncludeFields     []string    `json:"include_fields,omitempty" bson:"include_fields,omitempty"`
	ExcludeFields     []string    `json:"exclude_fields,omitempty" bson:"exclude_fields,omitempty"`
	AllowedCaregivers []string    `json:"allowed_caregivers,omitempty" bson:"allowed_caregivers,omitempty"`
	ActiveHours       *TimeWindow `json:"active_hours,omitempty" bson:"active_hours,omitempty"`
}

// ConsentRecord is the unit of decision. A record is active while revoked_at
// is unset and expires_at, if present, is in the future. Revocation sets
// revoked_at in place; records are never deleted so the audit trail survives.
type ConsentRecord struct {
	ID          string          `json:"id" bson:"id"`
	Category    ConsentCategory `json:"category" bson:"category"`
	GrantedTo   ConsentGrantee  `json:"granted_to" bson:"granted_to"`
	AccessLevel AccessLevel     `json:"access_level" bson:"access_level"`
	GrantedAt   time.Time       `json:"granted_at" bson:"granted_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	RevokedAt   *time.Time      `json:"revoked_at,omitempty" bson:"revoked_at,omitempty"`
	Scope       *ConsentScope   `json:"scope,omitempty" bson:"scope,omitempty"`
	Reason      string          `json:"reason,omitempty" bson:"reason,omitempty"`
	Version     int             `json:"version" bson:"version"`
}

// ConsentPreferences is the aggregate root, one document per account. When
// GlobalDataSharing is false no caregiver-class grantee may be granted or
// hold effective access, regardless of individual records.
type ConsentPreferences struct {
	SchemaVersion       int                             `json:"schema_version" bson:"schema_version"`
	AccountNumber       string                          `json:"account_number" bson:"account_number"`
	Consents            []ConsentRecord                 `json:"consents" bson:"consents"`
	DefaultAccessLevels map[ConsentCategory]AccessLevel `json:"default_access_levels" bson:"default_access_levels"`
	LastReviewedAt      time.Time                       `json:"last_reviewed_at" bson:"last_reviewed_at"`
	NextReviewReminder  *time.Time                      `json:"next_review_reminder,omitempty" bson:"next_review_reminder,omitempty"`
	GlobalDataSharing   bool                            `json:"global_data_sharing" bson:"global_data_sharing"`
	CreatedAt           time.Time                       `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time                       `json:"updated_at" bson:"updated_at"`
}

// ConsentRequest asks "may I access X"; it is ephemeral and never persisted.
type ConsentRequest struct {
	Category             ConsentCategory `json:"category"`
	GrantedTo            ConsentGrantee  `json:"granted_to"`
	RequestedAccessLevel AccessLevel     `json:"requested_access_level"`
	Reason               string          `json:"reason,omitempty"`
	IsRequired           bool            `json:"is_required"`
}

// ConsentResponse carries the user's decision for a ConsentRequest. When
// granted, an empty AccessLevel means "use the requested level".
type ConsentResponse struct {
	Granted     bool          `json:"granted"`
	AccessLevel AccessLevel   `json:"access_level,omitempty"`
	Scope       *ConsentScope `json:"scope,omitempty"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
}
