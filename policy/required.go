package policy

import (
	"time"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

// RequiredConsent is a (category, grantee, minimum level) entry the product
// cannot function without. Entries here can never be revoked individually.
type RequiredConsent struct {
	Category     schema.ConsentCategory
	GrantedTo    schema.ConsentGrantee
	MinimumLevel schema.AccessLevel
}

// The companion cannot converse without reading voice data itself and
// letting the assistant process it.
var requiredConsents = []RequiredConsent{
	{Category: schema.CategoryVoiceData, GrantedTo: schema.GranteeApp, MinimumLevel: schema.AccessRead},
	{Category: schema.CategoryVoiceData, GrantedTo: schema.GranteeAIAssistant, MinimumLevel: schema.AccessRead},
}

// RequiredConsents returns a copy of the required-consent table.
func RequiredConsents() []RequiredConsent {
	out := make([]RequiredConsent, len(requiredConsents))
	copy(out, requiredConsents)
	return out
}

// IsRequired reports whether the pair appears in the required-consent table.
func IsRequired(category schema.ConsentCategory, grantee schema.ConsentGrantee) bool {
	for _, required := range requiredConsents {
		if required.Category == category && required.GrantedTo == grantee {
			return true
		}
	}
	return false
}

// HasAllRequiredConsents gates the system-wide "is the app usable" answer:
// every required entry must individually pass HasConsent at its declared
// minimum level.
func HasAllRequiredConsents(preferences *schema.ConsentPreferences, now time.Time) bool {
	for _, required := range requiredConsents {
		if !HasConsent(preferences, required.Category, required.GrantedTo, required.MinimumLevel, now) {
			return false
		}
	}
	return true
}
