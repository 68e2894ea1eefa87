// Package policy holds the pure access-policy rules: access-level ordering,
// the caregiver gate, lazy expiry, and the required-consent table. Nothing in
// this package performs I/O or mutates state.
package policy

import (
	"time"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

// ReviewInterval is both the staleness window for consent summaries and the
// period of the review reminder set by a completed review.
const ReviewInterval = 90 * 24 * time.Hour

// IsActive reports whether a record currently grants anything: not revoked,
// and not past its expiry. Expiry is evaluated lazily on every read; an
// expired record is never mutated.
func IsActive(record *schema.ConsentRecord, now time.Time) bool {
	if record == nil {
		return false
	}
	if record.RevokedAt != nil {
		return false
	}
	if record.ExpiresAt != nil && !record.ExpiresAt.After(now) {
		return false
	}
	return true
}

// LevelSatisfies compares access levels by ordinal, never by name.
func LevelSatisfies(have, want schema.AccessLevel) bool {
	return have.Ordinal() >= want.Ordinal()
}

// IsGranteeAllowed applies the global data-sharing gate: caregiver-class
// grantees are denied outright while the master switch is off. Everyone else
// is unaffected by the switch.
func IsGranteeAllowed(preferences *schema.ConsentPreferences, grantee schema.ConsentGrantee) bool {
	if preferences == nil {
		return false
	}
	if grantee.IsCaregiver() && !preferences.GlobalDataSharing {
		return false
	}
	return true
}

// ActiveConsent returns the single active record for the (category, grantee)
// pair, or nil. The aggregate invariant guarantees at most one.
func ActiveConsent(preferences *schema.ConsentPreferences, category schema.ConsentCategory, grantee schema.ConsentGrantee, now time.Time) *schema.ConsentRecord {
	if preferences == nil {
		return nil
	}
	for i := range preferences.Consents {
		record := &preferences.Consents[i]
		if record.Category == category && record.GrantedTo == grantee && IsActive(record, now) {
			return record
		}
	}
	return nil
}

// HasConsent is the decision every data-touching caller must make before
// returning protected data. A nil or corrupt aggregate answers false so
// callers fail closed.
func HasConsent(preferences *schema.ConsentPreferences, category schema.ConsentCategory, grantee schema.ConsentGrantee, requiredLevel schema.AccessLevel, now time.Time) bool {
	if !IsGranteeAllowed(preferences, grantee) {
		return false
	}
	record := ActiveConsent(preferences, category, grantee, now)
	if record == nil {
		return false
	}
	return LevelSatisfies(record.AccessLevel, requiredLevel)
}

// NeedsReview reports whether an active record is older than the staleness
// window and should be re-confirmed by the user.
func NeedsReview(record *schema.ConsentRecord, now time.Time) bool {
	if record == nil {
		return false
	}
	return now.Sub(record.GrantedAt) > ReviewInterval
}
