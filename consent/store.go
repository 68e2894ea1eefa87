// Package consent implements the consent record store: the single owner of a
// user's ConsentPreferences aggregate. Every mutation follows the same shape:
// validate, mutate in memory, persist the whole aggregate, append an audit
// event, notify listeners. Policy questions are delegated to the policy
// package over the in-memory snapshot.
package consent

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Karuna-AI/karuna-platform-sub001/policy"
	"github.com/Karuna-AI/karuna-platform-sub001/schema"
	"github.com/Karuna-AI/karuna-platform-sub001/store"
)

var (
	ErrInvalidCategory       = errors.New("invalid consent category")
	ErrInvalidGrantee        = errors.New("invalid consent grantee")
	ErrInvalidAccessLevel    = errors.New("invalid access level")
	ErrGlobalSharingDisabled = errors.New("global data sharing is disabled")
	ErrConsentRequired       = errors.New("consent is required for app functionality and cannot be revoked")
	ErrNoActiveConsent       = errors.New("no active consent found")
	ErrRequiredConsentDenied = errors.New("a required consent request was denied")
)

// Result is what every mutating operation returns. Policy refusals are data,
// not Go errors; Err is one of the sentinel errors above when Success is
// false. Infrastructure failures never surface here.
type Result struct {
	Success bool  `json:"success"`
	Err     error `json:"-"`
}

func success() Result {
	return Result{Success: true}
}

func failure(err error) Result {
	return Result{Err: err}
}

// GrantOptions are the optional fields of a new grant.
type GrantOptions struct {
	Scope     *schema.ConsentScope
	ExpiresAt *time.Time
	Reason    string
}

// Store owns one account's aggregate. A single mutex serializes every
// operation; listener callbacks run with the lock released so a listener may
// re-enter the store.
type Store struct {
	mu          sync.Mutex
	preferences *schema.ConsentPreferences
	storage     store.ConsentStorage
	audit       store.AuditLogger
	listeners   *listenerRegistry
	dirty       bool

	now   func() time.Time
	newID func() string
}

// NewStore wraps an existing aggregate. A nil aggregate gets the restrictive
// defaults: global sharing off, no grants.
func NewStore(preferences *schema.ConsentPreferences, storage store.ConsentStorage, audit store.AuditLogger) *Store {
	if preferences == nil {
		preferences = defaultPreferences("", time.Now().UTC())
	}
	return &Store{
		preferences: preferences,
		storage:     storage,
		audit:       audit,
		listeners:   newListenerRegistry(),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.NewString() },
	}
}

func defaultPreferences(accountNumber string, now time.Time) *schema.ConsentPreferences {
	defaults := make(map[schema.ConsentCategory]schema.AccessLevel, len(schema.AllConsentCategories))
	for _, category := range schema.AllConsentCategories {
		defaults[category] = schema.AccessNone
	}
	return &schema.ConsentPreferences{
		SchemaVersion:       schema.CurrentConsentSchemaVersion,
		AccountNumber:       accountNumber,
		DefaultAccessLevels: defaults,
		GlobalDataSharing:   false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Grant creates a new active record for the (category, grantee) pair. A
// repeat grant supersedes the current active record at its slot with a fresh
// identity and an incremented version; the superseded record's identity is
// not preserved.
func (s *Store) Grant(category schema.ConsentCategory, grantee schema.ConsentGrantee, level schema.AccessLevel, opts GrantOptions) Result {
	if !category.Valid() {
		return failure(ErrInvalidCategory)
	}
	if !grantee.Valid() {
		return failure(ErrInvalidGrantee)
	}
	if !level.Valid() {
		return failure(ErrInvalidAccessLevel)
	}

	s.mu.Lock()

	if grantee.IsCaregiver() && !s.preferences.GlobalDataSharing {
		s.mu.Unlock()
		return failure(ErrGlobalSharingDisabled)
	}

	now := s.now()

	previousVersion := 0
	replaceAt := -1
	for i := range s.preferences.Consents {
		record := &s.preferences.Consents[i]
		if record.Category == category && record.GrantedTo == grantee && policy.IsActive(record, now) {
			previousVersion = record.Version
			replaceAt = i
			break
		}
	}

	record := schema.ConsentRecord{
		ID:          s.newID(),
		Category:    category,
		GrantedTo:   grantee,
		AccessLevel: level,
		GrantedAt:   now,
		ExpiresAt:   opts.ExpiresAt,
		Scope:       opts.Scope,
		Reason:      opts.Reason,
		Version:     previousVersion + 1,
	}

	if replaceAt >= 0 {
		s.preferences.Consents[replaceAt] = record
	} else {
		s.preferences.Consents = append(s.preferences.Consents, record)
	}

	s.touch(now)
	s.persistLocked()
	s.auditLocked(schema.AuditActionGranted, category, grantee,
		fmt.Sprintf("granted %s access, version %d", level, record.Version), now)
	s.mu.Unlock()

	s.listeners.notify(category, grantee)
	return success()
}

// Revoke soft-revokes the active record for the pair: revoked_at is set on
// the record in place and the record stays in the history. The required
// consents can never be revoked individually; that check comes first,
// regardless of whether an active record exists.
func (s *Store) Revoke(category schema.ConsentCategory, grantee schema.ConsentGrantee, reason string) Result {
	if !category.Valid() {
		return failure(ErrInvalidCategory)
	}
	if !grantee.Valid() {
		return failure(ErrInvalidGrantee)
	}

	if policy.IsRequired(category, grantee) {
		return failure(ErrConsentRequired)
	}

	s.mu.Lock()

	now := s.now()
	record := policy.ActiveConsent(s.preferences, category, grantee, now)
	if record == nil {
		s.mu.Unlock()
		return failure(ErrNoActiveConsent)
	}

	revokedAt := now
	record.RevokedAt = &revokedAt

	details := "consent revoked"
	if reason != "" {
		details = fmt.Sprintf("consent revoked: %s", reason)
	}

	s.touch(now)
	s.persistLocked()
	s.auditLocked(schema.AuditActionRevoked, category, grantee, details, now)
	s.mu.Unlock()

	s.listeners.notify(category, grantee)
	return success()
}

// UpdateScope replaces the scope on the active record in place. Unlike a
// repeat grant this keeps the record's identity and only bumps its version.
func (s *Store) UpdateScope(category schema.ConsentCategory, grantee schema.ConsentGrantee, scope schema.ConsentScope) Result {
	if !category.Valid() {
		return failure(ErrInvalidCategory)
	}
	if !grantee.Valid() {
		return failure(ErrInvalidGrantee)
	}

	s.mu.Lock()

	now := s.now()
	record := policy.ActiveConsent(s.preferences, category, grantee, now)
	if record == nil {
		s.mu.Unlock()
		return failure(ErrNoActiveConsent)
	}

	record.Scope = &scope
	record.Version++

	s.touch(now)
	s.persistLocked()
	s.auditLocked(schema.AuditActionUpdated, category, grantee,
		fmt.Sprintf("scope updated, version %d", record.Version), now)
	s.mu.Unlock()

	s.listeners.notify(category, grantee)
	return success()
}

// SetGlobalDataSharing flips the master switch. Individual caregiver records
// are left untouched; the switch only changes what the evaluator answers for
// caregiver-class grantees.
func (s *Store) SetGlobalDataSharing(enabled bool) Result {
	s.mu.Lock()

	now := s.now()
	s.preferences.GlobalDataSharing = enabled

	action := schema.AuditActionRevoked
	details := "global data sharing disabled"
	if enabled {
		action = schema.AuditActionGranted
		details = "global data sharing enabled"
	}

	s.touch(now)
	s.persistLocked()
	s.auditLocked(action, schema.CategoryCaregiverSharing, "", details, now)
	s.mu.Unlock()

	return success()
}

// ResetAll soft-revokes every currently-active record and disables global
// sharing, with one persistence write and one audit event. Required-consent
// protection deliberately does not apply: reset is an explicit, global,
// user-initiated override.
func (s *Store) ResetAll() Result {
	s.mu.Lock()

	now := s.now()
	revoked := 0
	var changed [][2]string
	for i := range s.preferences.Consents {
		record := &s.preferences.Consents[i]
		if policy.IsActive(record, now) {
			revokedAt := now
			record.RevokedAt = &revokedAt
			revoked++
			changed = append(changed, [2]string{string(record.Category), string(record.GrantedTo)})
		}
	}
	s.preferences.GlobalDataSharing = false

	s.touch(now)
	s.persistLocked()
	s.auditLocked(schema.AuditActionRevoked, schema.CategoryCaregiverSharing, "",
		fmt.Sprintf("all consents reset, %d active grants revoked, global sharing disabled", revoked), now)
	s.mu.Unlock()

	for _, pair := range changed {
		s.listeners.notify(schema.ConsentCategory(pair[0]), schema.ConsentGrantee(pair[1]))
	}
	return success()
}

// MarkReviewed records that the user confirmed their settings and schedules
// the next reminder. Individual records keep their granted_at, so per
// category staleness flags are unaffected by this call alone.
func (s *Store) MarkReviewed() Result {
	s.mu.Lock()

	now := s.now()
	s.preferences.LastReviewedAt = now
	reminder := now.Add(policy.ReviewInterval)
	s.preferences.NextReviewReminder = &reminder

	s.touch(now)
	s.persistLocked()
	s.auditLocked(schema.AuditActionViewed, "", "", "consent preferences reviewed", now)
	s.mu.Unlock()

	return success()
}

// ProcessRequest turns a structured consent prompt plus the user's decision
// into a grant. Denying an optional request is a successful no-op; denying a
// required one is an error. The response's level, scope and expiry win over
// the request's suggestions.
func (s *Store) ProcessRequest(request schema.ConsentRequest, response schema.ConsentResponse) Result {
	if !response.Granted {
		if request.IsRequired {
			return failure(ErrRequiredConsentDenied)
		}
		return success()
	}

	level := response.AccessLevel
	if level == "" {
		level = request.RequestedAccessLevel
	}

	return s.Grant(request.Category, request.GrantedTo, level, GrantOptions{
		Scope:     response.Scope,
		ExpiresAt: response.ExpiresAt,
		Reason:    request.Reason,
	})
}

// HasConsent answers the question callers must ask before touching protected
// data. It never fails; anything unknown or malformed answers false.
func (s *Store) HasConsent(category schema.ConsentCategory, grantee schema.ConsentGrantee, level schema.AccessLevel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return policy.HasConsent(s.preferences, category, grantee, level, s.now())
}

// GetConsent returns a copy of the active record for the pair, or nil.
func (s *Store) GetConsent(category schema.ConsentCategory, grantee schema.ConsentGrantee) *schema.ConsentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := policy.ActiveConsent(s.preferences, category, grantee, s.now())
	if record == nil {
		return nil
	}
	copied := *record
	return &copied
}

// ConsentsForCategory returns copies of the active records for a category.
func (s *Store) ConsentsForCategory(category schema.ConsentCategory) []schema.ConsentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	records := []schema.ConsentRecord{}
	for i := range s.preferences.Consents {
		record := &s.preferences.Consents[i]
		if record.Category == category && policy.IsActive(record, now) {
			records = append(records, *record)
		}
	}
	return records
}

// ConsentsForGrantee returns copies of the active records held by a grantee.
func (s *Store) ConsentsForGrantee(grantee schema.ConsentGrantee) []schema.ConsentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	records := []schema.ConsentRecord{}
	for i := range s.preferences.Consents {
		record := &s.preferences.Consents[i]
		if record.GrantedTo == grantee && policy.IsActive(record, now) {
			records = append(records, *record)
		}
	}
	return records
}

// HasAllRequiredConsents reports whether the app is usable at all.
func (s *Store) HasAllRequiredConsents() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return policy.HasAllRequiredConsents(s.preferences, s.now())
}

// GlobalDataSharing reports the master switch.
func (s *Store) GlobalDataSharing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferences.GlobalDataSharing
}

// Dirty reports whether the in-memory aggregate is ahead of the durable
// copy because the last persistence attempt failed.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Subscribe registers a change listener invoked with (category, grantee)
// after every successful grant, revoke or scope update. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn Listener) func() {
	return s.listeners.subscribe(fn)
}

func (s *Store) touch(now time.Time) {
	s.preferences.SchemaVersion = schema.CurrentConsentSchemaVersion
	s.preferences.UpdatedAt = now
}

// persistLocked writes the whole aggregate. Failure is non-fatal: the
// mutation stays applied in memory and the next successful write covers it,
// since every save carries the full document.
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	if err := s.storage.SavePreferences(s.preferences); err != nil {
		s.dirty = true
		log.WithError(err).WithField("account_number", s.preferences.AccountNumber).
			Warn("fail to persist consent preferences, keeping in-memory state")
		return
	}
	s.dirty = false
}

func (s *Store) auditLocked(action schema.AuditAction, category schema.ConsentCategory, grantee schema.ConsentGrantee, details string, now time.Time) {
	if s.audit == nil {
		return
	}
	event := schema.AuditEvent{
		AccountNumber: s.preferences.AccountNumber,
		Action:        action,
		Category:      category,
		GrantedTo:     grantee,
		Details:       details,
		Timestamp:     now,
	}
	if err := s.audit.RecordAuditEvent(event); err != nil {
		log.WithError(err).WithField("account_number", s.preferences.AccountNumber).
			Warn("fail to append consent audit event")
	}
}
