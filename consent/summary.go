package consent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"

	"github.com/Karuna-AI/karuna-platform-sub001/policy"
	"github.com/Karuna-AI/karuna-platform-sub001/schema"
	"github.com/Karuna-AI/karuna-platform-sub001/utils"
)

// ActiveGrant is one row of a category summary.
type ActiveGrant struct {
	GrantedTo   schema.ConsentGrantee `json:"granted_to"`
	AccessLevel schema.AccessLevel    `json:"access_level"`
	GrantedAt   time.Time             `json:"granted_at"`
}

// CategorySummary is the read model the settings screen renders: one entry
// per category, in the fixed category order, whether or not anything is
// granted.
type CategorySummary struct {
	Category       schema.ConsentCategory `json:"category"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	ActiveGrants   []ActiveGrant          `json:"active_grants"`
	RequiresReview bool                   `json:"requires_review"`
	LastChangedAt  *time.Time             `json:"last_changed_at,omitempty"`
}

// Summaries projects the aggregate into per-category summaries. A category
// requires review when any of its active grants is older than the staleness
// window; LastChangedAt is the newest granted_at among active grants.
func (s *Store) Summaries(lang string) []CategorySummary {
	localizer := utils.NewLocalizer(lang)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	summaries := make([]CategorySummary, 0, len(schema.AllConsentCategories))
	for _, category := range schema.AllConsentCategories {
		summary := CategorySummary{
			Category:     category,
			Name:         localizeCategory(localizer, category, "name"),
			Description:  localizeCategory(localizer, category, "description"),
			ActiveGrants: []ActiveGrant{},
		}

		for i := range s.preferences.Consents {
			record := &s.preferences.Consents[i]
			if record.Category != category || !policy.IsActive(record, now) {
				continue
			}
			summary.ActiveGrants = append(summary.ActiveGrants, ActiveGrant{
				GrantedTo:   record.GrantedTo,
				AccessLevel: record.AccessLevel,
				GrantedAt:   record.GrantedAt,
			})
			if policy.NeedsReview(record, now) {
				summary.RequiresReview = true
			}
			if summary.LastChangedAt == nil || record.GrantedAt.After(*summary.LastChangedAt) {
				grantedAt := record.GrantedAt
				summary.LastChangedAt = &grantedAt
			}
		}

		summaries = append(summaries, summary)
	}
	return summaries
}

// PendingRequired lists the required consents the user still has to grant,
// as synthetic requests ready to be prompted.
func (s *Store) PendingRequired() []schema.ConsentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pending := []schema.ConsentRequest{}
	for _, required := range policy.RequiredConsents() {
		if policy.HasConsent(s.preferences, required.Category, required.GrantedTo, required.MinimumLevel, now) {
			continue
		}
		pending = append(pending, schema.ConsentRequest{
			Category:             required.Category,
			GrantedTo:            required.GrantedTo,
			RequestedAccessLevel: required.MinimumLevel,
			Reason:               "required for core app functionality",
			IsRequired:           true,
		})
	}
	return pending
}

// Export serializes the full aggregate for backup or transfer. The output is
// deterministic: two exports with no intervening mutation are byte-identical.
// There is no import counterpart here; restores belong to storage.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.preferences, "", "  ")
}

func localizeCategory(localizer *i18n.Localizer, category schema.ConsentCategory, field string) string {
	text, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: fmt.Sprintf("consents.%s.%s", category, field),
	})
	if err != nil {
		log.WithError(err).WithField("category", category).Warn("fail to localize consent category")
		return string(category)
	}
	return text
}
