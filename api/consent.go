package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Karuna-AI/karuna-platform-sub001/consent"
	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

// grantConsent is the API to grant a grantee access to a data category
func (s *Server) grantConsent(c *gin.Context) {
	var params struct {
		Category    schema.ConsentCategory `json:"category" binding:"required"`
		GrantedTo   schema.ConsentGrantee  `json:"granted_to" binding:"required"`
		AccessLevel schema.AccessLevel     `json:"access_level" binding:"required"`
		Scope       *schema.ConsentScope   `json:"scope"`
		ExpiresAt   *time.Time             `json:"expires_at"`
		Reason      string                 `json:"reason"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	respondResult(c, store.Grant(params.Category, params.GrantedTo, params.AccessLevel, consent.GrantOptions{
		Scope:     params.Scope,
		ExpiresAt: params.ExpiresAt,
		Reason:    params.Reason,
	}))
}

// revokeConsent is the API to soft-revoke an active consent
func (s *Server) revokeConsent(c *gin.Context) {
	category, grantee, ok := pairParams(c)
	if !ok {
		return
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	respondResult(c, store.Revoke(category, grantee, c.Query("reason")))
}

// updateConsentScope is the API to replace the scope of an active consent
func (s *Server) updateConsentScope(c *gin.Context) {
	category, grantee, ok := pairParams(c)
	if !ok {
		return
	}

	var params struct {
		Scope schema.ConsentScope `json:"scope" binding:"required"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	respondResult(c, store.UpdateScope(category, grantee, params.Scope))
}

// checkConsent is the API other subsystems call before returning protected
// data. It answers only a boolean; callers must deny locally on false.
func (s *Server) checkConsent(c *gin.Context) {
	category := schema.ConsentCategory(c.Query("category"))
	grantee := schema.ConsentGrantee(c.Query("grantee"))
	level := schema.AccessLevel(c.Query("level"))

	store := s.storeFor(c)
	if store == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": store.HasConsent(category, grantee, level),
	})
}

// consentsForCategory is the API to list the active consents of a category
func (s *Server) consentsForCategory(c *gin.Context) {
	category := schema.ConsentCategory(c.Param("category"))
	if !category.Valid() {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consents": store.ConsentsForCategory(category),
	})
}

// consentsForGrantee is the API to list the active consents held by a grantee
func (s *Server) consentsForGrantee(c *gin.Context) {
	grantee := schema.ConsentGrantee(c.Param("grantee"))
	if !grantee.Valid() {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consents": store.ConsentsForGrantee(grantee),
	})
}

// consentSummaries is the API behind the privacy settings screen
func (s *Server) consentSummaries(c *gin.Context) {
	lang := c.Query("lang")
	if lang == "" {
		lang = c.GetHeader("Accept-Language")
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summaries":        store.Summaries(lang),
		"all_required_met": store.HasAllRequiredConsents(),
	})
}

// pendingRequiredConsents is the API listing the required consents the user
// still has to grant
func (s *Server) pendingRequiredConsents(c *gin.Context) {
	store := s.storeFor(c)
	if store == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": store.PendingRequired(),
	})
}

// processConsentRequest is the API the consent prompt posts its outcome to
func (s *Server) processConsentRequest(c *gin.Context) {
	var params struct {
		Request  schema.ConsentRequest  `json:"request"`
		Response schema.ConsentResponse `json:"response"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	respondResult(c, store.ProcessRequest(params.Request, params.Response))
}

// setGlobalDataSharing is the API to flip the caregiver master switch
func (s *Server) setGlobalDataSharing(c *gin.Context) {
	var params struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	store := s.storeFor(c)
	if store == nil {
		return
	}

	respondResult(c, store.SetGlobalDataSharing(*params.Enabled))
}

// resetAllConsents is the API behind the "revoke everything" button
func (s *Server) resetAllConsents(c *gin.Context) {
	store := s.storeFor(c)
	if store == nil {
		return
	}

	respondResult(c, store.ResetAll())
}

// markReviewed is the API the settings screen calls when the user confirms
// their choices
func (s *Server) markReviewed(c *gin.Context) {
	store := s.storeFor(c)
	if store == nil {
		return
	}

	respondResult(c, store.MarkReviewed())
}

// exportPreferences is the API to download the full aggregate for backup
func (s *Server) exportPreferences(c *gin.Context) {
	store := s.storeFor(c)
	if store == nil {
		return
	}

	data, err := store.Export()
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}

func pairParams(c *gin.Context) (schema.ConsentCategory, schema.ConsentGrantee, bool) {
	category := schema.ConsentCategory(c.Param("category"))
	grantee := schema.ConsentGrantee(c.Param("grantee"))
	if !category.Valid() || !grantee.Valid() {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return "", "", false
	}
	return category, grantee, true
}

func respondResult(c *gin.Context, result consent.Result) {
	if result.Success {
		c.JSON(http.StatusOK, gin.H{"result": "OK"})
		return
	}

	switch {
	case errors.Is(result.Err, consent.ErrGlobalSharingDisabled):
		abortWithEncoding(c, http.StatusForbidden, errorGlobalSharingDisabled)
	case errors.Is(result.Err, consent.ErrConsentRequired):
		abortWithEncoding(c, http.StatusForbidden, errorConsentRequired)
	case errors.Is(result.Err, consent.ErrRequiredConsentDenied):
		abortWithEncoding(c, http.StatusForbidden, errorRequiredDenied)
	case errors.Is(result.Err, consent.ErrNoActiveConsent):
		abortWithEncoding(c, http.StatusNotFound, errorNoActiveConsent)
	default:
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, result.Err)
	}
}
