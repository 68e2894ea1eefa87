package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Karuna-AI/karuna-platform-sub001/consent"
)

// Server is the HTTP surface of the consent engine. It holds no consent
// state of its own; everything is delegated to the per-account stores handed
// out by the manager.
type Server struct {
	manager   *consent.Manager
	traceMode bool
}

func NewServer(manager *consent.Manager, traceMode bool) *Server {
	return &Server{
		manager:   manager,
		traceMode: traceMode,
	}
}

func (s *Server) Run(addr string) error {
	return s.setupRouter().Run(addr)
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.DumpRequest)

	consents := r.Group("/consents")
	consents.Use(s.recognizeAccountMiddleware)
	{
		consents.POST("", s.grantConsent)
		consents.POST("/request", s.processConsentRequest)
		consents.GET("/check", s.checkConsent)
		consents.GET("/summaries", s.consentSummaries)
		consents.GET("/pending", s.pendingRequiredConsents)
		consents.GET("/export", s.exportPreferences)
		consents.PUT("/global-sharing", s.setGlobalDataSharing)
		consents.POST("/reset", s.resetAllConsents)
		consents.POST("/review", s.markReviewed)
		consents.GET("/category/:category", s.consentsForCategory)
		consents.GET("/grantee/:grantee", s.consentsForGrantee)
		consents.PATCH("/:category/:grantee/scope", s.updateConsentScope)
		consents.DELETE("/:category/:grantee", s.revokeConsent)
	}

	return r
}

// recognizeAccountMiddleware trusts the gateway in front of this service to
// have authenticated the caller; it only requires the forwarded account
// number to be present.
func (s *Server) recognizeAccountMiddleware(c *gin.Context) {
	accountNumber := c.GetHeader("X-Account-Number")
	if accountNumber == "" {
		abortWithEncoding(c, http.StatusUnauthorized, errorUnknownAccount)
		return
	}
	c.Set("requester", accountNumber)
	c.Next()
}

// storeFor resolves the requester's consent store, replying 500 on failure.
// Callers must return immediately when it yields nil.
func (s *Server) storeFor(c *gin.Context) *consent.Store {
	store, err := s.manager.ForAccount(c.GetString("requester"))
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return nil
	}
	return store
}
