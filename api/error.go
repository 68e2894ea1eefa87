package api

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	errorInternalServer    = errorResponse{Code: 1000, Message: "internal server error"}
	errorInvalidParameters = errorResponse{Code: 1001, Message: "invalid parameters"}
	errorUnknownAccount    = errorResponse{Code: 1002, Message: "unknown account"}

	errorGlobalSharingDisabled = errorResponse{Code: 1100, Message: "global data sharing is disabled"}
	errorConsentRequired       = errorResponse{Code: 1101, Message: "consent is required for app functionality"}
	errorNoActiveConsent       = errorResponse{Code: 1102, Message: "no active consent found"}
	errorRequiredDenied        = errorResponse{Code: 1103, Message: "a required consent cannot be denied"}
)

func abortWithEncoding(c *gin.Context, status int, resp errorResponse, errs ...error) {
	for _, err := range errs {
		if err != nil {
			log.WithError(err).WithField("path", c.Request.URL.Path).Error("api error")
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": resp})
}
