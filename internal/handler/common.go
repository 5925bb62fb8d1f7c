package handler

import (
	"errors"
	"log"
	"net/http"

	"officina/internal/middleware"
	"officina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps the service error taxonomy onto HTTP statuses. Every
// class resolves to a structured {"error": message} body; internals are
// logged, never exposed.
func respondError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	var conflict *service.ConflictError
	var siteContext *service.SiteContextError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &siteContext):
		c.JSON(http.StatusBadRequest, gin.H{"error": siteContext.Error()})
	default:
		log.Printf("⚠️  Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireSiteID returns the resolved site id or writes a 400 when the
// request could not be matched to a tenant.
func requireSiteID(c *gin.Context) (uuid.UUID, bool) {
	sc := middleware.GetSiteContext(c)
	if sc.SiteID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Site could not be resolved for this request"})
		return uuid.Nil, false
	}
	return *sc.SiteID, true
}

// currentUserID returns the authenticated user for Action attribution.
func currentUserID(c *gin.Context) string {
	if v, exists := c.Get(middleware.UserIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
