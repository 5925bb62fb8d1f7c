package middleware

import (
	"log"
	"strings"

	"officina/internal/model"
	"officina/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SiteContextKey is the gin context key holding the resolved SiteContext.
const SiteContextKey = "siteContext"

// Resolution headers. The explicit id bypasses any lookup; the explicit
// domain and the Host header are looked up against the site registry.
const (
	SiteIDHeader     = "X-Site-ID"
	SiteDomainHeader = "X-Site-Domain"
)

// SiteContext carries the tenant resolved for the request. A nil SiteID
// means the request could not be matched to a site; callers that need a
// mandatory scope reject it, advisory callers fall back to un-scoped
// behavior.
type SiteContext struct {
	SiteID *uuid.UUID
	Domain string
	Site   *model.Site
}

// SiteResolver resolves the tenant once per request, in order: explicit id
// header, explicit domain header, Host header. Lookup failures degrade to
// an unresolved context; resolution never aborts the request.
func SiteResolver(sites repository.SiteRepositoryInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(SiteContextKey, resolveSite(c, sites))
		c.Next()
	}
}

func resolveSite(c *gin.Context, sites repository.SiteRepositoryInterface) SiteContext {
	if raw := c.GetHeader(SiteIDHeader); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return SiteContext{SiteID: &id}
		}
	}

	if domain := c.GetHeader(SiteDomainHeader); domain != "" {
		if sc, ok := lookupDomain(c, sites, domain); ok {
			return sc
		}
	}

	host := c.Request.Host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	if host != "" {
		if sc, ok := lookupDomain(c, sites, host); ok {
			return sc
		}
	}

	return SiteContext{}
}

// lookupDomain tries the full domain as a custom domain first, then the
// first label as a subdomain.
func lookupDomain(c *gin.Context, sites repository.SiteRepositoryInterface, domain string) (SiteContext, bool) {
	site, err := sites.GetByCustomDomain(c.Request.Context(), domain)
	if err != nil {
		log.Printf("⚠️  Site lookup failed for domain %q: %v", domain, err)
		return SiteContext{}, false
	}
	if site == nil {
		subdomain := domain
		if i := strings.IndexByte(domain, '.'); i > 0 {
			subdomain = domain[:i]
		}
		site, err = sites.GetBySubdomain(c.Request.Context(), subdomain)
		if err != nil {
			log.Printf("⚠️  Site lookup failed for subdomain %q: %v", subdomain, err)
			return SiteContext{}, false
		}
	}
	if site == nil {
		return SiteContext{}, false
	}
	return SiteContext{SiteID: &site.ID, Domain: domain, Site: site}, true
}

// GetSiteContext returns the context resolved for the request, empty when
// the resolver did not run.
func GetSiteContext(c *gin.Context) SiteContext {
	if v, exists := c.Get(SiteContextKey); exists {
		if sc, ok := v.(SiteContext); ok {
			return sc
		}
	}
	return SiteContext{}
}
