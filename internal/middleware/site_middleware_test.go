package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"officina/internal/middleware"
	"officina/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubSiteRepo serves a fixed set of sites keyed by subdomain and custom
// domain, optionally failing every lookup.
type stubSiteRepo struct {
	bySubdomain    map[string]*model.Site
	byCustomDomain map[string]*model.Site
	err            error
}

func (s *stubSiteRepo) Create(ctx context.Context, site *model.Site) error { return nil }

func (s *stubSiteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	return nil, nil
}

func (s *stubSiteRepo) GetBySubdomain(ctx context.Context, subdomain string) (*model.Site, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bySubdomain[subdomain], nil
}

func (s *stubSiteRepo) GetByCustomDomain(ctx context.Context, domain string) (*model.Site, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byCustomDomain[domain], nil
}

func setupSiteRouter(repo *stubSiteRepo, captured *middleware.SiteContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SiteResolver(repo))
	r.GET("/ping", func(c *gin.Context) {
		*captured = middleware.GetSiteContext(c)
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func performRequest(r *gin.Engine, host string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	if host != "" {
		req.Host = host
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSiteResolver_ExplicitIDHeaderWins(t *testing.T) {
	// Arrange
	siteID := uuid.New()
	repo := &stubSiteRepo{err: errors.New("lookup must not run")}
	var captured middleware.SiteContext
	r := setupSiteRouter(repo, &captured)

	// Act
	w := performRequest(r, "acme.example.com", map[string]string{
		middleware.SiteIDHeader: siteID.String(),
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured.SiteID)
	assert.Equal(t, siteID, *captured.SiteID)
	assert.Nil(t, captured.Site)
}

func TestSiteResolver_DomainHeaderLookup(t *testing.T) {
	// Arrange
	site := &model.Site{ID: uuid.New(), Subdomain: "acme"}
	repo := &stubSiteRepo{bySubdomain: map[string]*model.Site{"acme": site}}
	var captured middleware.SiteContext
	r := setupSiteRouter(repo, &captured)

	// Act
	w := performRequest(r, "unrelated.example.com", map[string]string{
		middleware.SiteDomainHeader: "acme.example.com",
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured.SiteID)
	assert.Equal(t, site.ID, *captured.SiteID)
	assert.Equal(t, "acme.example.com", captured.Domain)
	assert.Equal(t, site, captured.Site)
}

func TestSiteResolver_HostCustomDomainBeatsSubdomain(t *testing.T) {
	// Arrange
	custom := &model.Site{ID: uuid.New(), Subdomain: "shop"}
	other := &model.Site{ID: uuid.New(), Subdomain: "boards"}
	repo := &stubSiteRepo{
		byCustomDomain: map[string]*model.Site{"boards.example.com": custom},
		bySubdomain:    map[string]*model.Site{"boards": other},
	}
	var captured middleware.SiteContext
	r := setupSiteRouter(repo, &captured)

	// Act: custom-domain match takes priority over the first-label lookup
	w := performRequest(r, "boards.example.com:8080", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured.SiteID)
	assert.Equal(t, custom.ID, *captured.SiteID)
}

func TestSiteResolver_HostSubdomainFallback(t *testing.T) {
	// Arrange
	site := &model.Site{ID: uuid.New(), Subdomain: "acme"}
	repo := &stubSiteRepo{bySubdomain: map[string]*model.Site{"acme": site}}
	var captured middleware.SiteContext
	r := setupSiteRouter(repo, &captured)

	// Act
	w := performRequest(r, "acme.example.com", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured.SiteID)
	assert.Equal(t, site.ID, *captured.SiteID)
}

func TestSiteResolver_UnresolvedDegradesToNil(t *testing.T) {
	// Arrange
	repo := &stubSiteRepo{}
	var captured middleware.SiteContext
	r := setupSiteRouter(repo, &captured)

	// Act
	w := performRequest(r, "unknown.example.com", nil)

	// Assert: the request still goes through, just without a tenant
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, captured.SiteID)
}

func TestSiteResolver_LookupErrorDegradesToNil(t *testing.T) {
	// Arrange
	repo := &stubSiteRepo{err: errors.New("connection refused")}
	var captured middleware.SiteContext
	r := setupSiteRouter(repo, &captured)

	// Act
	w := performRequest(r, "acme.example.com", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, captured.SiteID)
}

func TestSiteResolver_MalformedIDHeaderFallsThrough(t *testing.T) {
	// Arrange
	site := &model.Site{ID: uuid.New(), Subdomain: "acme"}
	repo := &stubSiteRepo{bySubdomain: map[string]*model.Site{"acme": site}}
	var captured middleware.SiteContext
	r := setupSiteRouter(repo, &captured)

	// Act
	w := performRequest(r, "acme.example.com", map[string]string{
		middleware.SiteIDHeader: "not-a-uuid",
	})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, captured.SiteID)
	assert.Equal(t, site.ID, *captured.SiteID)
}
