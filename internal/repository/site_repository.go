package repository

import (
	"context"
	"errors"

	"officina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository struct {
	db *gorm.DB
}

type SiteRepositoryInterface interface {
	Create(ctx context.Context, site *model.Site) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Site, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*model.Site, error)
	GetByCustomDomain(ctx context.Context, domain string) (*model.Site, error)
}

var _ SiteRepositoryInterface = (*SiteRepository)(nil)

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) GetBySubdomain(ctx context.Context, subdomain string) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) GetByCustomDomain(ctx context.Context, domain string) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).Where("custom_domain = ?", domain).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}
