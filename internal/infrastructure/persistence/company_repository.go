package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/company"
	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCompanyRepository implements company.Repository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return translateError(r.db.WithContext(ctx).Save(c).Error)
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var c company.Company
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds companies matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]company.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&company.Company{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []company.Company
	if err := query.Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// GormBranchRepository implements company.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, b *company.Branch) error {
	return translateError(r.db.WithContext(ctx).Save(b).Error)
}

// FindByID finds a branch within a company
func (r *GormBranchRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*company.Branch, error) {
	var b company.Branch
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindMain finds the company's MAIN branch
func (r *GormBranchRepository) FindMain(ctx context.Context, companyID uuid.UUID) (*company.Branch, error) {
	var b company.Branch
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_main = ?", companyID, true).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAll finds all branches of a company
func (r *GormBranchRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]company.Branch, error) {
	var branches []company.Branch
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Delete deletes a branch
func (r *GormBranchRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&company.Branch{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ company.Repository       = (*GormCompanyRepository)(nil)
	_ company.BranchRepository = (*GormBranchRepository)(nil)
)
