package repository

import (
	"context"
	"errors"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"gorm.io/gorm"
)

// ClaimRepository claim persistence
type ClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates the claim repository
func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// FindByID loads a claim by id
func (r *ClaimRepository) FindByID(ctx context.Context, id string) (*entity.Claim, error) {
	var claim entity.Claim
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("id = ?", id).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// FindByNumber loads a claim by its claim number
func (r *ClaimRepository) FindByNumber(ctx context.Context, number string) (*entity.Claim, error) {
	var claim entity.Claim
	err := r.db.WithContext(ctx).
		Where("claim_number = ?", number).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// List returns a claim page with optional filters
func (r *ClaimRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Claim, int64, error) {
	var claims []entity.Claim
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Claim{})

	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if priority, ok := filters["priority"]; ok {
		query = query.Where("priority = ?", priority)
	}
	if category, ok := filters["category"]; ok {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&claims).Error
	if err != nil {
		return nil, 0, err
	}

	return claims, total, nil
}

// CreateWithTimeline inserts a claim and its first timeline entry atomically
func (r *ClaimRepository) CreateWithTimeline(ctx context.Context, claim *entity.Claim, entry *entity.TimelineEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(claim).Error; err != nil {
			return err
		}
		entry.ClaimID = claim.ID
		return tx.Create(entry).Error
	})
}

// ApplyTransition performs a version-checked claim update and the matching
// timeline append in one transaction. Exactly one writer wins a race from
// the same version; the loser gets ErrStaleVersion and nothing is written.
// Returns the timeline sequence id assigned to the entry.
func (r *ClaimRepository) ApplyTransition(ctx context.Context, claimID string, version int, updates map[string]interface{}, entries ...*entity.TimelineEntry) (uint64, error) {
	var seq uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates["version"] = version + 1
		res := tx.Model(&entity.Claim{}).
			Where("id = ? AND version = ?", claimID, version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}
		for _, entry := range entries {
			entry.ClaimID = claimID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
			seq = entry.ID
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// CountBySupplier number of claims referencing a supplier
func (r *ClaimRepository) CountBySupplier(ctx context.Context, supplierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Claim{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}
