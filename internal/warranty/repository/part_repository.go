package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"gorm.io/gorm"
)

// PartRepository replacement part persistence
type PartRepository struct {
	db *gorm.DB
}

// NewPartRepository creates the part repository
func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// FindByID loads a part by id
func (r *PartRepository) FindByID(ctx context.Context, id string) (*entity.Part, error) {
	var part entity.Part
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// ListByClaim returns all parts for a claim
func (r *PartRepository) ListByClaim(ctx context.Context, claimID string) ([]entity.Part, error) {
	var parts []entity.Part
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// CreateGuarded inserts the part and its timeline entry after the guard
// has approved the claim's current state, inside one transaction.
func (r *PartRepository) CreateGuarded(ctx context.Context, part *entity.Part, entry *entity.TimelineEntry, guard func(*entity.Claim) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claim entity.Claim
		if err := tx.Where("id = ?", part.ClaimID).First(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := guard(&claim); err != nil {
			return err
		}
		if err := tx.Create(part).Error; err != nil {
			return err
		}
		entry.ClaimID = part.ClaimID
		return tx.Create(entry).Error
	})
}

// UpdateStatusGuarded moves a part to a new status after the guard has
// approved the owning claim's current state. The part row is re-read in
// the transaction and the update is conditional on its current status so
// a racing status change cannot be silently overwritten.
func (r *PartRepository) UpdateStatusGuarded(ctx context.Context, partID, fromStatus, toStatus string, entry *entity.TimelineEntry, guard func(*entity.Claim) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var part entity.Part
		if err := tx.Where("id = ?", partID).First(&part).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var claim entity.Claim
		if err := tx.Where("id = ?", part.ClaimID).First(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := guard(&claim); err != nil {
			return err
		}

		res := tx.Model(&entity.Part{}).
			Where("id = ? AND status = ?", partID, fromStatus).
			Updates(map[string]interface{}{
				"status":     toStatus,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}

		entry.ClaimID = part.ClaimID
		return tx.Create(entry).Error
	})
}
