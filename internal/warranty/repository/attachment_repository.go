package repository

import (
	"context"
	"errors"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"gorm.io/gorm"
)

// AttachmentRepository attachment persistence
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates the attachment repository
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// FindByID loads an attachment by id
func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*entity.Attachment, error) {
	var att entity.Attachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &att, nil
}

// ListByClaim returns all attachments for a claim
func (r *AttachmentRepository) ListByClaim(ctx context.Context, claimID string) ([]entity.Attachment, error) {
	var atts []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at ASC").
		Find(&atts).Error
	if err != nil {
		return nil, err
	}
	return atts, nil
}

// CreateGuarded inserts the attachment and its timeline entry after the
// guard has approved the claim's current state. The claim is re-read
// inside the transaction so the write commits against the state it was
// validated on, not the state seen at request time.
func (r *AttachmentRepository) CreateGuarded(ctx context.Context, att *entity.Attachment, entry *entity.TimelineEntry, guard func(*entity.Claim) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claim entity.Claim
		if err := tx.Where("id = ?", att.ClaimID).First(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := guard(&claim); err != nil {
			return err
		}
		if err := tx.Create(att).Error; err != nil {
			return err
		}
		entry.ClaimID = att.ClaimID
		return tx.Create(entry).Error
	})
}

// DeleteGuarded removes an attachment after the guard has approved the
// claim's current state, appending the removal to the timeline.
func (r *AttachmentRepository) DeleteGuarded(ctx context.Context, att *entity.Attachment, entry *entity.TimelineEntry, guard func(*entity.Claim) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claim entity.Claim
		if err := tx.Where("id = ?", att.ClaimID).First(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := guard(&claim); err != nil {
			return err
		}
		if err := tx.Delete(&entity.Attachment{}, "id = ?", att.ID).Error; err != nil {
			return err
		}
		entry.ClaimID = att.ClaimID
		return tx.Create(entry).Error
	})
}
