package repository

import (
	"context"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"gorm.io/gorm"
)

// TimelineRepository append-only claim audit log. There are no update or
// delete methods; the table only ever grows.
type TimelineRepository struct {
	db *gorm.DB
}

// NewTimelineRepository creates the timeline repository
func NewTimelineRepository(db *gorm.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// Append writes one entry and returns its assigned sequence id
func (r *TimelineRepository) Append(ctx context.Context, entry *entity.TimelineEntry) (uint64, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// ListByClaim returns the complete timeline for a claim ordered by
// (created_at, id); the id breaks ties when entries share a timestamp.
func (r *TimelineRepository) ListByClaim(ctx context.Context, claimID string) ([]entity.TimelineEntry, error) {
	var entries []entity.TimelineEntry
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByClaim number of entries recorded for a claim
func (r *TimelineRepository) CountByClaim(ctx context.Context, claimID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.TimelineEntry{}).
		Where("claim_id = ?", claimID).
		Count(&count).Error
	return count, err
}
