package entity

import (
	"time"

	"gorm.io/datatypes"
)

// TimelineEntry append-only audit record for one claim. Entries are never
// edited or deleted; corrections are new entries. The integer primary key
// doubles as the insertion sequence used to break creation-time ties.
type TimelineEntry struct {
	ID      uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	ClaimID string `json:"claim_id" gorm:"size:32;not null;index:idx_timeline_claim"`

	EventType   string `json:"event_type" gorm:"size:50;not null"`
	Description string `json:"description" gorm:"type:text"`
	FromStatus  string `json:"from_status" gorm:"size:32"`
	ToStatus    string `json:"to_status" gorm:"size:32"`

	Metadata datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	ActorID   string    `json:"actor_id" gorm:"size:32"`
	ActorName string    `json:"actor_name" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
}

func (TimelineEntry) TableName() string {
	return "warranty_claim_timeline"
}

// Timeline event types
const (
	TimelineEventCreated           = "created"
	TimelineEventStatusChanged     = "status_changed"
	TimelineEventNoteAdded         = "note_added"
	TimelineEventAttachmentAdded   = "attachment_added"
	TimelineEventAttachmentRemoved = "attachment_removed"
	TimelineEventPartAdded         = "part_added"
	TimelineEventPartStatusChanged = "part_status_changed"
	TimelineEventResolutionSealed  = "resolution_sealed"
	TimelineEventCancelled         = "cancelled"
)
