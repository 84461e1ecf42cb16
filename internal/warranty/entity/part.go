package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part replacement part requested under a claim. Carries its own status
// lifecycle, independent of the claim's status until the claim seals.
type Part struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	ClaimID string `json:"claim_id" gorm:"size:32;not null;index"`

	PartNumber  string `json:"part_number" gorm:"size:64;not null"`
	Description string `json:"description" gorm:"size:500"`
	Quantity    int    `json:"quantity" gorm:"not null;default:1"`

	UnitPrice *decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2)"`
	Currency  string           `json:"currency" gorm:"size:10;default:NOK"`

	Status string `json:"status" gorm:"size:20;not null;default:pending"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Part) TableName() string {
	return "warranty_claim_parts"
}

// Part statuses
const (
	PartStatusPending   = "pending"
	PartStatusOrdered   = "ordered"
	PartStatusReceived  = "received"
	PartStatusInstalled = "installed"
	PartStatusCancelled = "cancelled"
)

// PartStatusTransitions allowed part status moves. Cancellation is
// reachable from every non-terminal part state.
var PartStatusTransitions = map[string][]string{
	PartStatusPending:  {PartStatusOrdered, PartStatusCancelled},
	PartStatusOrdered:  {PartStatusReceived, PartStatusCancelled},
	PartStatusReceived: {PartStatusInstalled, PartStatusCancelled},
}
