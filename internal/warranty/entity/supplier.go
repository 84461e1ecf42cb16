package entity

import "time"

// Supplier equipment supplier claims are raised against
type Supplier struct {
	ID   string `json:"id" gorm:"primaryKey;size:32"`
	Code string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name string `json:"name" gorm:"size:200;not null"`

	ContactPerson string `json:"contact_person" gorm:"size:100"`
	Email         string `json:"email" gorm:"size:200"`
	Phone         string `json:"phone" gorm:"size:50"`
	Country       string `json:"country" gorm:"size:50"`
	Address       string `json:"address" gorm:"size:500"`

	// Claim handling terms
	ClaimPortalURL   string `json:"claim_portal_url" gorm:"size:300"`
	ResponseDeadline *int   `json:"response_deadline_days"`

	Status    string    `json:"status" gorm:"size:20;default:active"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// Supplier statuses
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)
