package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim warranty claim against a supplier for defective equipment
type Claim struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	ClaimNumber string `json:"claim_number" gorm:"size:32;not null;uniqueIndex"`
	Status      string `json:"status" gorm:"size:32;not null;default:new;index"`
	Priority    string `json:"priority" gorm:"size:16;not null;default:medium"`
	Category    string `json:"category" gorm:"size:50"`

	// References (weak; display data lives in the snapshot fields below)
	SupplierID string  `json:"supplier_id" gorm:"size:32;not null;index"`
	ProductID  *string `json:"product_id" gorm:"size:32"`
	CustomerID *string `json:"customer_id" gorm:"size:32"`

	// Snapshot fields copied at creation time so claim history survives
	// later edits to the reference data
	SupplierName  string `json:"supplier_name" gorm:"size:200;not null"`
	ProductName   string `json:"product_name" gorm:"size:200"`
	ProductModel  string `json:"product_model" gorm:"size:100"`
	SerialNumber  string `json:"serial_number" gorm:"size:100"`
	CustomerName  string `json:"customer_name" gorm:"size:200"`
	CustomerPhone string `json:"customer_phone" gorm:"size:50"`
	CustomerEmail string `json:"customer_email" gorm:"size:200"`

	ProblemDescription  string `json:"problem_description" gorm:"type:text"`
	InternalNotes       string `json:"internal_notes" gorm:"type:text"`
	SupplierClaimNumber string `json:"supplier_claim_number" gorm:"size:64"`

	// Resolution outcome, immutable once sealed
	ResolutionType  string           `json:"resolution_type" gorm:"size:32"`
	ResolutionNote  string           `json:"resolution_note" gorm:"type:text"`
	CreditAmount    *decimal.Decimal `json:"credit_amount" gorm:"type:decimal(15,2)"`
	CreditCurrency  string           `json:"credit_currency" gorm:"size:10"`
	CreditReference string           `json:"credit_reference" gorm:"size:100"`
	SealedAt        *time.Time       `json:"sealed_at"`

	// Lifecycle timestamps
	SubmittedAt         *time.Time `json:"submitted_at"`
	SupplierRespondedAt *time.Time `json:"supplier_responded_at"`
	ResolvedAt          *time.Time `json:"resolved_at"`
	ClosedAt            *time.Time `json:"closed_at"`

	// Optimistic concurrency; bumped on every accepted transition
	Version int `json:"version" gorm:"not null;default:0"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Supplier    *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Timeline    []TimelineEntry `json:"timeline,omitempty" gorm:"foreignKey:ClaimID"`
	Attachments []Attachment    `json:"attachments,omitempty" gorm:"foreignKey:ClaimID"`
	Parts       []Part          `json:"parts,omitempty" gorm:"foreignKey:ClaimID"`
}

func (Claim) TableName() string {
	return "warranty_claims"
}

// Claim statuses
const (
	ClaimStatusNew               = "new"
	ClaimStatusInReview          = "in_review"
	ClaimStatusSubmitted         = "submitted_to_supplier"
	ClaimStatusAwaitingResponse  = "awaiting_response"
	ClaimStatusApproved          = "approved"
	ClaimStatusRejected          = "rejected"
	ClaimStatusPartiallyApproved = "partial"
	ClaimStatusResolved          = "resolved"
	ClaimStatusClosed            = "closed"
	ClaimStatusCancelled         = "cancelled"
)

// Claim priorities
const (
	ClaimPriorityLow      = "low"
	ClaimPriorityMedium   = "medium"
	ClaimPriorityHigh     = "high"
	ClaimPriorityCritical = "critical"
)

// Resolution types
const (
	ResolutionTypeCredit      = "credit_note"
	ResolutionTypeReplacement = "replacement"
	ResolutionTypeRepair      = "repair"
	ResolutionTypeNone        = "none"
)

// IsTerminal reports whether no further transitions are accepted from the status.
func (c *Claim) IsTerminal() bool {
	return c.Status == ClaimStatusClosed || c.Status == ClaimStatusCancelled
}

// IsSealed reports whether the financial outcome has been frozen.
func (c *Claim) IsSealed() bool {
	return c.SealedAt != nil || c.Status == ClaimStatusResolved || c.Status == ClaimStatusClosed
}
