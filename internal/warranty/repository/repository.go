package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrStaleVersion a conditional update matched no row because another
	// writer got there first
	ErrStaleVersion = errors.New("stale version")
)

// Repositories warranty repository set
type Repositories struct {
	Claim      *ClaimRepository
	Timeline   *TimelineRepository
	Attachment *AttachmentRepository
	Part       *PartRepository
	Supplier   *SupplierRepository
	Product    *ProductRepository
	Customer   *CustomerRepository
}

// NewRepositories creates the warranty repository set
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Claim:      NewClaimRepository(db),
		Timeline:   NewTimelineRepository(db),
		Attachment: NewAttachmentRepository(db),
		Part:       NewPartRepository(db),
		Supplier:   NewSupplierRepository(db),
		Product:    NewProductRepository(db),
		Customer:   NewCustomerRepository(db),
	}
}
