package entity

import "time"

// Product equipment catalogue entry
type Product struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	SupplierID string `json:"supplier_id" gorm:"size:32;not null;index"`

	Name           string `json:"name" gorm:"size:200;not null"`
	Model          string `json:"model" gorm:"size:100"`
	Category       string `json:"category" gorm:"size:50"`
	WarrantyMonths *int   `json:"warranty_months"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Product) TableName() string {
	return "products"
}

// Customer end customer whose equipment failed
type Customer struct {
	ID string `json:"id" gorm:"primaryKey;size:32"`

	Name    string `json:"name" gorm:"size:200;not null"`
	OrgNo   string `json:"org_no" gorm:"size:32"`
	Email   string `json:"email" gorm:"size:200"`
	Phone   string `json:"phone" gorm:"size:50"`
	Address string `json:"address" gorm:"size:500"`
	Branch  string `json:"branch" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
