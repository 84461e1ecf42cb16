package repository

import (
	"context"
	"errors"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"gorm.io/gorm"
)

// CustomerRepository customer reference data
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates the customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID loads a customer by id
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// List returns a customer page
func (r *CustomerRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{})

	if branch, ok := filters["branch"]; ok {
		query = query.Where("branch = ?", branch)
	}
	if name, ok := filters["name"]; ok {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+name.(string)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// Create inserts a customer
func (r *CustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update saves a customer
func (r *CustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}
