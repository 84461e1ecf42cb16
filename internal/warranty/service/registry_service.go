package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const supplierCacheTTL = 10 * time.Minute

// RegistryService reference registry: suppliers, products and customers
// that claims attach to. Claims only hold weak references here; editing
// or removing registry rows never rewrites claim history.
type RegistryService struct {
	supplierRepo *repository.SupplierRepository
	productRepo  *repository.ProductRepository
	customerRepo *repository.CustomerRepository
	claimRepo    *repository.ClaimRepository
	rdb          *redis.Client
}

// NewRegistryService creates the registry service. rdb may be nil; the
// supplier cache is then skipped.
func NewRegistryService(repos *repository.Repositories, rdb *redis.Client) *RegistryService {
	return &RegistryService{
		supplierRepo: repos.Supplier,
		productRepo:  repos.Product,
		customerRepo: repos.Customer,
		claimRepo:    repos.Claim,
		rdb:          rdb,
	}
}

// CreateSupplierRequest supplier registration
type CreateSupplierRequest struct {
	Code             string `json:"code" binding:"required"`
	Name             string `json:"name" binding:"required"`
	ContactPerson    string `json:"contact_person"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Country          string `json:"country"`
	Address          string `json:"address"`
	ClaimPortalURL   string `json:"claim_portal_url"`
	ResponseDeadline *int   `json:"response_deadline_days"`
	Notes            string `json:"notes"`
}

// UpdateSupplierRequest supplier edits
type UpdateSupplierRequest struct {
	Name             *string `json:"name"`
	ContactPerson    *string `json:"contact_person"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	Country          *string `json:"country"`
	Address          *string `json:"address"`
	ClaimPortalURL   *string `json:"claim_portal_url"`
	ResponseDeadline *int    `json:"response_deadline_days"`
	Status           *string `json:"status"`
	Notes            *string `json:"notes"`
}

func supplierCacheKey(id string) string {
	return "warranty:supplier:" + id
}

// GetSupplier loads a supplier, read-through cached
func (s *RegistryService) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, supplierCacheKey(id)).Bytes(); err == nil {
			var supplier entity.Supplier
			if json.Unmarshal(raw, &supplier) == nil {
				return &supplier, nil
			}
		}
	}

	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find supplier: %w", err)
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(supplier); err == nil {
			s.rdb.Set(ctx, supplierCacheKey(id), raw, supplierCacheTTL)
		}
	}
	return supplier, nil
}

// ListSuppliers returns a supplier page
func (s *RegistryService) ListSuppliers(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Supplier, int64, error) {
	return s.supplierRepo.List(ctx, page, pageSize, filters)
}

// CreateSupplier registers a supplier
func (s *RegistryService) CreateSupplier(ctx context.Context, req *CreateSupplierRequest) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		ID:               uuid.New().String()[:32],
		Code:             req.Code,
		Name:             req.Name,
		ContactPerson:    req.ContactPerson,
		Email:            req.Email,
		Phone:            req.Phone,
		Country:          req.Country,
		Address:          req.Address,
		ClaimPortalURL:   req.ClaimPortalURL,
		ResponseDeadline: req.ResponseDeadline,
		Status:           entity.SupplierStatusActive,
		Notes:            req.Notes,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

// UpdateSupplier edits a supplier and drops its cache entry. Claims that
// already snapshot this supplier keep their historical display fields.
func (s *RegistryService) UpdateSupplier(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find supplier: %w", err)
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.ClaimPortalURL != nil {
		supplier.ClaimPortalURL = *req.ClaimPortalURL
	}
	if req.ResponseDeadline != nil {
		supplier.ResponseDeadline = req.ResponseDeadline
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, supplierCacheKey(id))
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier that no claim references. Suppliers
// with claim history keep their row so claim snapshots stay resolvable;
// set their status to inactive instead.
func (s *RegistryService) DeleteSupplier(ctx context.Context, id string) error {
	count, err := s.claimRepo.CountBySupplier(ctx, id)
	if err != nil {
		return fmt.Errorf("count supplier claims: %w", err)
	}
	if count > 0 {
		return ErrSupplierHasClaims
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, supplierCacheKey(id))
	}
	return nil
}

// CreateProductRequest product registration
type CreateProductRequest struct {
	SupplierID     string `json:"supplier_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Model          string `json:"model"`
	Category       string `json:"category"`
	WarrantyMonths *int   `json:"warranty_months"`
}

// CreateProduct registers a product under an existing supplier
func (s *RegistryService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*entity.Product, error) {
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, ErrMissingSupplier
	}

	product := &entity.Product{
		ID:             uuid.New().String()[:32],
		SupplierID:     req.SupplierID,
		Name:           req.Name,
		Model:          req.Model,
		Category:       req.Category,
		WarrantyMonths: req.WarrantyMonths,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// GetProduct loads a product
func (s *RegistryService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProductsBySupplier returns the products of one supplier
func (s *RegistryService) ListProductsBySupplier(ctx context.Context, supplierID string) ([]entity.Product, error) {
	return s.productRepo.ListBySupplier(ctx, supplierID)
}

// CreateCustomerRequest customer registration
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	OrgNo   string `json:"org_no"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Branch  string `json:"branch"`
}

// CreateCustomer registers a customer
func (s *RegistryService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*entity.Customer, error) {
	customer := &entity.Customer{
		ID:      uuid.New().String()[:32],
		Name:    req.Name,
		OrgNo:   req.OrgNo,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Branch:  req.Branch,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

// GetCustomer loads a customer
func (s *RegistryService) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

// ListCustomers returns a customer page
func (s *RegistryService) ListCustomers(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, page, pageSize, filters)
}
