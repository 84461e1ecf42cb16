package handler

import (
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/service"
	"github.com/gin-gonic/gin"
)

// RegistryHandler reference registry HTTP surface
type RegistryHandler struct {
	svc *service.RegistryService
}

// NewRegistryHandler creates the registry handler
func NewRegistryHandler(svc *service.RegistryService) *RegistryHandler {
	return &RegistryHandler{svc: svc}
}

// ListSuppliers GET /suppliers
func (h *RegistryHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}

	suppliers, total, err := h.svc.ListSuppliers(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, ListResponse{
		Items: suppliers,
		Pagination: &Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    int(total),
		},
	})
}

// GetSupplier GET /suppliers/:id
func (h *RegistryHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.svc.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, supplier)
}

// CreateSupplier POST /suppliers
func (h *RegistryHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, supplier)
}

// UpdateSupplier PATCH /suppliers/:id
func (h *RegistryHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.UpdateSupplier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, supplier)
}

// DeleteSupplier DELETE /suppliers/:id
func (h *RegistryHandler) DeleteSupplier(c *gin.Context) {
	if err := h.svc.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// ListSupplierProducts GET /suppliers/:id/products
func (h *RegistryHandler) ListSupplierProducts(c *gin.Context) {
	products, err := h.svc.ListProductsBySupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, products)
}

// CreateProduct POST /products
func (h *RegistryHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, product)
}

// GetProduct GET /products/:id
func (h *RegistryHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, product)
}

// CreateCustomer POST /customers
func (h *RegistryHandler) CreateCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	customer, err := h.svc.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, customer)
}

// GetCustomer GET /customers/:id
func (h *RegistryHandler) GetCustomer(c *gin.Context) {
	customer, err := h.svc.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, customer)
}

// ListCustomers GET /customers
func (h *RegistryHandler) ListCustomers(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := make(map[string]interface{})
	if branch := c.Query("branch"); branch != "" {
		filters["branch"] = branch
	}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}

	customers, total, err := h.svc.ListCustomers(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, ListResponse{
		Items: customers,
		Pagination: &Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    int(total),
		},
	})
}
