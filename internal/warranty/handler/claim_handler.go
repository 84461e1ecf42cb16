package handler

import (
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/service"
	"github.com/gin-gonic/gin"
)

// ClaimHandler claim HTTP surface
type ClaimHandler struct {
	svc *service.ClaimService
}

// NewClaimHandler creates the claim handler
func NewClaimHandler(svc *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

// List GET /claims
func (h *ClaimHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		filters["supplier_id"] = supplierID
	}
	if priority := c.Query("priority"); priority != "" {
		filters["priority"] = priority
	}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, ListResponse{
		Items: result.Items,
		Pagination: &Pagination{
			Page:       result.Page,
			PageSize:   result.PageSize,
			Total:      int(result.Total),
			TotalPages: result.TotalPages,
		},
	})
}

// Get GET /claims/:id
func (h *ClaimHandler) Get(c *gin.Context) {
	claim, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, claim)
}

// GetByNumber GET /claims/by-number/:number
func (h *ClaimHandler) GetByNumber(c *gin.Context) {
	claim, err := h.svc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, claim)
}

// Create POST /claims
func (h *ClaimHandler) Create(c *gin.Context) {
	var req service.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	claim, err := h.svc.Create(c.Request.Context(), Actor(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, claim)
}

// Update PATCH /claims/:id
func (h *ClaimHandler) Update(c *gin.Context) {
	var req service.UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	claim, err := h.svc.Update(c.Request.Context(), c.Param("id"), Actor(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, claim)
}

type transitionBody struct {
	Target  string                     `json:"target" binding:"required"`
	Payload *service.TransitionRequest `json:"payload"`
}

// Transition POST /claims/:id/transition
func (h *ClaimHandler) Transition(c *gin.Context) {
	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	claim, err := h.svc.Transition(c.Request.Context(), c.Param("id"), body.Target, body.Payload, Actor(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, claim)
}

type noteBody struct {
	Text string `json:"text" binding:"required"`
}

// AddNote POST /claims/:id/notes
func (h *ClaimHandler) AddNote(c *gin.Context) {
	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	seq, err := h.svc.AddNote(c.Request.Context(), c.Param("id"), body.Text, Actor(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, gin.H{"sequence": seq})
}

// Timeline GET /claims/:id/timeline
func (h *ClaimHandler) Timeline(c *gin.Context) {
	entries, total, err := h.svc.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"entries": entries, "total": total})
}
