package handler

import (
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/service"
	"github.com/gin-gonic/gin"
)

// LedgerHandler attachment and part HTTP surface
type LedgerHandler struct {
	svc *service.LedgerService
}

// NewLedgerHandler creates the ledger handler
func NewLedgerHandler(svc *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// UploadAttachment POST /claims/:id/attachments (multipart)
func (h *LedgerHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "no file uploaded")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "read uploaded file: "+err.Error())
		return
	}
	defer src.Close()

	att, err := h.svc.AddAttachment(c.Request.Context(), c.Param("id"), Actor(c), src, &service.AddAttachmentRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		FileSize:    fileHeader.Size,
		Kind:        c.PostForm("kind"),
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, att)
}

// ListAttachments GET /claims/:id/attachments
func (h *LedgerHandler) ListAttachments(c *gin.Context) {
	atts, err := h.svc.ListAttachments(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, atts)
}

// RemoveAttachment DELETE /claims/:id/attachments/:attachmentId
func (h *LedgerHandler) RemoveAttachment(c *gin.Context) {
	err := h.svc.RemoveAttachment(c.Request.Context(), c.Param("id"), c.Param("attachmentId"), Actor(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// AddPart POST /claims/:id/parts
func (h *LedgerHandler) AddPart(c *gin.Context) {
	var req service.AddPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	part, err := h.svc.AddPart(c.Request.Context(), c.Param("id"), Actor(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, part)
}

// ListParts GET /claims/:id/parts
func (h *LedgerHandler) ListParts(c *gin.Context) {
	parts, err := h.svc.ListParts(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, parts)
}

type partStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePartStatus PATCH /claims/:id/parts/:partId/status
func (h *LedgerHandler) UpdatePartStatus(c *gin.Context) {
	var body partStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	part, err := h.svc.UpdatePartStatus(c.Request.Context(), c.Param("id"), c.Param("partId"), body.Status, Actor(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, part)
}
