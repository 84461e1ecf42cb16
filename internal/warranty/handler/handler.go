package handler

import (
	"errors"
	"strconv"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/repository"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/service"
	"github.com/gin-gonic/gin"
)

// Handlers warranty handler set
type Handlers struct {
	Claim    *ClaimHandler
	Ledger   *LedgerHandler
	Registry *RegistryHandler
}

// NewHandlers creates the warranty handler set
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Claim:    NewClaimHandler(svc.Claim),
		Ledger:   NewLedgerHandler(svc.Ledger),
		Registry: NewRegistryHandler(svc.Registry),
	}
}

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, code, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// Business error codes in the 409 range
const (
	CodeInvalidTransition      = 40901
	CodeClaimSealed            = 40902
	CodeConcurrentModification = 40903
	CodeSupplierInUse          = 40904
)

// HandleServiceError maps domain errors onto the response envelope with
// the violated invariant named; unknown errors become a 500.
func HandleServiceError(c *gin.Context, err error) {
	var transitionErr *service.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		Conflict(c, CodeInvalidTransition, transitionErr.Error())
	case errors.Is(err, service.ErrClaimSealed):
		Conflict(c, CodeClaimSealed, "claim is sealed; financial fields are frozen")
	case errors.Is(err, service.ErrConcurrentModification):
		Conflict(c, CodeConcurrentModification, "claim was modified concurrently; re-read and retry")
	case errors.Is(err, service.ErrSupplierHasClaims):
		Conflict(c, CodeSupplierInUse, "supplier is referenced by claims and cannot be deleted")
	case errors.Is(err, service.ErrMissingSupplier):
		BadRequest(c, "supplier could not be resolved")
	case errors.Is(err, service.ErrReferenceNotFound):
		BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "record not found")
	default:
		InternalError(c, err.Error())
	}
}

// Actor builds the acting user from the auth middleware context
func Actor(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   c.GetString("user_id"),
		Name: c.GetString("user_name"),
	}
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
