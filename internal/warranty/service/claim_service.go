package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/repository"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/sequence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ClaimService claim store: owns claim records, enforces the status state
// machine and keeps every accepted transition atomic with its timeline
// append.
type ClaimService struct {
	claimRepo    *repository.ClaimRepository
	timelineRepo *repository.TimelineRepository
	supplierRepo *repository.SupplierRepository
	productRepo  *repository.ProductRepository
	customerRepo *repository.CustomerRepository
	numbers      *sequence.Generator
	resolution   *ResolutionEngine
	logger       *zap.Logger
}

// NewClaimService creates the claim service
func NewClaimService(
	repos *repository.Repositories,
	numbers *sequence.Generator,
	resolution *ResolutionEngine,
	logger *zap.Logger,
) *ClaimService {
	return &ClaimService{
		claimRepo:    repos.Claim,
		timelineRepo: repos.Timeline,
		supplierRepo: repos.Supplier,
		productRepo:  repos.Product,
		customerRepo: repos.Customer,
		numbers:      numbers,
		resolution:   resolution,
		logger:       logger,
	}
}

// claimTransitions allowed status moves. Cancellation is reachable from
// every state except closed and cancelled themselves.
var claimTransitions = map[string][]string{
	entity.ClaimStatusNew:               {entity.ClaimStatusInReview, entity.ClaimStatusCancelled},
	entity.ClaimStatusInReview:          {entity.ClaimStatusSubmitted, entity.ClaimStatusCancelled},
	entity.ClaimStatusSubmitted:         {entity.ClaimStatusAwaitingResponse, entity.ClaimStatusCancelled},
	entity.ClaimStatusAwaitingResponse:  {entity.ClaimStatusApproved, entity.ClaimStatusRejected, entity.ClaimStatusPartiallyApproved, entity.ClaimStatusCancelled},
	entity.ClaimStatusApproved:          {entity.ClaimStatusResolved, entity.ClaimStatusCancelled},
	entity.ClaimStatusRejected:          {entity.ClaimStatusResolved, entity.ClaimStatusCancelled},
	entity.ClaimStatusPartiallyApproved: {entity.ClaimStatusResolved, entity.ClaimStatusCancelled},
	entity.ClaimStatusResolved:          {entity.ClaimStatusClosed, entity.ClaimStatusCancelled},
	entity.ClaimStatusClosed:            {},
	entity.ClaimStatusCancelled:         {},
}

// Actor identity performing an operation, taken from the auth middleware
type Actor struct {
	ID   string
	Name string
}

// CreateClaimRequest claim intake
type CreateClaimRequest struct {
	SupplierID string  `json:"supplier_id" binding:"required"`
	ProductID  *string `json:"product_id"`
	CustomerID *string `json:"customer_id"`

	// Free-text snapshot overrides for equipment or customers that are
	// not registered reference data
	ProductName   string `json:"product_name"`
	ProductModel  string `json:"product_model"`
	SerialNumber  string `json:"serial_number"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`

	Priority           string `json:"priority"`
	Category           string `json:"category"`
	ProblemDescription string `json:"problem_description"`
}

// UpdateClaimRequest pre-submission edits. Monetary fields are not
// reachable here; they travel only in transition payloads.
type UpdateClaimRequest struct {
	Priority           *string `json:"priority"`
	Category           *string `json:"category"`
	ProblemDescription *string `json:"problem_description"`
	ProductName        *string `json:"product_name"`
	ProductModel       *string `json:"product_model"`
	SerialNumber       *string `json:"serial_number"`
	CustomerName       *string `json:"customer_name"`
	CustomerPhone      *string `json:"customer_phone"`
	CustomerEmail      *string `json:"customer_email"`
	InternalNotes      *string `json:"internal_notes"`
}

// TransitionRequest payload accompanying a transition call
type TransitionRequest struct {
	SupplierClaimNumber string           `json:"supplier_claim_number"`
	ResolutionType      string           `json:"resolution_type"`
	ResolutionNote      string           `json:"resolution_note"`
	CreditAmount        *decimal.Decimal `json:"credit_amount"`
	CreditCurrency      string           `json:"credit_currency"`
	CreditReference     string           `json:"credit_reference"`
	Reason              string           `json:"reason"`
}

// ClaimListResult claim page
type ClaimListResult struct {
	Items      []entity.Claim `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// List returns a claim page
func (s *ClaimService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*ClaimListResult, error) {
	claims, total, err := s.claimRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &ClaimListResult{
		Items:      claims,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Get loads a claim
func (s *ClaimService) Get(ctx context.Context, id string) (*entity.Claim, error) {
	claim, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find claim: %w", err)
	}
	return claim, nil
}

// GetByNumber loads a claim by its human-facing claim number
func (s *ClaimService) GetByNumber(ctx context.Context, number string) (*entity.Claim, error) {
	claim, err := s.claimRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("find claim %s: %w", number, err)
	}
	return claim, nil
}

// Create registers a new claim in status new. The supplier must resolve
// in the reference registry at call time; product and customer references
// are optional but must resolve when given. Display fields are copied
// onto the claim so its history survives later reference-data edits.
func (s *ClaimService) Create(ctx context.Context, actor Actor, req *CreateClaimRequest) (*entity.Claim, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMissingSupplier
		}
		return nil, fmt.Errorf("resolve supplier: %w", err)
	}

	claim := &entity.Claim{
		ID:         uuid.New().String()[:32],
		Status:     entity.ClaimStatusNew,
		Priority:   entity.ClaimPriorityMedium,
		Category:   req.Category,
		SupplierID: supplier.ID,

		SupplierName:  supplier.Name,
		ProductName:   req.ProductName,
		ProductModel:  req.ProductModel,
		SerialNumber:  req.SerialNumber,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,

		ProblemDescription: req.ProblemDescription,
		CreatedBy:          actor.ID,
	}
	if req.Priority != "" {
		claim.Priority = req.Priority
	}

	if req.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *req.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("product %s: %w", *req.ProductID, ErrReferenceNotFound)
			}
			return nil, fmt.Errorf("resolve product: %w", err)
		}
		claim.ProductID = &product.ID
		if claim.ProductName == "" {
			claim.ProductName = product.Name
		}
		if claim.ProductModel == "" {
			claim.ProductModel = product.Model
		}
	}

	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("customer %s: %w", *req.CustomerID, ErrReferenceNotFound)
			}
			return nil, fmt.Errorf("resolve customer: %w", err)
		}
		claim.CustomerID = &customer.ID
		if claim.CustomerName == "" {
			claim.CustomerName = customer.Name
		}
		if claim.CustomerPhone == "" {
			claim.CustomerPhone = customer.Phone
		}
		if claim.CustomerEmail == "" {
			claim.CustomerEmail = customer.Email
		}
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, err
	}
	claim.ClaimNumber = number

	entry := &entity.TimelineEntry{
		EventType:   entity.TimelineEventCreated,
		Description: fmt.Sprintf("Claim %s registered against %s", claim.ClaimNumber, claim.SupplierName),
		ToStatus:    entity.ClaimStatusNew,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}

	if err := s.claimRepo.CreateWithTimeline(ctx, claim, entry); err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}

	s.logger.Info("claim created",
		zap.String("claim_id", claim.ID),
		zap.String("claim_number", claim.ClaimNumber),
		zap.String("supplier_id", claim.SupplierID),
	)

	return s.claimRepo.FindByID(ctx, claim.ID)
}

// Update edits the mutable intake fields of a claim. Rejected once the
// claim has reached a terminal state.
func (s *ClaimService) Update(ctx context.Context, id string, actor Actor, req *UpdateClaimRequest) (*entity.Claim, error) {
	claim, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find claim: %w", err)
	}
	if claim.IsTerminal() {
		return nil, invalidTransition(claim.Status, claim.Status, "claim is in a terminal state")
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("priority", req.Priority)
	set("category", req.Category)
	set("problem_description", req.ProblemDescription)
	set("product_name", req.ProductName)
	set("product_model", req.ProductModel)
	set("serial_number", req.SerialNumber)
	set("customer_name", req.CustomerName)
	set("customer_phone", req.CustomerPhone)
	set("customer_email", req.CustomerEmail)
	set("internal_notes", req.InternalNotes)

	if _, err := s.claimRepo.ApplyTransition(ctx, claim.ID, claim.Version, updates); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("update claim: %w", err)
	}

	return s.claimRepo.FindByID(ctx, id)
}

// Transition requests a status move. Every accepted transition is written
// in the same transaction as its timeline entry; on any precondition
// failure the claim is left untouched. A race between two transitions
// from the same state has exactly one winner, the loser gets
// ErrConcurrentModification.
func (s *ClaimService) Transition(ctx context.Context, claimID, target string, payload *TransitionRequest, actor Actor) (*entity.Claim, error) {
	if payload == nil {
		payload = &TransitionRequest{}
	}

	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("find claim: %w", err)
	}

	if !transitionAllowed(claim.Status, target) {
		return nil, invalidTransition(claim.Status, target, "not reachable from current status")
	}

	now := time.Now()
	updates := map[string]interface{}{"status": target, "updated_at": now}
	entries := make([]*entity.TimelineEntry, 0, 2)

	switch target {
	case entity.ClaimStatusInReview:
		if claim.ProductID == nil && claim.ProductName == "" {
			return nil, invalidTransition(claim.Status, target, "product reference or product description required")
		}

	case entity.ClaimStatusSubmitted:
		if claim.ProblemDescription == "" {
			return nil, invalidTransition(claim.Status, target, "problem description required")
		}
		updates["submitted_at"] = now

	case entity.ClaimStatusAwaitingResponse:
		if payload.SupplierClaimNumber != "" {
			updates["supplier_claim_number"] = payload.SupplierClaimNumber
		}

	case entity.ClaimStatusApproved, entity.ClaimStatusRejected, entity.ClaimStatusPartiallyApproved:
		if payload.ResolutionNote == "" {
			return nil, invalidTransition(claim.Status, target, "resolution narrative required")
		}
		if target == entity.ClaimStatusRejected {
			if payload.CreditAmount != nil && !payload.CreditAmount.IsZero() {
				return nil, invalidTransition(claim.Status, target, "rejected claims cannot carry a credit amount")
			}
		} else {
			if payload.CreditAmount == nil {
				return nil, invalidTransition(claim.Status, target, "credit amount required")
			}
			if payload.CreditAmount.IsNegative() {
				return nil, invalidTransition(claim.Status, target, "credit amount must be non-negative")
			}
			updates["credit_amount"] = *payload.CreditAmount
			if payload.CreditCurrency != "" {
				updates["credit_currency"] = payload.CreditCurrency
			}
			if payload.CreditReference != "" {
				updates["credit_reference"] = payload.CreditReference
			}
		}
		updates["supplier_responded_at"] = now
		updates["resolution_note"] = payload.ResolutionNote
		if payload.ResolutionType != "" {
			updates["resolution_type"] = payload.ResolutionType
		}

	case entity.ClaimStatusResolved:
		sealUpdates, sealEntry, err := s.resolution.Seal(claim, payload, actor, now)
		if err != nil {
			return nil, err
		}
		for k, v := range sealUpdates {
			updates[k] = v
		}
		entries = append(entries, sealEntry)

	case entity.ClaimStatusClosed:
		updates["closed_at"] = now

	case entity.ClaimStatusCancelled:
		if payload.Reason == "" {
			return nil, invalidTransition(claim.Status, target, "cancellation reason required")
		}
		entries = append(entries, &entity.TimelineEntry{
			EventType:   entity.TimelineEventCancelled,
			Description: payload.Reason,
			FromStatus:  claim.Status,
			ToStatus:    entity.ClaimStatusCancelled,
			ActorID:     actor.ID,
			ActorName:   actor.Name,
		})
	}

	// The status change itself always lands on the timeline, first
	entries = append([]*entity.TimelineEntry{{
		EventType:   entity.TimelineEventStatusChanged,
		Description: fmt.Sprintf("Status changed from %s to %s", claim.Status, target),
		FromStatus:  claim.Status,
		ToStatus:    target,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}}, entries...)

	if _, err := s.claimRepo.ApplyTransition(ctx, claim.ID, claim.Version, updates, entries...); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("apply transition: %w", err)
	}

	s.logger.Info("claim transitioned",
		zap.String("claim_id", claim.ID),
		zap.String("claim_number", claim.ClaimNumber),
		zap.String("from", claim.Status),
		zap.String("to", target),
		zap.String("actor", actor.ID),
	)

	return s.claimRepo.FindByID(ctx, claim.ID)
}

// AddNote appends a manual annotation to the claim timeline. Allowed in
// every status; the timeline stays writable for notes after sealing.
func (s *ClaimService) AddNote(ctx context.Context, claimID, text string, actor Actor) (uint64, error) {
	if _, err := s.claimRepo.FindByID(ctx, claimID); err != nil {
		return 0, fmt.Errorf("find claim: %w", err)
	}
	seq, err := s.timelineRepo.Append(ctx, &entity.TimelineEntry{
		ClaimID:     claimID,
		EventType:   entity.TimelineEventNoteAdded,
		Description: text,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	})
	if err != nil {
		return 0, fmt.Errorf("append note: %w", err)
	}
	return seq, nil
}

// Timeline returns the complete ordered audit trail of a claim together
// with its entry count
func (s *ClaimService) Timeline(ctx context.Context, claimID string) ([]entity.TimelineEntry, int64, error) {
	if _, err := s.claimRepo.FindByID(ctx, claimID); err != nil {
		return nil, 0, fmt.Errorf("find claim: %w", err)
	}
	entries, err := s.timelineRepo.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.timelineRepo.CountByClaim(ctx, claimID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func transitionAllowed(from, to string) bool {
	for _, target := range claimTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}
