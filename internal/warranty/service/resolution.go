package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ResolutionEngine validates and freezes the financial outcome of a claim
// on its transition into resolved. Sealing happens exactly once; after it,
// credit amount, currency and reference are immutable for the life of the
// record.
type ResolutionEngine struct {
	baseCurrency string
}

// NewResolutionEngine creates the engine with the organization's base
// currency, used when a credit amount arrives without one.
func NewResolutionEngine(baseCurrency string) *ResolutionEngine {
	return &ResolutionEngine{baseCurrency: baseCurrency}
}

// Seal computes the column updates and the summary timeline entry for the
// financial freeze. Runs inside the transition's transaction via the
// returned updates; it never writes itself.
func (e *ResolutionEngine) Seal(claim *entity.Claim, payload *TransitionRequest, actor Actor, now time.Time) (map[string]interface{}, *entity.TimelineEntry, error) {
	if claim.SealedAt != nil {
		return nil, nil, ErrClaimSealed
	}

	amount := claim.CreditAmount
	if payload.CreditAmount != nil {
		amount = payload.CreditAmount
	}
	if amount == nil {
		// Rejected claims resolve with a zero credit
		zero := decimal.Zero
		amount = &zero
	}
	if amount.IsNegative() {
		return nil, nil, invalidTransition(claim.Status, entity.ClaimStatusResolved, "credit amount must be non-negative")
	}
	if claim.Status == entity.ClaimStatusRejected && !amount.IsZero() {
		return nil, nil, invalidTransition(claim.Status, entity.ClaimStatusResolved, "rejected claims resolve with a zero credit")
	}

	currency := claim.CreditCurrency
	if payload.CreditCurrency != "" {
		currency = payload.CreditCurrency
	}
	if currency == "" {
		currency = e.baseCurrency
	}

	reference := claim.CreditReference
	if payload.CreditReference != "" {
		reference = payload.CreditReference
	}

	resolutionType := claim.ResolutionType
	if payload.ResolutionType != "" {
		resolutionType = payload.ResolutionType
	}
	if resolutionType == "" {
		if amount.IsZero() {
			resolutionType = entity.ResolutionTypeNone
		} else {
			resolutionType = entity.ResolutionTypeCredit
		}
	}

	updates := map[string]interface{}{
		"resolution_type":  resolutionType,
		"credit_amount":    *amount,
		"credit_currency":  currency,
		"credit_reference": reference,
		"resolved_at":      now,
		"sealed_at":        now,
	}
	if payload.ResolutionNote != "" {
		updates["resolution_note"] = payload.ResolutionNote
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"resolution_type":  resolutionType,
		"credit_amount":    amount.String(),
		"credit_currency":  currency,
		"credit_reference": reference,
	})

	entry := &entity.TimelineEntry{
		EventType:   entity.TimelineEventResolutionSealed,
		Description: fmt.Sprintf("Financial outcome sealed: %s %s (%s)", amount.StringFixed(2), currency, resolutionType),
		Metadata:    datatypes.JSON(metadata),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}

	return updates, entry, nil
}
