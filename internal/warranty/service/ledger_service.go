package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService attachment and replacement-part ledger. Both sub-entities
// hang off a claim with their own lifecycles; all writes re-validate the
// claim's sealed state inside the transaction that performs them, so a
// late write cannot slip in after sealing.
type LedgerService struct {
	attachmentRepo *repository.AttachmentRepository
	partRepo       *repository.PartRepository
	claimRepo      *repository.ClaimRepository

	minioClient *minio.Client
	bucketName  string
	logger      *zap.Logger
}

// NewLedgerService creates the ledger service. minioClient may be nil in
// tests; metadata is then recorded without a blob upload.
func NewLedgerService(repos *repository.Repositories, minioClient *minio.Client, bucketName string, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		attachmentRepo: repos.Attachment,
		partRepo:       repos.Part,
		claimRepo:      repos.Claim,
		minioClient:    minioClient,
		bucketName:     bucketName,
		logger:         logger,
	}
}

// AddAttachmentRequest attachment upload metadata
type AddAttachmentRequest struct {
	FileName    string
	ContentType string
	FileSize    int64
	Kind        string
}

// AddPartRequest replacement part registration
type AddPartRequest struct {
	PartNumber  string           `json:"part_number" binding:"required"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Currency    string           `json:"currency"`
}

// guardUnsealed rejects writes once the claim is resolved or closed
func guardUnsealed(claim *entity.Claim) error {
	if claim.IsSealed() {
		return ErrClaimSealed
	}
	return nil
}

// guardAttachment permits supplementary documentation after sealing; all
// other kinds freeze with the claim. Informational additions survive,
// financial-impacting ones do not.
func guardAttachment(kind string) func(*entity.Claim) error {
	return func(claim *entity.Claim) error {
		if claim.IsSealed() && kind != entity.AttachmentKindSupplementary {
			return ErrClaimSealed
		}
		return nil
	}
}

// AddAttachment streams the file to the blob store and records it on the
// claim, appending a timeline entry in the same transaction as the
// metadata write.
func (s *LedgerService) AddAttachment(ctx context.Context, claimID string, actor Actor, reader io.Reader, req *AddAttachmentRequest) (*entity.Attachment, error) {
	kind := req.Kind
	if kind == "" {
		kind = entity.AttachmentKindDocument
	}

	id := uuid.New().String()[:32]
	objectName := fmt.Sprintf("claims/%s/%s%s", claimID, id, filepath.Ext(req.FileName))

	if s.minioClient != nil {
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, req.FileSize, minio.PutObjectOptions{
			ContentType: req.ContentType,
		})
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
	}

	att := &entity.Attachment{
		ID:          id,
		ClaimID:     claimID,
		Kind:        kind,
		FileName:    req.FileName,
		FilePath:    objectName,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		UploadedBy:  actor.ID,
	}

	entry := &entity.TimelineEntry{
		EventType:   entity.TimelineEventAttachmentAdded,
		Description: fmt.Sprintf("Attachment %s added (%s)", req.FileName, kind),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}

	if err := s.attachmentRepo.CreateGuarded(ctx, att, entry, guardAttachment(kind)); err != nil {
		// The blob is orphaned on a rejected write; clean it up best effort
		if s.minioClient != nil {
			s.minioClient.RemoveObject(context.Background(), s.bucketName, objectName, minio.RemoveObjectOptions{})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("find claim: %w", err)
		}
		return nil, err
	}

	return att, nil
}

// RemoveAttachment deletes an attachment record. Blocked once the claim
// is sealed; the blob itself is kept for audit.
func (s *LedgerService) RemoveAttachment(ctx context.Context, claimID, attachmentID string, actor Actor) error {
	att, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return fmt.Errorf("find attachment: %w", err)
	}
	if att.ClaimID != claimID {
		return repository.ErrNotFound
	}

	entry := &entity.TimelineEntry{
		EventType:   entity.TimelineEventAttachmentRemoved,
		Description: fmt.Sprintf("Attachment %s removed", att.FileName),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}

	return s.attachmentRepo.DeleteGuarded(ctx, att, entry, guardUnsealed)
}

// ListAttachments returns the attachments of a claim; readable in every
// claim status including after sealing.
func (s *LedgerService) ListAttachments(ctx context.Context, claimID string) ([]entity.Attachment, error) {
	return s.attachmentRepo.ListByClaim(ctx, claimID)
}

// AddPart registers a replacement part request on an unsealed claim
func (s *LedgerService) AddPart(ctx context.Context, claimID string, actor Actor, req *AddPartRequest) (*entity.Part, error) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	currency := req.Currency
	if currency == "" {
		currency = "NOK"
	}

	part := &entity.Part{
		ID:          uuid.New().String()[:32],
		ClaimID:     claimID,
		PartNumber:  req.PartNumber,
		Description: req.Description,
		Quantity:    quantity,
		UnitPrice:   req.UnitPrice,
		Currency:    currency,
		Status:      entity.PartStatusPending,
		CreatedBy:   actor.ID,
	}

	entry := &entity.TimelineEntry{
		EventType:   entity.TimelineEventPartAdded,
		Description: fmt.Sprintf("Part %s x%d requested", req.PartNumber, quantity),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}

	if err := s.partRepo.CreateGuarded(ctx, part, entry, guardUnsealed); err != nil {
		return nil, err
	}
	return part, nil
}

// UpdatePartStatus moves a part through its own lifecycle
// pending -> ordered -> received -> installed, or cancelled from any
// non-terminal part state. Part writes freeze entirely once the claim
// seals.
func (s *LedgerService) UpdatePartStatus(ctx context.Context, claimID, partID, target string, actor Actor) (*entity.Part, error) {
	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("find part: %w", err)
	}
	if part.ClaimID != claimID {
		return nil, repository.ErrNotFound
	}

	if !partTransitionAllowed(part.Status, target) {
		return nil, invalidTransition(part.Status, target, "part status not reachable from current status")
	}

	entry := &entity.TimelineEntry{
		EventType:   entity.TimelineEventPartStatusChanged,
		Description: fmt.Sprintf("Part %s moved from %s to %s", part.PartNumber, part.Status, target),
		FromStatus:  part.Status,
		ToStatus:    target,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
	}

	err = s.partRepo.UpdateStatusGuarded(ctx, partID, part.Status, target, entry, guardUnsealed)
	if err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}

	s.logger.Info("part status changed",
		zap.String("claim_id", claimID),
		zap.String("part_id", partID),
		zap.String("from", part.Status),
		zap.String("to", target),
	)

	return s.partRepo.FindByID(ctx, partID)
}

// ListParts returns the parts of a claim
func (s *LedgerService) ListParts(ctx context.Context, claimID string) ([]entity.Part, error) {
	return s.partRepo.ListByClaim(ctx, claimID)
}

func partTransitionAllowed(from, to string) bool {
	for _, target := range entity.PartStatusTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}
