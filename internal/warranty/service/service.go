package service

import (
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/repository"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/sequence"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services warranty service set
type Services struct {
	Claim    *ClaimService
	Ledger   *LedgerService
	Registry *RegistryService
}

// Options external collaborators handed to the services. MinioClient and
// RedisClient may be nil (tests, degraded mode); the services fall back
// gracefully.
type Options struct {
	MinioClient  *minio.Client
	MinioBucket  string
	RedisClient  *redis.Client
	NumberPrefix string
	BaseCurrency string
}

// NewServices wires the warranty services
func NewServices(db *gorm.DB, repos *repository.Repositories, opts Options, logger *zap.Logger) *Services {
	if opts.NumberPrefix == "" {
		opts.NumberPrefix = "RK"
	}
	if opts.BaseCurrency == "" {
		opts.BaseCurrency = "NOK"
	}

	numbers := sequence.NewGenerator(db, opts.NumberPrefix)
	resolution := NewResolutionEngine(opts.BaseCurrency)

	return &Services{
		Claim:    NewClaimService(repos, numbers, resolution, logger),
		Ledger:   NewLedgerService(repos, opts.MinioClient, opts.MinioBucket, logger),
		Registry: NewRegistryService(repos, opts.RedisClient),
	}
}
