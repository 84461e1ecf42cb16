package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/config"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/middleware"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/entity"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/handler"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/repository"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/sequence"
	"github.com/Chriisy/Myhrvoldgruppen-sub001/internal/warranty/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting warranty service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Supplier{},
		&entity.Product{},
		&entity.Customer{},
		&entity.Claim{},
		&entity.TimelineEntry{},
		&entity.Attachment{},
		&entity.Part{},
		&sequence.Counter{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	minioClient, err := initMinio(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("MinIO unavailable, attachments will be metadata-only", zap.Error(err))
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, service.Options{
		MinioClient:  minioClient,
		MinioBucket:  cfg.MinIO.Bucket,
		RedisClient:  rdb,
		NumberPrefix: cfg.Warranty.NumberPrefix,
		BaseCurrency: cfg.Warranty.BaseCurrency,
	}, zapLogger)
	handlers := handler.NewHandlers(services)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(zapLogger))
	r.Use(middleware.CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(r, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	api := r.Group("/api/v1", middleware.JWTAuth(cfg.JWT.Secret))

	// Reference registry
	api.GET("/suppliers", h.Registry.ListSuppliers)
	api.POST("/suppliers", h.Registry.CreateSupplier)
	api.GET("/suppliers/:id", h.Registry.GetSupplier)
	api.PATCH("/suppliers/:id", h.Registry.UpdateSupplier)
	api.DELETE("/suppliers/:id", h.Registry.DeleteSupplier)
	api.GET("/suppliers/:id/products", h.Registry.ListSupplierProducts)
	api.POST("/products", h.Registry.CreateProduct)
	api.GET("/products/:id", h.Registry.GetProduct)
	api.GET("/customers", h.Registry.ListCustomers)
	api.POST("/customers", h.Registry.CreateCustomer)
	api.GET("/customers/:id", h.Registry.GetCustomer)

	// Claims
	api.GET("/claims", h.Claim.List)
	api.POST("/claims", h.Claim.Create)
	api.GET("/claims/by-number/:number", h.Claim.GetByNumber)
	api.GET("/claims/:id", h.Claim.Get)
	api.PATCH("/claims/:id", h.Claim.Update)
	api.POST("/claims/:id/transition", h.Claim.Transition)
	api.POST("/claims/:id/notes", h.Claim.AddNote)
	api.GET("/claims/:id/timeline", h.Claim.Timeline)

	// Attachment ledger
	api.POST("/claims/:id/attachments", h.Ledger.UploadAttachment)
	api.GET("/claims/:id/attachments", h.Ledger.ListAttachments)
	api.DELETE("/claims/:id/attachments/:attachmentId", h.Ledger.RemoveAttachment)
	api.POST("/claims/:id/parts", h.Ledger.AddPart)
	api.GET("/claims/:id/parts", h.Ledger.ListParts)
	api.PATCH("/claims/:id/parts/:partId/status", h.Ledger.UpdatePartStatus)
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initMinio(cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
}
