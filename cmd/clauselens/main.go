package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/audit"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/db"
	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/filestore"
	"github.com/clauselens/clauselens/internal/handler"
	"github.com/clauselens/clauselens/internal/job"
	"github.com/clauselens/clauselens/internal/middleware"
	"github.com/clauselens/clauselens/internal/repo"
	"github.com/clauselens/clauselens/internal/schedule"
	"github.com/clauselens/clauselens/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "clauselens",
		Short: "clauselens contract analysis server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run clauselens server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.Int("chunk_size", cfg.Chunking.ChunkSize),
		zap.Int("overlap", cfg.Chunking.Overlap),
	)

	docRepo := repo.NewDocumentRepo(database)
	chunkRepo := repo.NewChunkRepo(database)
	extractionRepo := repo.NewExtractionRepo(database)
	findingRepo := repo.NewFindingRepo(database)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	chunker, err := extract.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	if err != nil {
		return fmt.Errorf("init chunker: %w", err)
	}

	documentService := service.NewDocumentService(docRepo, chunkRepo, extractionRepo, findingRepo, store, chunker)
	extractionService := service.NewExtractionService(docRepo, chunkRepo, extractionRepo,
		extract.NewFieldExtractor(), cfg.Cache.ExtractionSize,
		time.Duration(cfg.Cache.ExtractionTTLHours)*time.Hour)
	qaService := service.NewQAService(docRepo, chunkRepo)
	auditService := service.NewAuditService(docRepo, chunkRepo, findingRepo, extractionService, audit.NewEngine())
	statsService := service.NewStatsService(database, docRepo, chunkRepo, extractionRepo, findingRepo)

	deps := handler.RouterDeps{
		Ingest:    handler.NewIngestHandler(documentService),
		Documents: handler.NewDocumentHandler(documentService, extractionService),
		Extract:   handler.NewExtractHandler(extractionService),
		Ask:       handler.NewAskHandler(qaService),
		Audit:     handler.NewAuditHandler(auditService),
		Stats:     handler.NewStatsHandler(statsService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORS),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	retention := job.NewRetentionJob(docRepo, chunkRepo, extractionRepo, findingRepo, store,
		time.Duration(cfg.Retention.MaxDays)*24*time.Hour)
	if err := scheduler.AddJob(retention, cfg.Retention.Schedule); err != nil {
		return fmt.Errorf("schedule retention job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
