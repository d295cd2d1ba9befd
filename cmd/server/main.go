package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fernet/fernet-go"
	"golang.org/x/sync/errgroup"

	"github.com/fundrecords/fund-records-backend/internal/api"
	"github.com/fundrecords/fund-records-backend/internal/config"
	"github.com/fundrecords/fund-records-backend/internal/database"
	"github.com/fundrecords/fund-records-backend/internal/docstore"
	"github.com/fundrecords/fund-records-backend/internal/repository"
	"github.com/fundrecords/fund-records-backend/internal/scheduler"
	"github.com/fundrecords/fund-records-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	secretKey, err := loadSecretKey(cfg)
	if err != nil {
		log.Fatalf("Failed to load sync secret key: %v", err)
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	fundPriceRepo := repository.NewFundPriceRepository(db)
	syncConfigRepo := repository.NewSyncConfigRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	ledgerService := service.NewLedgerService(transactionRepo, fundPriceRepo)
	syncService := service.NewSyncService(
		ledgerService,
		syncConfigRepo,
		docstore.NewClient(cfg.Sync.BaseURL),
		secretKey,
	)

	// Rehydrate the ledger; holdings are recomputed from the log at startup
	if err := ledgerService.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}

	// Optional scheduled cloud backup
	sched := scheduler.New()
	if cfg.Backup.Schedule != "" {
		if err := sched.ScheduleBackup(cfg.Backup.Schedule, syncService); err != nil {
			log.Fatalf("Failed to schedule backup: %v", err)
		}
		log.Printf("Scheduled cloud backup: %s", cfg.Backup.Schedule)
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	router := api.NewRouter(systemService, ledgerService, syncService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server exited")
}

// loadSecretKey parses SYNC_SECRET_KEY, or generates an ephemeral key when
// none is configured. With an ephemeral key the stored sync credential
// cannot be decrypted after a restart and must be entered again.
func loadSecretKey(cfg *config.Config) (*fernet.Key, error) {
	if cfg.Sync.SecretKey != "" {
		return docstore.ParseSecretKey(cfg.Sync.SecretKey)
	}

	key := new(fernet.Key)
	if err := key.Generate(); err != nil {
		return nil, err
	}
	log.Println("SYNC_SECRET_KEY not set; using an ephemeral key, stored sync credentials will not survive a restart")
	return key, nil
}
