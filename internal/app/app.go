package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/adapters/blob"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/adapters/events"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/adapters/httpapi"
	sqliteadapter "github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/adapters/sqlite"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/adapters/sqlite/gormsqlite"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/ports"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/usecase"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/migrations"
)

type Config struct {
	Addr          string
	DBPath        string
	UploadsDir    string
	JWTSecret     string
	TokenTTL      time.Duration
	LockWait      time.Duration
	WebhookURL    string
	WebhookSecret string
	// SeedUsers creates an admin, an issuer, and a bidder account on an
	// empty database so a fresh install is usable immediately.
	SeedUsers        bool
	SeedUserPassword string
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewServer(ctx context.Context, cfg Config) (*http.Server, io.Closer, error) {
	if cfg.JWTSecret == "" {
		return nil, nil, fmt.Errorf("jwt secret must be set")
	}

	db, err := gormsqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	blobStore, err := blob.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	tenderStore := sqliteadapter.NewTenderStore(db)
	submissionStore := sqliteadapter.NewSubmissionStore(db)
	userStore := sqliteadapter.NewUserStore(db)
	documentRepo := sqliteadapter.NewDocumentRepo(db)
	ledgerStore := sqliteadapter.NewLedgerStore(db)
	outboxRepo := sqliteadapter.NewOutboxRepository(db)

	locks := usecase.NewTenderLocks(cfg.LockWait)
	ledgerService := usecase.NewLedgerService(ledgerStore)
	authService := usecase.NewAuthService(userStore, ledgerService, cfg.JWTSecret, cfg.TokenTTL)
	tenderService := usecase.NewTenderService(tenderStore, locks)
	submissionService := usecase.NewSubmissionService(submissionStore, tenderStore, locks)
	awardService := usecase.NewAwardService(tenderStore, submissionStore, locks)
	documentService := usecase.NewDocumentService(documentRepo, blobStore)

	var publisher ports.EventPublisher = events.NewLogPublisher()
	if cfg.WebhookURL != "" {
		publisher = events.NewWebhookPublisher(cfg.WebhookURL, cfg.WebhookSecret, 0)
	}
	dispatcher := usecase.NewOutboxDispatcher(outboxRepo, publisher, 2*time.Second, 100)
	dispatcher.Start(context.Background())

	if cfg.SeedUsers {
		if err := seedUsers(ctx, userStore, cfg.SeedUserPassword); err != nil {
			_ = dispatcher.Close()
			_ = db.Close()
			return nil, nil, err
		}
	}

	handler := httpapi.NewHandler(authService, tenderService, submissionService, awardService, ledgerService, documentService)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, resourceCloser{closers: []io.Closer{dispatcher, db}}, nil
}

// seedUsers provisions one account per working role when the database
// is empty. Existing installs are never touched.
func seedUsers(ctx context.Context, users ports.UserStore, password string) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		password = "ChangeMe123!"
		log.Printf("seeding default users with the built-in password; change it")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	seeds := []domain.User{
		{Email: "admin@bettertender.local", FullName: "Administrator", Role: domain.RoleAdmin},
		{Email: "issuer@bettertender.local", FullName: "Tender Issuer", Role: domain.RoleIssuer},
		{Email: "bidder@bettertender.local", FullName: "Bidder", Role: domain.RoleBidder},
	}
	for _, seed := range seeds {
		seed.PasswordHash = string(hash)
		seed.Active = true
		if _, err := users.Create(ctx, seed, domain.LedgerDraft{
			Action:       domain.ActionUserRegister,
			ResourceType: domain.ResourceUser,
			Payload:      domain.CanonicalPayload(map[string]any{"email": seed.Email, "role": string(seed.Role), "seeded": true}),
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", seed.Email, err)
		}
	}
	return nil
}
