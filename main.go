package main

import (
	"log"

	api "mailboard/cmd/api"
	authDomain "mailboard/internal/auth/domain"
	authRepo "mailboard/internal/auth/repository"
	authUsecase "mailboard/internal/auth/usecase"
	kanbanDomain "mailboard/internal/kanban/domain"
	kanbanRepo "mailboard/internal/kanban/repository"
	"mailboard/internal/kanban/scheduler"
	kanbanUsecase "mailboard/internal/kanban/usecase"
	"mailboard/pkg/ai"
	"mailboard/pkg/config"
	"mailboard/pkg/database"
	"mailboard/pkg/gmail"
	"mailboard/pkg/imapmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&kanbanDomain.Column{}, &kanbanDomain.EmailStatus{}, &authDomain.ProviderCredential{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	columnRepo := kanbanRepo.NewColumnRepository(db)
	statusRepo := kanbanRepo.NewEmailStatusRepository(db)
	credentialRepo := authRepo.NewCredentialRepository(db)

	credentialUc := authUsecase.NewCredentialUsecase(credentialRepo)

	// Select the mail provider
	var provider kanbanDomain.MailProvider
	switch cfg.MailProvider {
	case "imap":
		provider = imapmail.NewService(cfg.IMAPAddress, cfg.IMAPUseTLS, credentialUc)
		log.Printf("Mail provider: imap (%s)", cfg.IMAPAddress)
	default:
		provider = gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, credentialUc)
		log.Println("Mail provider: gmail")
	}

	// Initialize AI generator
	generator, err := ai.NewGenerator(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OllamaBaseURL: cfg.OllamaURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI generator:", err)
	}
	log.Printf("AI generator initialized with provider: %s", cfg.AIProvider)

	// Initialize use cases (dependency injection)
	columnUc := kanbanUsecase.NewColumnUsecase(columnRepo, statusRepo)
	boardUc := kanbanUsecase.NewBoardUsecase(columnRepo, statusRepo, columnUc, provider, generator, generator, cfg.ProviderTimeout)
	searchUc := kanbanUsecase.NewSearchUsecase(statusRepo, columnRepo)

	// Start the snooze scheduler
	snoozeScheduler := scheduler.NewSnoozeScheduler(statusRepo, boardUc, cfg.SnoozeSweepInterval)
	snoozeScheduler.Start()
	defer snoozeScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(columnUc, boardUc, searchUc, credentialUc, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
