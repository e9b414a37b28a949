package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kuip/nomen/internal/api/handlers"
	"github.com/kuip/nomen/internal/api/middleware"
	"github.com/kuip/nomen/internal/authgw"
	"github.com/kuip/nomen/internal/authgw/google"
	"github.com/kuip/nomen/internal/config"
	"github.com/kuip/nomen/internal/db"
	"github.com/kuip/nomen/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Auth gateway: principals, credentials, sessions, identity events
	gateway := authgw.New(database)

	// Create router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	// ============================================
	// Public Routes (No Auth Required)
	// ============================================

	// Email/password auth
	r.Post("/auth/register", handlers.RegisterHandler(gateway))
	r.Post("/auth/login", handlers.LoginHandler(gateway))

	// Google OAuth flow
	if google.Enabled() {
		r.Get("/auth/google/login", google.HandleLogin)
		r.Get("/auth/google/callback", google.HandleCallback(gateway))
	}

	// ============================================
	// Protected Routes (Session Required)
	// ============================================

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SessionAuth(gateway, database))

		// Profile and attribute preference
		r.Get("/profile", handlers.ProfileHandler(database))
		r.Post("/attributes/{id}/prefer", handlers.PreferAttributeHandler(database))

		// Merge handshake
		r.Post("/merge/requests", handlers.CreateMergeRequestHandler(database, cfg.MergeRequestTTL()))
		r.Get("/merge/requests/{token}", handlers.MergeRequestInfoHandler(database))
		r.Delete("/merge/requests/{token}", handlers.CancelMergeRequestHandler(database))
		r.Post("/merge/requests/{token}/execute", handlers.ExecuteMergeHandler(database, gateway))

		// Non-token merge discovery
		r.Get("/merge/candidate", handlers.MergeCandidateHandler(database))
	})

	log.Printf("🚀 nomen %s starting on http://%s", version.Version, cfg.ListenAddr())
	if !google.Enabled() {
		log.Printf("ℹ️  Google login disabled (set NOMEN_GOOGLE_CLIENT_ID / NOMEN_GOOGLE_CLIENT_SECRET)")
	}

	if err := http.ListenAndServe(cfg.ListenAddr(), r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
