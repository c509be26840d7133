package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/typemaster/backend/internal/auth"
	"github.com/typemaster/backend/internal/content"
	"github.com/typemaster/backend/internal/database"
	"github.com/typemaster/backend/internal/leaderboard"
	"github.com/typemaster/backend/internal/middleware"
	"github.com/typemaster/backend/internal/scoring"
	"github.com/typemaster/backend/internal/session"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := content.Seed(db); err != nil {
		log.Fatalf("Failed to seed default content: %v", err)
	}

	// Initialize stores and services
	scoringStore := scoring.NewStore(db)
	scoringService := scoring.NewService(scoringStore)
	scoringHandler := scoring.NewHandler(scoringService, scoringStore)

	contentStore := content.NewStore(db)
	contentHandler := content.NewHandler(contentStore)

	leaderboardStore := leaderboard.NewStore(db)
	leaderboardHandler := leaderboard.NewHandler(leaderboard.NewService(leaderboardStore))

	sessionManager := session.NewManager(scoringService, contentStore)
	sessionHandler := session.NewHandler(sessionManager)

	authHandler := auth.NewHandler(db)

	// Session reaper
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go sessionManager.Run(ctx)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	contentHandler.RegisterRoutes(api)
	leaderboardHandler.RegisterRoutes(api)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	scoringHandler.RegisterRoutes(protected)
	sessionHandler.RegisterRoutes(protected)
	contentHandler.RegisterAdminRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
