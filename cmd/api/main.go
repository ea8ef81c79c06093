package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropfour/backend/internal/config"
	"github.com/dropfour/backend/internal/repository/postgres"
	"github.com/dropfour/backend/internal/repository/redis"
	authsvc "github.com/dropfour/backend/internal/service/auth"
	"github.com/dropfour/backend/internal/service/cleanup"
	"github.com/dropfour/backend/internal/service/lobby"
	"github.com/dropfour/backend/internal/service/match"
	transporthttp "github.com/dropfour/backend/internal/transport/http"
	"github.com/dropfour/backend/internal/transport/http/middleware"
	"github.com/dropfour/backend/internal/transport/websocket"
)

const cleanupInterval = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.LoadConfig()

	db, err := postgres.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	log.Println("Running database migrations...")
	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	matchRepo := postgres.NewMatchRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	// Redis is optional; everything degrades to postgres-only when it is
	// down.
	var cache *redis.Cache
	if client := redis.Connect(cfg.RedisAddr, cfg.RedisPassword); client != nil {
		defer client.Close()
		cache = redis.NewCache(client)
	}

	var authCache authsvc.CacheRepository
	if cache != nil {
		authCache = cache
	}
	authService := authsvc.NewService(sessionRepo, authCache)

	connManager := websocket.NewConnectionManager()
	matchManager := match.NewManager(matchRepo)
	lobbyService := lobby.NewService(matchManager, connManager, cfg.LobbyBotFallback)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := cleanup.NewWorker(matchManager, sessionRepo, cleanupInterval)
	go worker.Run(ctx)

	authHandler := transporthttp.NewAuthHandler(userRepo, sessionRepo, authService, connManager)
	oauthHandler := transporthttp.NewOAuthHandler(userRepo, sessionRepo, authService, connManager)
	gameHandler := transporthttp.NewGameHandler(userRepo, matchRepo, matchManager, cache)
	wsHandler := websocket.NewHandler(connManager, lobbyService, matchManager, authService)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/google/login", oauthHandler.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", oauthHandler.GoogleCallback)
	mux.HandleFunc("GET /api/leaderboard", gameHandler.Leaderboard)

	mux.HandleFunc("GET /api/auth/me", middleware.Auth(authHandler.Me, authService))
	mux.HandleFunc("GET /api/history", middleware.Auth(gameHandler.History, authService))
	mux.HandleFunc("GET /api/history/{id}", middleware.Auth(gameHandler.Match, authService))
	mux.HandleFunc("GET /api/watch", middleware.Auth(gameHandler.LiveMatches, authService))

	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.CORS(mux),
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}
