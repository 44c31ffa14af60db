package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/todolite/todolite/internal/auth"
	"github.com/todolite/todolite/internal/common/config"
	commoncrypto "github.com/todolite/todolite/internal/common/crypto"
	"github.com/todolite/todolite/internal/common/db"
	commonhttp "github.com/todolite/todolite/internal/common/http"
	"github.com/todolite/todolite/internal/common/logger"
	srv "github.com/todolite/todolite/internal/common/server"
	"github.com/todolite/todolite/internal/profile"
	todorepo "github.com/todolite/todolite/internal/todo/repository"
	todoservice "github.com/todolite/todolite/internal/todo/service"
	"github.com/todolite/todolite/internal/web"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "web", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	authClient := auth.NewClient(cfg.AuthURL, cfg.AuthAPIKey, cfg.AuthTimeout, log)
	resolver := auth.NewResolver(authClient, cfg.AuthJWTSecret, cfg.SessionCookieName, log)

	profileRepo := profile.NewPgRepository(pool)
	todoRepo := todorepo.NewPgRepository(pool)
	idGenerator := commoncrypto.NewUUIDGenerator()
	todoService := todoservice.NewTodoService(todoRepo, idGenerator, log)

	handler := web.NewHandler(resolver, authClient, todoService, profileRepo, web.Config{
		SessionCookieName: cfg.SessionCookieName,
		PublicBaseURL:     cfg.PublicBaseURL,
		RequestTimeout:    cfg.RequestTimeout,
	}, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler("web", log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.MiddlewareForRequest(r)(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	srv.StartWithGracefulShutdown(server, log, "web")
}
