package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/config"
	"github.com/polarisml/console-gateway/internal/middleware"
	"github.com/polarisml/console-gateway/internal/routes"
	"github.com/polarisml/console-gateway/internal/session"
	"github.com/polarisml/console-gateway/internal/sessionevents"
	"github.com/polarisml/console-gateway/internal/token"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Cookie sealing is optional. Warn and run with plain cookies when the
	// key is missing or malformed, never fail startup over it.
	var sealer *token.Sealer
	if cfg.CookieSealKey == "" {
		log.Println("⚠️  WARNING: COOKIE_SEAL_KEY not set. Token cookies will not be sealed.")
		log.Println("   To generate a key, run: openssl rand -base64 32")
	} else {
		s, err := token.NewSealer(cfg.CookieSealKey)
		if err != nil {
			log.Printf("⚠️  WARNING: COOKIE_SEAL_KEY is invalid: %v", err)
			log.Println("   Key must be base64-encoded 32 bytes. Generate with: openssl rand -base64 32")
		} else {
			sealer = s
			log.Println("✅ Cookie sealing enabled")
		}
	}

	store := token.NewStore(sealer, cfg.IsProduction())
	client := apiclient.New(cfg.APIBaseURL)
	hub := sessionevents.NewHub()
	sessions := session.NewManager(client, store, hub)

	// Connect to Redis (rate limiting only; skipped when unset)
	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURI)
		if err != nil {
			log.Fatal("Invalid REDIS_URI:", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only (when Redis is configured)
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else if redisClient != nil {
		r.Use(middleware.RedisRateLimit(redisClient))
	}

	r.Use(middleware.Metrics(prometheus.DefaultRegisterer))
	r.Use(middleware.TokenContext(store, func(fp string) {
		middleware.RecordForcedSignOut()
		sessions.Invalidate(fp)
	}))
	r.Use(middleware.EdgeGate(store))

	routes.Setup(r, routes.Deps{
		Sessions: sessions,
		Client:   client,
		Store:    store,
		Hub:      hub,
	})

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  GET  /metrics")
	log.Println("  GET  /signin")
	log.Println("  GET  /signup")
	log.Println("  GET  /dashboard")
	log.Println("  POST /api/auth/signin")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signout")
	log.Println("  GET  /api/auth/session")
	log.Println("  ANY  /api/{datasets,projects,predictions}")
	log.Println("  GET  /ws/session")

	log.Printf("🚀 Console gateway running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
