package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/bimakw/dexag-provider/internal/domain/services"
	"github.com/bimakw/dexag-provider/internal/infrastructure/cache"
	"github.com/bimakw/dexag-provider/internal/infrastructure/dexag"
	"github.com/bimakw/dexag-provider/internal/infrastructure/ethereum"
	"github.com/bimakw/dexag-provider/internal/presentation/handlers"
)

const (
	version = "0.1.0"
)

func main() {
	// Get configuration from environment (.env is optional)
	_ = godotenv.Load()
	rpcURL := getEnv("ETH_RPC_URL", "https://eth.llamarpc.com")
	redisAddr := getEnv("REDIS_ADDR", "")
	apiURL := getEnv("DEXAG_API_URL", dexag.DefaultBaseURL)
	port := getEnv("PORT", "8080")
	logEnv := getEnv("LOG_ENV", "dev")

	log := newLogger(logEnv)

	// Initialize Ethereum client
	ethClient, err := ethereum.NewClient(rpcURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Ethereum")
	}
	defer ethClient.Close()
	log.Info().Str("chainID", ethClient.ChainID().String()).Msg("connected to Ethereum")

	// Initialize cache
	var cacheClient cache.Cache
	if redisAddr != "" {
		redisCache, err := cache.NewRedisCache(redisAddr, "", 0)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, using in-memory cache")
			cacheClient = cache.NewInMemoryCache()
		} else {
			cacheClient = redisCache
			log.Info().Str("addr", redisAddr).Msg("connected to Redis")
		}
	} else {
		cacheClient = cache.NewInMemoryCache()
		log.Info().Msg("using in-memory cache")
	}

	// Initialize the provider
	erc20 := ethereum.NewERC20Caller(ethClient)
	provider := services.NewSwapService(
		dexag.NewClient(apiURL),
		services.NewApprovalPlanner(erc20),
		services.NewTxAssembler(),
		erc20,
		ethClient,
		cacheClient,
		services.LogNotifier{Log: log},
		log,
	)

	// Second-phase initialization: venue allowlist and currency list, each
	// falling back to bundled defaults on failure
	readyCtx, cancelReady := context.WithTimeout(context.Background(), 30*time.Second)
	provider.Ready(readyCtx)
	cancelReady()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(version, provider.Name(), provider)
	rateHandler := handlers.NewRateHandler(provider)
	swapHandler := handlers.NewSwapHandler(provider)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	// Routes
	r.Get("/health", healthHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rate", rateHandler.GetRate)
		r.Get("/currencies", rateHandler.GetCurrencies)
		r.Post("/swap", swapHandler.StartSwap)
		r.Get("/orders/{orderID}/status", swapHandler.GetOrderStatus)
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("port", port).Str("version", version).Msg("starting dexag provider API")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

func newLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
