package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quickcart/checkout-wizard/domain"
	"github.com/quickcart/checkout-wizard/internal/backend"
	"github.com/quickcart/checkout-wizard/internal/events"
	h "github.com/quickcart/checkout-wizard/internal/http"
	"github.com/quickcart/checkout-wizard/internal/persist"
	"github.com/quickcart/checkout-wizard/internal/remote"
	"github.com/quickcart/checkout-wizard/internal/session"
	"github.com/quickcart/checkout-wizard/internal/wizard"
)

type Config struct {
	HTTPPort         string
	RedisAddr        string
	KafkaBrokers     []string
	KafkaTopic       string
	BackendBaseURL   string
	BootstrapSession bool
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
}

func loadConfig() *Config {
	_ = godotenv.Load()

	port := getEnv("HTTP_PORT", "8080")
	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	return &Config{
		HTTPPort:         port,
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		KafkaBrokers:     brokers,
		KafkaTopic:       getEnv("KAFKA_TOPIC", "checkout-orders"),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:"+port),
		BootstrapSession: os.Getenv("BOOTSTRAP_SESSION") == "true",
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("checkout-wizard starting...")

	cfg := loadConfig()

	// Snapshot storage: redis when configured and reachable, otherwise
	// in-memory only for this run.
	var snapshots persist.Store = persist.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable at %s, falling back to in-memory snapshots: %v", cfg.RedisAddr, err)
		} else {
			snapshots = persist.NewRedisStore(client)
			log.Printf("Connected to redis at %s", cfg.RedisAddr)
		}
		cancel()
		defer client.Close()
	}

	publisher := events.NewPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
	defer publisher.Close()
	if publisher != nil {
		log.Printf("Publishing order events to %s", cfg.KafkaTopic)
	}

	client := remote.NewClient(cfg.BackendBaseURL, cfg.RequestTimeout)

	manager := h.NewManager(func(id string) *wizard.Wizard {
		store := session.NewStore(snapshots, id)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.Restore(ctx)
		wiz := wizard.New(store, client, publisher)
		if cfg.BootstrapSession {
			wiz.Bootstrap(ctx)
		}
		wiz.OpenStep(domain.StepAccount)
		return wiz
	})
	defer manager.Close()

	checkoutHandler := h.NewCheckoutHandler(manager)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	checkoutHandler.Routes(r)

	// Embedded mock backend serving the four remote operations.
	r.Mount("/", backend.NewServer().Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "checkout-wizard"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("checkout-wizard listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
