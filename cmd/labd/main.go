package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"lab-attendance-backend/config"
	"lab-attendance-backend/internal/api"
	"lab-attendance-backend/internal/attendance"
	"lab-attendance-backend/internal/db"
	"lab-attendance-backend/internal/faculty"
	"lab-attendance-backend/internal/logger"
	"lab-attendance-backend/internal/store"
)

func main() {
	// A missing .env is fine outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to read .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	zlog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("configuration loaded", zap.String("path", configPath), zap.String("store", cfg.Store.Driver))

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	recordStore, err := openStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize record store", zap.Error(err))
	}

	verifier, err := facultyVerifier(cfg)
	if err != nil {
		zlog.Fatal("failed to load faculty credentials", zap.Error(err))
	}

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		zlog.Warn("session.secret is not set, faculty sessions will not survive a restart")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			zlog.Fatal("failed to generate session secret", zap.Error(err))
		}
	}

	svc := attendance.NewService(recordStore, time.Now, zlog)
	handler := api.NewHandler(svc, faculty.NewGate(verifier), cfg.Server.Location, zlog)
	router := api.NewRouter(handler, api.RouterConfig{
		SessionSecret:    secret,
		CookieName:       cfg.Session.CookieName,
		SessionMaxAge:    cfg.Session.MaxAgeSeconds,
		SecureCookie:     cfg.Session.Secure,
		RateLimit:        rate.Limit(cfg.Server.RateLimitPerSec),
		RateBurst:        cfg.Server.RateLimitBurst,
		CacheTTL:         time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
	}, zlog)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zlog.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	zlog.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server Shutdown", zap.Error(err))
		return
	}
	zlog.Info("server gracefully stopped")
}

// openStore builds the configured backend, wrapped in the snapshot cache
// when a TTL is set.
func openStore(cfg *config.Config, zlog *zap.Logger) (store.Store, error) {
	var s store.Store
	switch store.Driver(cfg.Store.Driver) {
	case store.DriverCSV:
		csvStore, err := store.NewCSVStore(cfg.Store.CSVPath, cfg.Server.Location)
		if err != nil {
			return nil, err
		}
		zlog.Info("using csv record store", zap.String("path", cfg.Store.CSVPath))
		s = csvStore
	case store.DriverSQLite, store.DriverPostgres:
		gormDB, err := db.Open(cfg.Store.Driver, &cfg.Database, zlog)
		if err != nil {
			return nil, err
		}
		s = store.NewGormStore(gormDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if ttl := time.Duration(cfg.Store.SnapshotTTLSeconds) * time.Second; ttl > 0 {
		s = store.WithSnapshotCache(s, cache.New(ttl, 2*ttl))
	}
	return s, nil
}

// facultyVerifier combines the plaintext table, FACULTY_CREDENTIALS and the
// bcrypt table.
func facultyVerifier(cfg *config.Config) (faculty.Verifier, error) {
	static := faculty.StaticCredentials{}
	for id, pw := range cfg.Faculty.Credentials {
		static[id] = pw
	}
	if raw := os.Getenv("FACULTY_CREDENTIALS"); raw != "" {
		fromEnv, err := faculty.ParseCredentials(raw)
		if err != nil {
			return nil, err
		}
		for id, pw := range fromEnv {
			static[id] = pw
		}
	}
	if len(static) == 0 && len(cfg.Faculty.PasswordHashes) == 0 {
		return nil, errors.New("no faculty credentials configured")
	}
	return faculty.Chain{static, faculty.HashedCredentials(cfg.Faculty.PasswordHashes)}, nil
}
