package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/ray-remotestate/comandas/config"
	"github.com/ray-remotestate/comandas/database"
	"github.com/ray-remotestate/comandas/database/dbhelper"
	"github.com/ray-remotestate/comandas/handlers"
	"github.com/ray-remotestate/comandas/ledger"
	"github.com/ray-remotestate/comandas/menu"
	"github.com/ray-remotestate/comandas/server"
	"github.com/ray-remotestate/comandas/session"
	"github.com/ray-remotestate/comandas/utils"
	"github.com/ray-remotestate/comandas/views"
	"github.com/sirupsen/logrus"
)

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config, error: %v", err)
	}
	utils.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	catalog, err := loadMenu(cfg)
	if err != nil {
		logrus.Fatalf("failed to load menu, error: %v", err)
	}

	var db *sql.DB
	var orders *ledger.Ledger
	switch cfg.LedgerDriver {
	case config.LedgerPostgres:
		db, err = database.ConnectAndMigrate(cfg.DatabaseURL)
		if err != nil {
			logrus.Panicf("failed to initialize database, error: %v", err)
		}
		logrus.Println("migration is successful")
		orders = ledger.New(dbhelper.NewOrderStore(db), dbhelper.NewCutoffStore(db))
	default:
		orders = ledger.New(ledger.NewCSVStore(cfg.LedgerPath), ledger.NewFileCutoff(cfg.CutoffPath))
	}
	if err := orders.Initialize(context.Background()); err != nil {
		logrus.Fatalf("order ledger unavailable, error: %v", err)
	}

	sessions, redisClient := newSessionStore(cfg)

	renderer, err := views.NewRenderer()
	if err != nil {
		logrus.Fatalf("failed to parse templates, error: %v", err)
	}

	srv := server.SetupRoutes(handlers.New(catalog, orders, sessions, renderer))
	go func() {
		if err := srv.Run(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("failed to run server, error: %v", err)
		}
	}()
	logrus.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"ledger":  cfg.LedgerDriver,
		"session": cfg.SessionDriver,
	}).Info("server started")

	<-done

	logrus.Info("shutting down...")
	if err := srv.Shutdown(cfg.ShutdownTimeout); err != nil {
		logrus.WithError(err).Error("failed to gracefully shutdown server")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logrus.WithError(err).Error("failed to close redis connection")
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Error("failed to close database connection")
		}
	}
	logrus.Info("server stopped")
}

func loadMenu(cfg *config.Config) (*menu.Catalog, error) {
	if cfg.MenuFile != "" {
		return menu.Load(cfg.MenuFile)
	}
	return menu.Default()
}

func newSessionStore(cfg *config.Config) (session.Store, *redis.Client) {
	if cfg.SessionDriver != config.SessionRedis {
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to redis, error: %v", err)
	}
	return session.NewRedisStore(client, cfg.SessionTTL), client
}
