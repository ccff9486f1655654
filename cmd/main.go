package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"npbc_monitor/internal/handlers"
	"npbc_monitor/internal/logger"
	"npbc_monitor/internal/repository"
	"npbc_monitor/internal/server"
	"npbc_monitor/internal/service"

	"github.com/spf13/viper"
)

const defaultReconcileTick = 1 * time.Hour

func main() {
	// load config.yml first; the log level comes from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"), viper.GetString("log.file"))

	// open DB; connectivity failure at startup is fatal
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos)
	apiHandler := handlers.NewHandler(services, log, viper.GetString("static.dir"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// cache every completed month once, then keep the cache warm
	if err := services.Reconciler.Backfill(ctx); err != nil {
		log.Errorw("monthly backfill failed; monthly queries will reconcile lazily", "err", err)
	}
	go services.Reconciler.Run(ctx, reconcileTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "npbc.db")
		dbPath = "npbc.db"
	}
	return repository.InitDB(dbPath)
}

func reconcileTick() time.Duration {
	if d := viper.GetDuration("reconcile.tick"); d > 0 {
		return d
	}
	return defaultReconcileTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8088"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
