package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/urfave/cli/v2"

	"topic-tasks/infrastructure/database"
	"topic-tasks/interfaces/api/handlers"
	"topic-tasks/interfaces/api/routes"
	"topic-tasks/pkg/di"
	"topic-tasks/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := buildApp(Runners{Serve: serve, Migrate: migrate})
	if err := app.Run(os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func serve(_ *cli.Context) error {
	container := di.NewContainer()
	if err := container.Initialize(); err != nil {
		return err
	}

	cfg := container.GetConfig()
	app := routes.NewApp(cfg, handlers.NewHandlers(container.GetHandlerServices()))

	ln, err := net.Listen("tcp", ":"+cfg.App.Port)
	if err != nil {
		_ = container.Cleanup()
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	logger.Info("Server starting",
		"port", cfg.App.Port,
		"env", cfg.App.Env,
		"app", cfg.App.Name,
	)
	logger.Info("Endpoints available",
		"health", "http://localhost:"+cfg.App.Port+"/health",
		"api", "http://localhost:"+cfg.App.Port+"/api/tasks",
	)

	return serveUntilSignal(app, ln, signals, container.Cleanup)
}

func migrate(_ *cli.Context) error {
	container := di.NewContainer()
	if err := container.InitializeForMigration(); err != nil {
		return err
	}
	defer container.Cleanup()

	if err := database.Migrate(container.DB); err != nil {
		return err
	}
	logger.Info("Database migrated", "driver", container.GetConfig().Database.Driver)
	return nil
}

// serveUntilSignal serves on ln until a signal arrives, then shuts the
// server down and runs cleanup before returning. cleanup also runs when
// serving fails.
func serveUntilSignal(app *fiber.App, ln net.Listener, signals <-chan os.Signal, cleanup func() error) error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if _, ok := <-signals; !ok {
			return
		}
		logger.Info("Gracefully shutting down...")

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
	}()

	err := app.Listener(ln)
	if err == nil {
		<-stopped
	}

	if cleanupErr := cleanup(); cleanupErr != nil {
		logger.Error("Error during cleanup", "error", cleanupErr)
	}
	logger.Info("Shutdown complete")
	return err
}
