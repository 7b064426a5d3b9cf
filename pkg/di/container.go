package di

import (
	"context"

	"gorm.io/gorm"

	"topic-tasks/application/serviceimpl"
	"topic-tasks/domain/ports"
	"topic-tasks/domain/repositories"
	"topic-tasks/domain/services"
	"topic-tasks/infrastructure/database"
	"topic-tasks/infrastructure/gemini"
	"topic-tasks/infrastructure/messaging"
	redispkg "topic-tasks/infrastructure/redis"
	"topic-tasks/interfaces/api/handlers"
	"topic-tasks/pkg/config"
	"topic-tasks/pkg/logger"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client // optional
	GeminiClient   *gemini.GeminiClient
	EventPublisher ports.TaskEventPublisher

	// Repositories
	TaskRepository repositories.TaskRepository

	// Services
	TaskService services.TaskService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	return c.initServices()
}

// InitializeForMigration brings up only what schema migration needs.
func (c *Container) InitializeForMigration() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	return c.initDatabase()
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initDatabase() error {
	db, err := database.NewDatabase(c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", c.Config.Database.Driver)
	return nil
}

func (c *Container) initInfrastructure() error {
	if err := c.initDatabase(); err != nil {
		return err
	}

	if err := database.Migrate(c.DB); err != nil {
		return err
	}
	logger.Info("Database migrated")

	geminiClient, err := gemini.NewGeminiClient(context.Background(), c.Config.Gemini)
	if err != nil {
		return err
	}
	c.GeminiClient = geminiClient

	// Redis is optional: without it every list goes to the database.
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
		}
	}

	c.EventPublisher = messaging.NewNoopPublisher()
	if c.Config.NATS.URL != "" {
		nc, err := messaging.Connect(c.Config.NATS.URL)
		if err != nil {
			logger.Warn("NATS connection failed (events disabled)", "error", err)
		} else {
			c.EventPublisher = messaging.NewNATSPublisher(nc, c.Config.NATS.SubjectPrefix)
			logger.Info("NATS publisher initialized", "url", c.Config.NATS.URL, "prefix", c.Config.NATS.SubjectPrefix)
		}
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.TaskRepository = database.NewTaskRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	if c.RedisClient != nil {
		cache := redispkg.NewTaskCache(c.RedisClient, c.Config.Redis.TTL)
		c.TaskService = serviceimpl.NewTaskServiceWithCache(c.TaskRepository, c.GeminiClient, c.EventPublisher, cache)
	} else {
		c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.GeminiClient, c.EventPublisher)
	}
	logger.Info("Services initialized", "cache", c.RedisClient != nil)
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	if c.GeminiClient != nil {
		if err := c.GeminiClient.Close(); err != nil {
			logger.Warn("Failed to close Gemini client", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		if err := database.Close(c.DB); err != nil {
			logger.Warn("Failed to close database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		TaskService: c.TaskService,
	}
}
