package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"medpredict/db"
	qhttp "medpredict/http"
	"medpredict/logging"
	"medpredict/ml"
	"medpredict/monitoring"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Models struct {
		Dir   string `yaml:"dir"`
		Watch bool   `yaml:"watch"`
	} `yaml:"models"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log logging.Config `yaml:"log"`
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config, err := loadConfig(envOr("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(config.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	store, err := db.Open(config.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", config.Database.Path), zap.Error(err))
	}
	defer store.Close()

	registry := ml.NewRegistry(config.Models.Dir, logger)
	if err := registry.LoadAll(); err != nil {
		// A broken artifact is a deployment inconsistency; refusing to start
		// beats serving wrong probabilities.
		logger.Fatal("failed to load model artifacts", zap.String("dir", config.Models.Dir), zap.Error(err))
	}
	logger.Info("models ready", zap.Strings("diseases", registry.Diseases()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.Models.Watch {
		if err := registry.Watch(ctx); err != nil {
			logger.Error("model hot-reload disabled", zap.Error(err))
		}
	}

	hub := monitoring.NewHub(logger)
	go hub.Run(ctx)

	handler := qhttp.NewPredictHandler(registry, store, hub, config.Cache.Size, logger)
	server := qhttp.NewServer(serverConfig(config), handler, hub, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	cancel()
	if err := server.Stop(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	config := &Config{}
	config.Http.Port = 8080
	config.Http.TimeoutSeconds = 30
	config.Http.AllowedOrigins = []string{"*"}
	config.Models.Dir = "./models"
	config.Database.Path = "./data/predictions.db"
	config.Cache.Size = 256

	payload, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(payload, config); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Environment overrides for containerized deployments.
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Http.Port = p
		}
	}
	if dir := os.Getenv("MODELS_DIR"); dir != "" {
		config.Models.Dir = dir
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		config.Database.Path = path
	}
	return config, nil
}

func serverConfig(config *Config) qhttp.ServerConfig {
	cfg := qhttp.DefaultServerConfig()
	cfg.Port = config.Http.Port
	if config.Http.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(config.Http.TimeoutSeconds) * time.Second
	}
	if len(config.Http.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = config.Http.AllowedOrigins
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
