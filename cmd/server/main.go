package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"tron/internal/cluster"
	"tron/internal/events"
	"tron/internal/gateway"
	"tron/internal/logging"
	"tron/internal/matchmaking"
	"tron/internal/network"
	"tron/internal/session"
)

const (
	defaultServiceName = "tron-server"
	defaultServicePort = 8080
	defaultLogFile     = "tron-server.log"
)

// Config holds everything the server reads from the environment.
type Config struct {
	ServiceName string
	ServicePort int
	LogFile     string

	// Optional integrations; empty means disabled.
	NATSURL    string
	ConsulAddr string
}

func loadConfig() (*Config, error) {
	// A .env file is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: os.Getenv("TRON_SERVICE_NAME"),
		LogFile:     defaultLogFile,
		NATSURL:     os.Getenv("NATS_URL"),
		ConsulAddr:  os.Getenv("CONSUL_HTTP_ADDR"),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	if v, ok := os.LookupEnv("TRON_LOG_FILE"); ok {
		cfg.LogFile = v
	}

	portStr := os.Getenv("TRON_SERVICE_PORT")
	if portStr == "" {
		portStr = fmt.Sprintf("%d", defaultServicePort)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TRON_SERVICE_PORT: %w", err)
	}
	cfg.ServicePort = port

	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	var feed events.Feed = events.NopFeed{}
	if cfg.NATSURL != "" {
		natsFeed, err := events.NewNATSFeed(cfg.NATSURL)
		if err != nil {
			logging.L.Fatalw("connect nats", "url", cfg.NATSURL, "err", err)
		}
		defer natsFeed.Close()
		feed = natsFeed
		logging.L.Infow("game event feed enabled", "url", cfg.NATSURL)
	}

	coordinator := matchmaking.NewCoordinator()
	registry := session.NewRegistry()
	handler := gateway.NewGameHandler(coordinator, registry, feed)
	server := network.NewServer(handler)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", cluster.NewHealthHandler())

	if cfg.ConsulAddr != "" {
		if err := cluster.Register(cfg.ServiceName, cfg.ServicePort, cfg.ServicePort, cfg.ConsulAddr); err != nil {
			logging.L.Fatalw("consul registration", "err", err)
		}
	}

	address := fmt.Sprintf("0.0.0.0:%d", cfg.ServicePort)
	logging.L.Infow("server starting", "service", cfg.ServiceName, "addr", address)
	if err := server.Listen(address, mux); err != nil {
		logging.L.Fatalw("server stopped", "err", err)
	}
}
