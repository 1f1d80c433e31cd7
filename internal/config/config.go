package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultKoreaBoundaryURL is the KOSTAT 2018 province boundary file.
const DefaultKoreaBoundaryURL = "https://raw.githubusercontent.com/southkorea/southkorea-maps/master/kostat/2018/json/skorea-provinces-2018-geo.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Boundary-geometry sources.
	KoreaBoundaryURL  string
	OceanBoundaryPath string
	BoundaryTimeout   time.Duration
	BoundaryCacheSize int

	// Dataset generation.
	DataSeed      uint64
	DataStartYear int
	DataEndYear   int

	// Optional dataset publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	boundaryTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("BOUNDARY_TIMEOUT", "15s"))
	if err != nil || boundaryTimeout <= 0 {
		return nil, errors.New("invalid BOUNDARY_TIMEOUT")
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("DATA_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DATA_SEED: %w", err)
	}

	startYear, err := parseYear("DATA_START_YEAR", "1989")
	if err != nil {
		return nil, err
	}
	endYear, err := parseYear("DATA_END_YEAR", "2023")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KoreaBoundaryURL:  sharedcfg.EnvOrDefault("KOREA_BOUNDARY_URL", DefaultKoreaBoundaryURL),
		OceanBoundaryPath: sharedcfg.EnvOrDefault("OCEAN_BOUNDARY_PATH", "data/oceans.geojson"),
		BoundaryTimeout:   boundaryTimeout,
		BoundaryCacheSize: parseBoundaryCacheSize(),

		DataSeed:      seed,
		DataStartYear: startYear,
		DataEndYear:   endYear,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "sea-level-dataset"),
	}

	if cfg.KoreaBoundaryURL == "" {
		return nil, errors.New("KOREA_BOUNDARY_URL is required")
	}
	if cfg.OceanBoundaryPath == "" {
		return nil, errors.New("OCEAN_BOUNDARY_PATH is required")
	}
	if cfg.DataEndYear < cfg.DataStartYear {
		return nil, errors.New("DATA_END_YEAR must not be before DATA_START_YEAR")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parseYear(key, def string) (int, error) {
	y, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || y <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return y, nil
}

func parseBoundaryCacheSize() int {
	if s := os.Getenv("BOUNDARY_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 8
}
