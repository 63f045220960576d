/**
 * @description
 * Configuration loader for the Spark orderbook indexer.
 * Reads the JSON market-list config file, layers environment variables on
 * top, and performs strict validation of what the ingestion pipeline needs
 * to boot.
 *
 * @dependencies
 * - github.com/joho/godotenv: for loading .env files in local/dev runs
 * - standard "encoding/json", "os": config file + env vars
 */

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fuel-spark/orderbook-indexer/internal/apperrors"
	"github.com/joho/godotenv"
)

// ChainID identifies which Fuel network to index against.
type ChainID string

const (
	ChainFuel        ChainID = "FUEL"
	ChainFuelTestnet ChainID = "FUELTESTNET"
)

// MarketInfo names one market to run an independent indexer pipeline for.
type MarketInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileConfig is the on-disk JSON shape: { pangea_host, pangea_start_block, markets }.
type FileConfig struct {
	PangeaHost       string       `json:"pangea_host"`
	PangeaStartBlock int64        `json:"pangea_start_block"`
	Markets          []MarketInfo `json:"markets"`
}

// Config holds all configuration for the application.
type Config struct {
	File FileConfig

	DB          DBConfig
	Redis       RedisConfig
	Pangea      PangeaConfig
	Chain       ChainID
	FuelNodeURL string // Fuel node the chain-tip provider dials; resolved from Chain, independent of Pangea.Host
	MarketID    string // single-market mode override; empty means "run every market in File.Markets"

	Server ServerConfig
}

// DBConfig holds PostgreSQL settings.
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings for the ambient read-cache.
type RedisConfig struct {
	URL string
}

// PangeaConfig holds upstream event-provider credentials.
type PangeaConfig struct {
	Host     string
	Username string
	Password string
}

// ServerConfig holds HTTP/gRPC server bind settings.
type ServerConfig struct {
	HTTPAddr string
	GRPCAddr string
	Env      string // "development" or "production"
}

// Load reads the JSON config file at path, then layers env vars on top.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := loadFileConfig(path)
	if err != nil {
		return nil, apperrors.Config("load config file", err)
	}

	chainID := resolveChainID(getEnv("CHAIN_ID", ""))

	cfg := &Config{
		File: *file,
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Pangea: PangeaConfig{
			Host:     nonEmpty(getEnv("PANGEA_HOST", ""), file.PangeaHost),
			Username: getEnv("PANGEA_USERNAME", ""),
			Password: getEnv("PANGEA_PASSWORD", ""),
		},
		Chain:       chainID,
		FuelNodeURL: resolveFuelNodeURL(chainID, getEnv("FUEL_NODE_URL", "")),
		MarketID:    getEnv("MARKET_ID", ""),
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", "0.0.0.0:3011"),
			GRPCAddr: getEnv("GRPC_ADDR", "0.0.0.0:50051"),
			Env:      getEnv("GO_ENV", "development"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, apperrors.Config("validate config", err)
	}

	return cfg, nil
}

func loadFileConfig(path string) (*FileConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var file FileConfig
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &file, nil
}

// resolveChainID maps the CHAIN_ID env var to a ChainID, defaulting to the
// testnet for anything other than the literal "FUEL".
func resolveChainID(raw string) ChainID {
	if strings.EqualFold(raw, string(ChainFuel)) {
		return ChainFuel
	}
	return ChainFuelTestnet
}

// resolveFuelNodeURL picks the Fuel node base URL the chain-tip provider
// dials: an explicit FUEL_NODE_URL override if set, else the well-known
// per-network host. This is independent of Pangea.Host — Pangea is the
// event gateway, not a Fuel node.
func resolveFuelNodeURL(id ChainID, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	if id == ChainFuel {
		return "https://mainnet.fuel.network"
	}
	return "https://testnet.fuel.network"
}

// validate checks for required variables.
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Pangea.Host == "" {
		return fmt.Errorf("pangea host is required (config file pangea_host or PANGEA_HOST)")
	}
	if cfg.Pangea.Username == "" || cfg.Pangea.Password == "" {
		return fmt.Errorf("PANGEA_USERNAME and PANGEA_PASSWORD are required")
	}
	if cfg.MarketID == "" && len(cfg.File.Markets) == 0 {
		return fmt.Errorf("no markets configured: set MARKET_ID or populate the config file markets list")
	}
	return nil
}

// Markets resolves the set of {id, name} pairs this process should run a
// pipeline for: MARKET_ID in single-market mode, else the full config list.
func (c *Config) Markets() []MarketInfo {
	if c.MarketID != "" {
		for _, m := range c.File.Markets {
			if m.ID == c.MarketID {
				return []MarketInfo{m}
			}
		}
		return []MarketInfo{{ID: c.MarketID, Name: c.MarketID}}
	}
	return c.File.Markets
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func nonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// getEnvAsInt reads an integer env var, falling back on parse/absence failure.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
