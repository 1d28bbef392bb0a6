package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string `yaml:"port"`
	Store          string `yaml:"store"` // memory | sqlite | redis | none
	DBDSN          string `yaml:"db_dsn"`
	RedisURL       string `yaml:"redis_url"`
	RedisDB        int    `yaml:"redis_db"`
	RedisNamespace string `yaml:"redis_namespace"`
	LogFile        string `yaml:"log_file"`
	TemplatesDir   string `yaml:"templates_dir"`
	SeedData       bool   `yaml:"seed_data"`
}

func defaults() Config {
	return Config{
		Port:           "8080",
		Store:          "sqlite",
		DBDSN:          "stockroom.db", // sqlite file in project root
		RedisURL:       "redis://localhost:6379",
		RedisNamespace: "stockroom",
		LogFile:        "./stockroom.log",
		TemplatesDir:   "./web/templates",
		SeedData:       true,
	}
}

// Load builds the config from defaults, then CONFIG_FILE (YAML) if set, then env vars.
func Load() Config {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			log.Printf("[warn] config file %s ignored: %v", path, err)
		}
	}
	applyEnv(&cfg)
	log.Printf("[config] PORT=%s STORE=%s DB_DSN=%s REDIS_URL=%s REDIS_DB=%d LOG_FILE=%s SEED_DATA=%t",
		cfg.Port, cfg.Store, cfg.DBDSN, cfg.RedisURL, cfg.RedisDB, cfg.LogFile, cfg.SeedData)
	return cfg
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("STORE", &cfg.Store)
	str("DB_DSN", &cfg.DBDSN)
	str("REDIS_URL", &cfg.RedisURL)
	str("REDIS_NAMESPACE", &cfg.RedisNamespace)
	str("LOG_FILE", &cfg.LogFile)
	str("TEMPLATES_DIR", &cfg.TemplatesDir)
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("SEED_DATA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SeedData = b
		}
	}
}
