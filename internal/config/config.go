package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, read once at startup.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Mock     MockConfig
	Database DatabaseConfig
}

// ServerConfig configures the HTTP surface of the reference server.
type ServerConfig struct {
	Addr       string
	CORSOrigin string
}

// APIConfig configures the gateway client. UseMock selects the in-memory
// backend instead of the network client; the choice is made once at
// composition time and never re-read.
type APIConfig struct {
	BaseURL string
	UseMock bool
}

// MockConfig tunes the in-memory backend.
type MockConfig struct {
	Latency time.Duration
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the keyword/value connection string pgx expects.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL renders the URL form the migration runner expects.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:       ":8080",
			CORSOrigin: "http://localhost:3000",
		},
		API: APIConfig{
			// empty means the server uses its own Postgres store rather
			// than proxying a remote API
			BaseURL: "",
			UseMock: false,
		},
		Mock: MockConfig{
			Latency: 10 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "admin",
			DBName:   "mapeo_admin",
			SSLMode:  "disable",
		},
	}
}

// Load reads config.yaml from the given path, with MAPEO_* environment
// overrides (e.g. MAPEO_API_USE_MOCK, MAPEO_DATABASE_HOST).
func Load(configPath string) (Config, error) {
	cfg := Default()
	if configPath == "" {
		configPath = "."
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("MAPEO")

	v.BindEnv("server.addr")
	v.BindEnv("server.cors_origin")
	v.BindEnv("api.base_url")
	v.BindEnv("api.use_mock")
	v.BindEnv("mock.latency_ms")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.cors_origin") {
		cfg.Server.CORSOrigin = v.GetString("server.cors_origin")
	}
	if v.IsSet("api.base_url") {
		cfg.API.BaseURL = v.GetString("api.base_url")
	}
	if v.IsSet("api.use_mock") {
		cfg.API.UseMock = v.GetBool("api.use_mock")
	}
	if v.IsSet("mock.latency_ms") {
		cfg.Mock.Latency = time.Duration(v.GetInt("mock.latency_ms")) * time.Millisecond
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	return cfg, nil
}
