package config

import (
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

type Logger struct {
	Level zerolog.Level
}

type RedisCache struct {
	Host          string
	Port          string
	Password      string
	LibraryPrefix string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Rooms struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type Config struct {
	HTTP     HTTPServer
	Log      Logger
	Redis    RedisCache
	Postgres Postgres
	Rooms    Rooms
}

var defaults = map[string]any{
	"HTTP_HOST":            "0.0.0.0",
	"HTTP_PORT":            "8080",
	"HTTP_ALLOWED_ORIGINS": "*",
	"LOG_LEVEL":            "info",
	"REDIS_HOST":           "redis",
	"REDIS_PORT":           "6379",
	"REDIS_PASSWORD":       "",
	"REDIS_LIBRARY_PREFIX": "library",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "admin",
	"DB_PASSWORD":          "shared",
	"DB_NAME":              "rooms",
	"DB_SSLMODE":           "disable",
	"ROOMS_TTL":            "2h",
	"ROOMS_SWEEP_INTERVAL": "60s",
}

// Load reads the env file named by -config (or .env) and resolves the config from the environment.
func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	logger := log.With().Str("module", "config").Logger()
	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("err loading env from file")
		}
		logger.Info().Str("path", *configPath).Msg("using env from file")
	} else {
		logger.Info().Msg("using env from .env")
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()
	cfg := FromViper(v)

	logger.Info().
		Str("http", cfg.HTTP.Host+":"+cfg.HTTP.Port).
		Str("redis", cfg.Redis.Host+":"+cfg.Redis.Port).
		Str("postgres", cfg.Postgres.Host+":"+cfg.Postgres.Port+"/"+cfg.Postgres.DBName).
		Dur("rooms_ttl", cfg.Rooms.TTL).
		Dur("sweep_interval", cfg.Rooms.SweepInterval).
		Msg("backend config")
	return cfg
}

// FromViper fills defaults into v and builds the config from it.
func FromViper(v *viper.Viper) *Config {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	return &Config{
		HTTP: HTTPServer{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetString("HTTP_PORT"),
			AllowedOrigins: splitList(v.GetString("HTTP_ALLOWED_ORIGINS")),
		},
		Log: Logger{
			Level: parseLevel(v.GetString("LOG_LEVEL")),
		},
		Redis: RedisCache{
			Host:          v.GetString("REDIS_HOST"),
			Port:          v.GetString("REDIS_PORT"),
			Password:      v.GetString("REDIS_PASSWORD"),
			LibraryPrefix: v.GetString("REDIS_LIBRARY_PREFIX"),
		},
		Postgres: Postgres{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Rooms: Rooms{
			TTL:           positiveDuration(v, "ROOMS_TTL"),
			SweepInterval: positiveDuration(v, "ROOMS_SWEEP_INTERVAL"),
		},
	}
}

func positiveDuration(v *viper.Viper, key string) time.Duration {
	d := v.GetDuration(key)
	if d <= 0 {
		d, _ = time.ParseDuration(defaults[key].(string))
	}
	return d
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
