package config

import (
	"fmt"
	"time"

	"galaxy-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Frontend   FrontendConfig
	Logging    LoggingConfig
	RateLimit  RateLimitConfig
	Simulation SimulationConfig
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled      bool
	URL          string
	Host         string
	Port         string
	Password     string
	DB           int
	FrameKey     string
	FrameChannel string
	FrameTTL     time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	CookieSecure    bool
	CookieSameSite  string
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type SimulationConfig struct {
	TickRate           int
	FrameEvery         int
	StartPaused        bool
	Seed               int64
	SolarSystems       int
	BlackHoles         int
	PlanetsPerSystem   int
	PlacementWidth     float64
	PlacementHeight    float64
	PlanetMassMin      float64
	PlanetMassMax      float64
	BlackHoleMassMin   float64
	BlackHoleMassMax   float64
	EventHorizonRadius float64
	ScenarioPath       string
	WatchScenario      bool
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	config := &Config{
		Server:     loadServerConfig(),
		Database:   loadDatabaseConfig(),
		Redis:      loadRedisConfig(),
		Auth:       loadAuthConfig(),
		Frontend:   loadFrontendConfig(),
		Logging:    loadLoggingConfig(),
		RateLimit:  loadRateLimitConfig(),
		Simulation: loadSimulationConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(utils.GetEnvInt("SERVER_READ_TIMEOUT_SECONDS", 15)) * time.Second,
		WriteTimeout: time.Duration(utils.GetEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 15)) * time.Second,
		IdleTimeout:  time.Duration(utils.GetEnvInt("SERVER_IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Enabled:         utils.GetEnvBool("DB_ENABLED", false),
		Driver:          utils.GetEnv("DB_DRIVER", "sqlite"),
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "galaxy"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		SQLitePath:      utils.GetEnv("DB_SQLITE_PATH", "galaxy.db"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:      utils.GetEnvBool("REDIS_ENABLED", false),
		URL:          utils.GetEnv("REDIS_URL", ""),
		Host:         utils.GetEnv("REDIS_HOST", "localhost"),
		Port:         utils.GetEnv("REDIS_PORT", "6379"),
		Password:     utils.GetEnv("REDIS_PASSWORD", ""),
		DB:           utils.GetEnvInt("REDIS_DB", 0),
		FrameKey:     utils.GetEnv("REDIS_FRAME_KEY", "galaxy:frame:latest"),
		FrameChannel: utils.GetEnv("REDIS_FRAME_CHANNEL", "galaxy:frames"),
		FrameTTL:     time.Duration(utils.GetEnvInt("REDIS_FRAME_TTL_SECONDS", 60)) * time.Second,
	}
}

func loadAuthConfig() AuthConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(utils.GetEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		CookieSecure:    environment == "production",
		CookieSameSite:  utils.GetEnv("COOKIE_SAME_SITE", "lax"),
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	format := utils.GetEnv("LOG_FORMAT", "text")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		Format:     format,
		JSONFormat: environment == "production" || format == "json",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           utils.GetEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TickRate:           utils.GetEnvInt("SIM_TICK_RATE", 60),
		FrameEvery:         utils.GetEnvInt("SIM_FRAME_EVERY", 2),
		StartPaused:        utils.GetEnvBool("SIM_START_PAUSED", false),
		Seed:               utils.GetEnvInt64("SIM_SEED", 0),
		SolarSystems:       utils.GetEnvInt("SIM_SOLAR_SYSTEMS", 8),
		BlackHoles:         utils.GetEnvInt("SIM_BLACK_HOLES", 0),
		PlanetsPerSystem:   utils.GetEnvInt("SIM_PLANETS_PER_SYSTEM", 8),
		PlacementWidth:     utils.GetEnvFloat("SIM_PLACEMENT_WIDTH", 1920),
		PlacementHeight:    utils.GetEnvFloat("SIM_PLACEMENT_HEIGHT", 1080),
		PlanetMassMin:      utils.GetEnvFloat("SIM_PLANET_MASS_MIN", 5),
		PlanetMassMax:      utils.GetEnvFloat("SIM_PLANET_MASS_MAX", 20),
		BlackHoleMassMin:   utils.GetEnvFloat("SIM_BLACK_HOLE_MASS_MIN", 100),
		BlackHoleMassMax:   utils.GetEnvFloat("SIM_BLACK_HOLE_MASS_MAX", 200),
		EventHorizonRadius: utils.GetEnvFloat("SIM_EVENT_HORIZON_RADIUS", 50),
		ScenarioPath:       utils.GetEnv("SIM_SCENARIO_PATH", ""),
		WatchScenario:      utils.GetEnvBool("SIM_WATCH_SCENARIO", false),
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case "postgres":
			if c.Database.Host == "" || c.Database.Name == "" {
				return fmt.Errorf("DB_HOST and DB_NAME are required for postgres")
			}
		case "sqlite":
			if c.Database.SQLitePath == "" {
				return fmt.Errorf("DB_SQLITE_PATH is required for sqlite")
			}
		default:
			return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
		}
	}

	return c.Simulation.Validate()
}

// MaxTickRate bounds SIM_TICK_RATE. Above it the tick interval rounds
// toward zero nanoseconds.
const MaxTickRate = 1000

// Validate checks the simulation settings on their own, for callers such as
// the CLI that do not need the server sections.
func (s SimulationConfig) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("SIM_TICK_RATE must be positive")
	}

	if s.TickRate > MaxTickRate {
		return fmt.Errorf("SIM_TICK_RATE must be at most %d, got %d", MaxTickRate, s.TickRate)
	}

	if s.FrameEvery <= 0 {
		return fmt.Errorf("SIM_FRAME_EVERY must be positive")
	}

	if s.SolarSystems < 0 || s.BlackHoles < 0 || s.PlanetsPerSystem < 0 {
		return fmt.Errorf("SIM_SOLAR_SYSTEMS, SIM_BLACK_HOLES and SIM_PLANETS_PER_SYSTEM must not be negative")
	}

	if s.PlanetMassMin <= 0 || s.PlanetMassMax < s.PlanetMassMin {
		return fmt.Errorf("planet mass range [%v, %v] is invalid", s.PlanetMassMin, s.PlanetMassMax)
	}

	if s.BlackHoleMassMin <= 0 || s.BlackHoleMassMax < s.BlackHoleMassMin {
		return fmt.Errorf("black hole mass range [%v, %v] is invalid", s.BlackHoleMassMin, s.BlackHoleMassMax)
	}

	if s.EventHorizonRadius <= 0 {
		return fmt.Errorf("SIM_EVENT_HORIZON_RADIUS must be positive")
	}

	return nil
}

// DefaultSimulationConfig returns the simulation defaults without reading
// the environment.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TickRate:           60,
		FrameEvery:         2,
		SolarSystems:       8,
		PlanetsPerSystem:   8,
		PlacementWidth:     1920,
		PlacementHeight:    1080,
		PlanetMassMin:      5,
		PlanetMassMax:      20,
		BlackHoleMassMin:   100,
		BlackHoleMassMax:   200,
		EventHorizonRadius: 50,
	}
}

func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
