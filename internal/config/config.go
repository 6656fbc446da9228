package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreDriver selects the item/user persistence backend.
type StoreDriver string

const (
	StoreDriverMemory   StoreDriver = "memory"
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMongo    StoreDriver = "mongo"
)

// MutationPolicy controls who may use the generic item update/delete endpoints.
type MutationPolicy string

const (
	// MutationPolicyOpen lets any authenticated caller patch or delete any item.
	MutationPolicyOpen MutationPolicy = "open"
	// MutationPolicyOwner restricts patch/delete to the reporter or a moderator.
	MutationPolicyOwner MutationPolicy = "owner"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Items    ItemsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	BasePath              string
	RequestTimeoutSeconds int
}

// StoreConfig picks the persistence backend.
type StoreConfig struct {
	Driver StoreDriver
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI            string
	Database       string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled         bool
	Addr            string
	Password        string
	DB              int
	NameCacheTTLSec int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	AllowModeratorSignup  bool
}

// ItemsConfig holds item endpoint policies.
type ItemsConfig struct {
	MutationPolicy MutationPolicy
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "lostfound-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			BasePath:              getEnv("APP_BASE_PATH", "/api"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver: StoreDriver(strings.ToLower(getEnv("STORE_DRIVER", string(StoreDriverMemory)))),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Mongo: MongoConfig{
			URI:            os.Getenv("MONGO_URI"),
			Database:       getEnv("MONGO_DATABASE", "lostfound"),
			TimeoutSeconds: getEnvAsInt("MONGO_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Enabled:         getEnvAsBool("REDIS_ENABLED", false),
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			NameCacheTTLSec: getEnvAsInt("REDIS_NAME_CACHE_TTL_SECONDS", 600),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
			AllowModeratorSignup:  getEnvAsBool("AUTH_ALLOW_MODERATOR_SIGNUP", false),
		},
		Items: ItemsConfig{
			MutationPolicy: MutationPolicy(strings.ToLower(getEnv("ITEMS_MUTATION_POLICY", string(MutationPolicyOpen)))),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN required for store driver %q", c.Store.Driver)
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI required for store driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Items.MutationPolicy {
	case MutationPolicyOpen, MutationPolicyOwner:
	default:
		return fmt.Errorf("invalid ITEMS_MUTATION_POLICY %q", c.Items.MutationPolicy)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-operation timeout for the document store.
func (m MongoConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// NameCacheTTL returns how long resolved display names stay cached.
func (r RedisConfig) NameCacheTTL() time.Duration {
	if r.NameCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.NameCacheTTLSec) * time.Second
}

// TokenTTL returns the access token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
