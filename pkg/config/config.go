package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Service  ServiceConfig
	Backend  BackendConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Password PasswordConfig
	Checkout CheckoutConfig
	Catalog  CatalogConfig
	Watcher  WatcherConfig
	Auth     AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesSQL() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string   `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STOREFRONT_SERVICE_KIND" default:"api"`
}

// BackendConfig points at the REST backend that owns inventory, users and orders.
// The inventory service and the core service are deployed separately upstream.
type BackendConfig struct {
	InventoryURL string        `envconfig:"STOREFRONT_BACKEND_INVENTORY_URL" default:"http://localhost:8000"`
	CoreURL      string        `envconfig:"STOREFRONT_BACKEND_CORE_URL" default:"http://localhost:8080"`
	Timeout      time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"10s"`
	OrderFormat  string        `envconfig:"STOREFRONT_BACKEND_ORDER_FORMAT" default:"flat"`
}

func (b BackendConfig) validate() error {
	for env, raw := range map[string]string{
		EnvBackendInventoryURL: b.InventoryURL,
		EnvBackendCoreURL:      b.CoreURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url, got %q", env, raw)
		}
	}
	switch strings.ToLower(strings.TrimSpace(b.OrderFormat)) {
	case OrderFormatFlat, OrderFormatLines:
		return nil
	}
	return fmt.Errorf("%s must be %q or %q", EnvBackendOrderFormat, OrderFormatFlat, OrderFormatLines)
}

// StorageConfig selects where per-client state (cart, session) lives.
type StorageConfig struct {
	Driver     string        `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"redis"`
	SessionTTL time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"0s"`
}

func (s StorageConfig) UsesSQL() bool {
	return strings.EqualFold(strings.TrimSpace(s.Driver), StorageDriverSQL)
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverRedis, StorageDriverSQL, StorageDriverMemory:
	default:
		return fmt.Errorf("%s must be one of %q, %q, %q", EnvStorageDriver, StorageDriverRedis, StorageDriverSQL, StorageDriverMemory)
	}
	if s.SessionTTL < 0 {
		return fmt.Errorf("%s cannot be negative", EnvSessionTTL)
	}
	return nil
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"false"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PasswordConfig controls hashing of passwords sent to the backend on register.
// HashOnRegister is off by default because the observed backend compares plain values.
type PasswordConfig struct {
	HashOnRegister   bool `envconfig:"STOREFRONT_PASSWORD_HASH_ON_REGISTER" default:"false"`
	ArgonMemoryKB    int  `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int  `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int  `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int  `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int  `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

type CheckoutConfig struct {
	FreeShippingThreshold string `envconfig:"STOREFRONT_FREE_SHIPPING_THRESHOLD" default:"10000"`
	ShippingFee           string `envconfig:"STOREFRONT_SHIPPING_FEE" default:"6000"`
	DefaultBranch         string `envconfig:"STOREFRONT_DEFAULT_BRANCH" default:"Vitalix Plus - El Rode"`
	DefaultAssistantID    int64  `envconfig:"STOREFRONT_DEFAULT_ASSISTANT_ID" default:"1"`
	DefaultDriverID       int64  `envconfig:"STOREFRONT_DEFAULT_DRIVER_ID" default:"1"`
}

type CatalogConfig struct {
	DefaultPageSize  int           `envconfig:"STOREFRONT_CATALOG_PAGE_SIZE" default:"24"`
	MaxPageSize      int           `envconfig:"STOREFRONT_CATALOG_MAX_PAGE_SIZE" default:"100"`
	ImageCacheTTL    time.Duration `envconfig:"STOREFRONT_IMAGE_CACHE_TTL" default:"10m"`
	PlaceholderImage string        `envconfig:"STOREFRONT_PLACEHOLDER_IMAGE" default:"https://via.placeholder.com/150?text=No+Image"`
}

// AuthRateLimitConfig throttles login and register per client IP and per email.
// A zero window disables the policy. Login is unthrottled unless a window is set.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STOREFRONT_LOGIN_RATE_WINDOW" default:"0"`
	LoginIPLimit       int           `envconfig:"STOREFRONT_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"STOREFRONT_LOGIN_RATE_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"STOREFRONT_REGISTER_RATE_WINDOW" default:"10m"`
	RegisterIPLimit    int           `envconfig:"STOREFRONT_REGISTER_RATE_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"STOREFRONT_REGISTER_RATE_EMAIL_LIMIT" default:"3"`
}

type WatcherConfig struct {
	PollInterval time.Duration `envconfig:"STOREFRONT_WATCHER_POLL_INTERVAL" default:"5s"`
	LockTTL      time.Duration `envconfig:"STOREFRONT_WATCHER_LOCK_TTL" default:"30s"`
	Channel      string        `envconfig:"STOREFRONT_WATCHER_CHANNEL" default:"storefront:orders:events"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
