package config

// EnvPrefix is handed to envconfig; every field carries an explicit name so it is informational.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"
	StorageDriverMemory = "memory" // in-process, single-instance local runs only

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	OrderFormatFlat  = "flat"
	OrderFormatLines = "lines"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvBackendInventoryURL = "STOREFRONT_BACKEND_INVENTORY_URL"
	EnvBackendCoreURL      = "STOREFRONT_BACKEND_CORE_URL"
	EnvBackendOrderFormat  = "STOREFRONT_BACKEND_ORDER_FORMAT"

	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvSessionTTL    = "STOREFRONT_SESSION_TTL"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBHost   = "STOREFRONT_DB_HOST"
	EnvDBUser   = "STOREFRONT_DB_USER"
	EnvDBName   = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvFreeShippingThreshold = "STOREFRONT_FREE_SHIPPING_THRESHOLD"
	EnvShippingFee           = "STOREFRONT_SHIPPING_FEE"
	EnvWatcherPollInterval   = "STOREFRONT_WATCHER_POLL_INTERVAL"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
