package config

const (
	EnvPrefix = "FIELDOPS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv   = "FIELDOPS_APP_ENV"
	EnvPort     = "FIELDOPS_APP_PORT"
	EnvLogLevel = "FIELDOPS_LOG_LEVEL"

	EnvDBDSN  = "FIELDOPS_DB_DSN"
	EnvDBHost = "FIELDOPS_DB_HOST"
	EnvDBUser = "FIELDOPS_DB_USER"
	EnvDBName = "FIELDOPS_DB_NAME"

	EnvRedisURL = "FIELDOPS_REDIS_URL"

	EnvJWTSecret = "FIELDOPS_JWT_SECRET"
	EnvJWTIssuer = "FIELDOPS_JWT_ISSUER"

	EnvERPURL      = "FIELDOPS_ERP_URL"
	EnvERPDB       = "FIELDOPS_ERP_DB"
	EnvERPLogin    = "FIELDOPS_ERP_LOGIN"
	EnvERPPassword = "FIELDOPS_ERP_PASSWORD"

	EnvCheckoutTaxRate          = "FIELDOPS_CHECKOUT_TAX_RATE"
	EnvCheckoutDefaultPartnerID = "FIELDOPS_CHECKOUT_DEFAULT_PARTNER_ID"

	EnvUseSQLite = "FIELDOPS_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
