package config

// EnvPrefix is the envconfig prefix for all service settings.
const EnvPrefix = "grocerly"

// Application environment names.
const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced directly in error messages.
const (
	EnvDBDSN  = "GROCERLY_DB_DSN"
	EnvDBHost = "GROCERLY_DB_HOST"
	EnvDBUser = "GROCERLY_DB_USER"
	EnvDBName = "GROCERLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
