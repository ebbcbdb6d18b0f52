package config

// EnvPrefix scopes every environment variable consumed by the backend.
const EnvPrefix = "HARVESTHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "HARVESTHUB_DB_DSN"
	EnvDBHost = "HARVESTHUB_DB_HOST"
	EnvDBUser = "HARVESTHUB_DB_USER"
	EnvDBName = "HARVESTHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
