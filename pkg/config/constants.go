package config

const (
	EnvPrefix = "MESSCONNECT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MESSCONNECT_DB_DSN"
	EnvDBHost = "MESSCONNECT_DB_HOST"
	EnvDBUser = "MESSCONNECT_DB_USER"
	EnvDBName = "MESSCONNECT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
