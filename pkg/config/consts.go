package config

const (
	EnvPrefix = "DEALERHUB"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "DEALERHUB_DB_DSN"
	EnvDBHost = "DEALERHUB_DB_HOST"
	EnvDBUser = "DEALERHUB_DB_USER"
	EnvDBName = "DEALERHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
