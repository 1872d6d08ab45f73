package config

// EnvPrefix is the envconfig prefix for all service configuration.
const EnvPrefix = "temb"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TEMB_DB_DSN"
	EnvDBHost = "TEMB_DB_HOST"
	EnvDBUser = "TEMB_DB_USER"
	EnvDBName = "TEMB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
