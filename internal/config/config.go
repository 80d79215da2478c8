package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Store  StoreConfig  `mapstructure:"store"`
}

// Environments the server can run in. Stack traces are only exposed in
// error responses outside production.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development production test"`

	// ShutdownTimeoutSeconds bounds how long in-flight requests may run after a stop signal.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// IsProduction reports whether the server runs in the production environment.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

// StoreConfig contains settings for the in-memory task store.
type StoreConfig struct {
	// SeedDemoData inserts the demonstration tasks at startup.
	SeedDemoData bool `mapstructure:"seed_demo_data"`
}
