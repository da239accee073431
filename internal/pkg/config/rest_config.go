package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RSA_VAULT_DATABASE_DSN.
const EnvPrefix = "RSA_VAULT"

// RestConfig is the configuration of the REST server.
type RestConfig struct {
	Port     string           `mapstructure:"port" validate:"required,numeric"`
	Logger   LoggerSettings   `mapstructure:"logger"`
	Database DatabaseSettings `mapstructure:"database"`
	KeyGen   KeyGenSettings   `mapstructure:"keygen"`
}

// Validate validates the server settings and every nested settings block.
func (c *RestConfig) Validate() error {
	validate := validator.New()
	if err := validate.Var(c.Port, "required,numeric"); err != nil {
		return fmt.Errorf("validation failed for RestConfig: port: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.KeyGen.Validate()
}

// InitializeRestConfig reads the YAML file at path, applies RSA_VAULT_
// environment overrides on top of the defaults and validates the result.
func InitializeRestConfig(path string) (*RestConfig, error) {
	v := viper.New()
	setRestDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setRestDefaults(v *viper.Viper) {
	keyGen := NewDefaultKeyGenSettings()
	logger := NewDefaultLoggerSettings()

	v.SetDefault("port", "8080")
	v.SetDefault("logger.log_level", logger.LogLevel)
	v.SetDefault("logger.log_type", logger.LogType)
	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "rsa-vault.db")
	v.SetDefault("keygen.default_key_size", keyGen.DefaultKeySize)
	v.SetDefault("keygen.certainty", keyGen.Certainty)
	v.SetDefault("keygen.exponent_policy", keyGen.ExponentPolicy)
	v.SetDefault("keygen.public_exponent", keyGen.PublicExponent)
	v.SetDefault("keygen.max_prime_attempts", keyGen.MaxPrimeAttempts)
	v.SetDefault("keygen.exponent_search_window", keyGen.ExponentSearchWindow)
	v.SetDefault("keygen.constant_time", keyGen.ConstantTime)
	v.SetDefault("keygen.workers", 0)
}
