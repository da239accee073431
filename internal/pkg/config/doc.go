// Package config loads and validates the settings of the rsa-vault binaries.
//
// Settings are plain structs carrying mapstructure tags for viper and
// validate tags for go-playground/validator. Every settings struct exposes a
// Validate method; InitializeRestConfig reads a YAML file, applies
// RSA_VAULT_ environment overrides and validates the result.
package config
