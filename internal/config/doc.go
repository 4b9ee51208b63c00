// Package config loads the service configuration from an optional config.yaml
// and MEMORYBOOK_-prefixed environment variables using viper, and validates it
// with go-playground/validator struct tags.
package config
