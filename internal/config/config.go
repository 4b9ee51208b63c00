package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Curation CurationConfig `mapstructure:"curation" validate:"required"`
	Render   RenderConfig   `mapstructure:"render"   validate:"required"`
	Export   ExportConfig   `mapstructure:"export"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RedisConfig configures the draft store. An empty URL keeps drafts in memory.
type RedisConfig struct {
	URL      string        `mapstructure:"url"       validate:"omitempty,url"`
	DraftTTL time.Duration `mapstructure:"draft_ttl" validate:"gt=0"`
}

// CurationConfig holds the caps applied when curating a month.
type CurationConfig struct {
	DayCap  int `mapstructure:"day_cap"  validate:"required,gt=0"`
	BookCap int `mapstructure:"book_cap" validate:"required,gt=0"`
}

// RenderConfig holds the defaults for new books and the document locale.
type RenderConfig struct {
	DefaultLayout     string `mapstructure:"default_layout"      validate:"required"`
	DefaultColorTheme string `mapstructure:"default_color_theme" validate:"required"`
	Locale            string `mapstructure:"locale"              validate:"required,bcp47_language_tag"`
}

// Entitlement modes for ExportConfig.EntitlementMode.
const (
	EntitlementDatabase = "database"
	EntitlementAlways   = "always"
	EntitlementNever    = "never"
)

// ExportConfig configures PDF conversion and where shared files land.
type ExportConfig struct {
	ConverterURL     string        `mapstructure:"converter_url"     validate:"required,url"`
	ConverterTimeout time.Duration `mapstructure:"converter_timeout" validate:"gt=0"`
	OutputDir        string        `mapstructure:"output_dir"        validate:"required"`
	EntitlementMode  string        `mapstructure:"entitlement_mode"  validate:"required,oneof=database always never"`
}
