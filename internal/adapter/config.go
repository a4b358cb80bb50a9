package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmcdole/streambox/internal/catalog"
	"github.com/mmcdole/streambox/internal/domain"
)

const envPrefix = "STREAMBOX"

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds catalog API configuration
type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Debounce     time.Duration `mapstructure:"debounce"` // Search quiet window
}

// AuthConfig holds credential service configuration
type AuthConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	BcryptCost int           `mapstructure:"bcrypt_cost"` // 0 = library default
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // Empty keeps everything in memory
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultCategory string   `mapstructure:"default_category"`
	Browser         string   `mapstructure:"browser"`      // Empty uses the system default
	BrowserArgs     []string `mapstructure:"browser_args"` // Placed before the URL
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      catalog.DefaultBaseURL,
			ImageBaseURL: catalog.DefaultImageBaseURL,
			Timeout:      15 * time.Second,
			Debounce:     catalog.DefaultDebounce,
		},
		Auth: AuthConfig{
			BaseURL: "https://dummyjson.com",
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "streambox.db"),
		},
		UI: UIConfig{
			DefaultCategory: string(domain.CategoryAll),
			BrowserArgs:     []string{},
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "streambox.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "streambox")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "streambox")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "streambox")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "streambox")
	}
}

// LoadConfig loads configuration from .env, the config file and the environment
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load(".env")
	return loadConfig(defaultConfigPath(), ".")
}

// loadConfig reads config.yaml from the first of dirs that has one.
// Environment variables override file values.
func loadConfig(dirs ...string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Environment variable overrides, e.g. STREAMBOX_CATALOG_API_KEY
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)
	if err := v.BindEnv("catalog.api_key", envPrefix+"_CATALOG_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.image_base_url", cfg.Catalog.ImageBaseURL)
	v.SetDefault("catalog.api_key", cfg.Catalog.APIKey)
	v.SetDefault("catalog.timeout", cfg.Catalog.Timeout)
	v.SetDefault("catalog.debounce", cfg.Catalog.Debounce)

	v.SetDefault("auth.base_url", cfg.Auth.BaseURL)
	v.SetDefault("auth.timeout", cfg.Auth.Timeout)
	v.SetDefault("auth.bcrypt_cost", cfg.Auth.BcryptCost)

	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("ui.default_category", cfg.UI.DefaultCategory)
	v.SetDefault("ui.browser", cfg.UI.Browser)
	v.SetDefault("ui.browser_args", cfg.UI.BrowserArgs)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks values that have a closed set of options
func (c *Config) Validate() error {
	if _, err := domain.ParseCategory(c.UI.DefaultCategory); err != nil {
		return fmt.Errorf("invalid ui.default_category: %w", err)
	}
	if c.Catalog.Timeout <= 0 || c.Auth.Timeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

// DefaultCategory returns the category to browse at start-up
func (c *Config) DefaultCategory() domain.Category {
	cat, err := domain.ParseCategory(c.UI.DefaultCategory)
	if err != nil {
		return domain.CategoryAll
	}
	return cat
}

// IsConfigured returns true if a catalog API key is set
func (c *Config) IsConfigured() bool {
	return c.Catalog.APIKey != ""
}

// expandHome replaces a leading ~ with the home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
