package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// TaskProfile configures one recurring-task countdown. The countdown
// screen is a single component parameterized by a profile rather than a
// separate screen per task.
type TaskProfile struct {
	// Name is the task label shown in headings ("Car wash due in...").
	Name string `mapstructure:"name" yaml:"name"`

	// FrequencyMS is the repeat interval in milliseconds.
	FrequencyMS int64 `mapstructure:"frequency_ms" yaml:"frequency_ms"`

	// ReminderPicker enables the explicit set-reminder form on the
	// countdown screen.
	ReminderPicker bool `mapstructure:"reminder_picker" yaml:"reminder_picker"`
}

// APIConfig holds settings for the remote auth API.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// NotificationsConfig holds settings for local notification scheduling.
type NotificationsConfig struct {
	// Enabled acts as the notification permission switch; when false,
	// permission requests are denied.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API           APIConfig           `mapstructure:"api" yaml:"api"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Task          TaskProfile         `mapstructure:"task" yaml:"task"`
	Display       DisplayConfig       `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/shoppinglist/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "shoppinglist", "config.yaml")
}

// DefaultDBPath returns the default path for the local database,
// located at ~/.config/shoppinglist/shoppinglist.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "shoppinglist.db")
	}
	return filepath.Join(home, ".config", "shoppinglist", "shoppinglist.db")
}

// defaultAppConfig returns a sensible default configuration: a weekly
// "Car wash" countdown with the reminder picker enabled.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		Task: TaskProfile{
			Name:           "Car wash",
			FrequencyMS:    7 * 24 * 3600 * 1000,
			ReminderPicker: true,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("task.name", "Car wash")
	v.SetDefault("task.frequency_ms", 7*24*3600*1000)
	v.SetDefault("task.reminder_picker", true)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Task.FrequencyMS <= 0 {
		cfg.Task.FrequencyMS = 7 * 24 * 3600 * 1000
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("notifications", cfg.Notifications)
	v.Set("task", cfg.Task)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
