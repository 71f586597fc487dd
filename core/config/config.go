package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"feature-merge/core/criteria"
	"feature-merge/core/database"
	"feature-merge/core/logger"
	"feature-merge/core/metrics"
	"feature-merge/core/pipeline"
	"feature-merge/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the optional YAML file looked up next to the .env file.
const FileName = "feature-merge.yaml"

// Config holds all configuration for the application.
type Config struct {
	// Merge holds the merge options.
	Merge pipeline.Config `mapstructure:"merge"`
	// Storage holds configuration for the object storage used by s3:// paths.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Store holds configuration for the feature store backend.
	Store database.Config `mapstructure:"store"`
	// Metrics holds configuration for the metrics export.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// LoadConfig resolves configuration from, in increasing precedence, struct
// defaults, dir/feature-merge.yaml, dir/.env and the process environment.
func LoadConfig(dir string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")

	file := filepath.Join(dir, FileName)
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
	}

	// MERGE_IGNORE_STRAND -> merge.ignore_strand
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that are not validated by the components
// consuming them.
func (c *Config) Validate() error {
	var errs []error
	if !c.Store.IsValidDriver() {
		errs = append(errs, fmt.Errorf("unsupported store driver %q (want sqlite or mysql)", c.Store.Driver))
	}
	if t := c.Merge.Threshold; t != nil && *t < 0 {
		errs = append(errs, fmt.Errorf("merge %w: got %d", criteria.ErrInvalidThreshold, *t))
	}
	if c.Storage.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("storage timeout must be positive, got %d", c.Storage.TimeoutSeconds))
	}
	return errors.Join(errs...)
}

// registerDefaults walks the struct tree and registers every mapstructure key
// with its default tag. Keys must be registered for AutomaticEnv to see them;
// pointer fields are bound to the environment only so they stay nil when unset.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			registerDefaults(v, field.Type, key)
			continue
		}
		if field.Type.Kind() == reflect.Pointer {
			_ = v.BindEnv(key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
