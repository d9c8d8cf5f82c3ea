package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Reader *ReaderConfig `yaml:"reader"`
	Log    *LogConfig    `yaml:"log"`
}

func New() *AppConfig {
	return &AppConfig{
		Reader: NewReaderConfig(),
		Log:    NewLogConfig(),
	}
}

// Load reads a YAML file over the defaults of New. Keys missing from the
// file keep their default value.
func Load(path string) (*AppConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config '%s'", path)
	}

	cfg := New()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config '%s'", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config '%s'", path)
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Reader == nil {
		c.Reader = NewReaderConfig()
	}
	if c.Log == nil {
		c.Log = NewLogConfig()
	}
	if c.Reader.MaxDecodeDepth < 0 {
		return errors.Errorf("max_decode_depth must not be negative, got %d", c.Reader.MaxDecodeDepth)
	}
	if c.Reader.ReloadInterval < 0 {
		return errors.Errorf("reload_interval must not be negative, got %s", c.Reader.ReloadInterval)
	}
	return nil
}
