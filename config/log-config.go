package config

type LogConfig struct {
	Level string `yaml:"level"`
}

func NewLogConfig() *LogConfig {
	return &LogConfig{
		Level: "info",
	}
}
