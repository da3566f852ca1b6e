package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/koinonia-app/core/pkg/storage"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel int    `toml:"log_level"`

	Remote   RemoteConfigs     `toml:"remote"`
	Storage  storage.S3Configs `toml:"storage"`
	File     FileConfigs       `toml:"file"`
	Feedback FeedbackConfigs   `toml:"feedback"`
	Cooldown CooldownConfigs   `toml:"cooldown"`
}

type RemoteConfigs struct {
	Endpoint         string `toml:"endpoint"`
	RealtimeEndpoint string `toml:"realtime_endpoint"`
	APIKey           string `toml:"api_key"`
}

type FileConfigs struct {
	MaxSize     int64  `toml:"max_size"`
	ImageBucket string `toml:"image_bucket"`
}

type FeedbackConfigs struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

func (c FeedbackConfigs) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 5 * time.Second
	}

	return time.Duration(c.TTLSeconds) * time.Second
}

type CooldownConfigs struct {
	WindowSeconds int `toml:"window_seconds"`
}

func (c CooldownConfigs) Window() time.Duration {
	if c.WindowSeconds < 0 {
		return 0
	}

	if c.WindowSeconds == 0 {
		return 2 * time.Second
	}

	return time.Duration(c.WindowSeconds) * time.Second
}

// Load reads a TOML config file and applies environment overrides for the
// remote credentials, which should not live on disk in deployments.
func Load(path string) (*Configs, error) {
	var cfg Configs
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("REMOTE_ENDPOINT"); v != "" {
		cfg.Remote.Endpoint = v
	}

	if v := os.Getenv("REMOTE_REALTIME_ENDPOINT"); v != "" {
		cfg.Remote.RealtimeEndpoint = v
	}

	if v := os.Getenv("REMOTE_API_KEY"); v != "" {
		cfg.Remote.APIKey = v
	}

	if cfg.File.ImageBucket == "" {
		cfg.File.ImageBucket = "images"
	}

	return &cfg, nil
}
