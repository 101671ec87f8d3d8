package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Server holds the settings of the server subcommand.
type Server struct {
	Addr        string `env:"CAMPAIGNKEEPER_ADDR" envDefault:":8080"`
	DBPath      string `env:"CAMPAIGNKEEPER_DB_PATH" envDefault:"campaignkeeper.db"`
	RPCSocket   string `env:"CAMPAIGNKEEPER_RPC_SOCKET" envDefault:"/tmp/campaignkeeper.sock"`
	ImagesDir   string `env:"CAMPAIGNKEEPER_IMAGES_DIR" envDefault:"data/images"`
	MaxUploadMB int64  `env:"CAMPAIGNKEEPER_MAX_UPLOAD_MB" envDefault:"10"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if cfg.MaxUploadMB <= 0 {
		return Server{}, fmt.Errorf("CAMPAIGNKEEPER_MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}

func (s Server) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
