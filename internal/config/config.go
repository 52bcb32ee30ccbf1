package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Cargo struct {
		Bin       string   `yaml:"bin"`        // cargo binary to invoke
		BuildArgs []string `yaml:"build_args"` // extra args for `cargo build`
	} `yaml:"cargo"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config
	cfg.Cargo.Bin = "cargo"

	// 2. Load YAML config when present; running without one is fine
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present. Cargo sets CARGO
	// when dispatching to an external subcommand; CARGO_ARGS and
	// CARGO_BUILD_ARGS carry extra build arguments.
	if bin := os.Getenv("CARGO"); bin != "" {
		cfg.Cargo.Bin = bin
	}
	for _, key := range []string{"CARGO_ARGS", "CARGO_BUILD_ARGS"} {
		if v := os.Getenv(key); v != "" {
			cfg.Cargo.BuildArgs = append(cfg.Cargo.BuildArgs, strings.Fields(v)...)
		}
	}

	return &cfg, nil
}
