package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk daemon configuration, loaded from TOML and then
// overridden by whichever CLI flags the caller set.
type Config struct {
	StoreDir          string `toml:"store_dir"`
	BindAddr          string `toml:"bind_addr"`
	IndexerPath       string `toml:"indexer_path"`
	SearcherPath      string `toml:"searcher_path"`
	DefaultMaxResults int    `toml:"default_max_results"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("csindexd: read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("csindexd: parse config %s: %w", path, err)
	}
	return cfg, nil
}
