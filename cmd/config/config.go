package config

import (
	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
	"path/filepath"
)

type Config struct {
	*tmcfg.Config
	ChainID string
}

func DefaultConfig() *Config {
	return &Config{
		Config:  tmcfg.DefaultConfig(),
		ChainID: "quadra-chain",
	}
}

// InMemConfig returns a config whose DB dir is empty, which makes the
// ctrlers run on in-memory ledgers. Used by tests and ephemeral hosts.
func InMemConfig() *Config {
	cfg := DefaultConfig()
	cfg.Config.DBPath = ""
	cfg.Config.RootDir = ""
	return cfg
}

func (cfg *Config) GenesisFile() string {
	return filepath.Join(cfg.RootDir, "config", "genesis.json")
}

// LoadConfig reads config.toml under home, falling back to defaults for
// anything not set.
func LoadConfig(home string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.SetRoot(home)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(home, "config"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, err
	}
	if err := v.Unmarshal(cfg.Config); err != nil {
		return nil, err
	}
	if chainID := v.GetString("chain_id"); chainID != "" {
		cfg.ChainID = chainID
	}
	return cfg, nil
}

func (cfg *Config) DBDir() string {
	if cfg.Config.RootDir == "" && cfg.Config.DBPath == "" {
		return ""
	}
	return cfg.Config.DBDir()
}
