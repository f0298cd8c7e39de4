// Package config loads the service configuration: listen address, the
// persistence backend to mount behind the store interface, and the static
// credential list.
package config

import (
	"fmt"
	"os"

	"bugtracker-api/internal/models"

	"github.com/spf13/viper"
)

// Backend names accepted in store.backend.
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// SQLiteConfig configures the local durable backend.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// MongoConfig configures the remote document backend.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// StoreConfig selects and configures the persistence backend. The choice is
// made once at startup; callers only ever see the store interface.
type StoreConfig struct {
	Backend string       `mapstructure:"backend"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	Mongo   MongoConfig  `mapstructure:"mongo"`
}

// Config is the full service configuration.
type Config struct {
	Listen string        `mapstructure:"listen"`
	Seed   bool          `mapstructure:"seed"`
	Store  StoreConfig   `mapstructure:"store"`
	Users  []models.User `mapstructure:"users"`
}

// Default returns the built-in configuration: sqlite backend, seeded board,
// and the fixed two-user credential list.
func Default() *Config {
	return &Config{
		Listen: ":8008",
		Seed:   true,
		Store: StoreConfig{
			Backend: BackendSQLite,
			SQLite:  SQLiteConfig{Path: "bugtracker.db"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "bugtracker"},
		},
		Users: []models.User{
			{Username: "Rupali", Password: "RUPAli@123", Role: models.RoleDeveloper},
			{Username: "Upasana", Password: "Faltyx@123", Role: models.RoleManager},
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	for _, u := range c.Users {
		if u.Role != models.RoleDeveloper && u.Role != models.RoleManager {
			return fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
		}
	}
	return nil
}
