package config

import (
	"fmt"
	"os"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	ChainTypeTendermint = "tendermint"
	ChainTypeLcd        = "lcd"
	ChainTypeEth        = "eth"

	DbDriverMysql    = "mysql"
	DbDriverPostgres = "postgres"
	DbDriverSqlite   = "sqlite3"

	DefaultRpcTimeout   = 5_000
	DefaultWaitTimeout  = 30_000
	DefaultPollInterval = 300
	DefaultCacheSize    = 1_000
)

type Chain struct {
	Chain string   `toml:"chain" validate:"required"`
	Type  string   `toml:"type" validate:"required,oneof=tendermint lcd eth"`
	Rpcs  []string `toml:"rpcs" validate:"required,min=1,dive,url"`

	// All durations are in milliseconds.
	RpcTimeout   int `toml:"rpc_timeout" validate:"gte=0"`
	WaitTimeout  int `toml:"wait_timeout" validate:"gte=0"`
	PollInterval int `toml:"poll_interval" validate:"gte=0"`
}

type Config struct {
	DbDriver   string `toml:"db_driver" validate:"omitempty,oneof=mysql postgres sqlite3"`
	DbHost     string `toml:"db_host"`
	DbPort     int    `toml:"db_port"`
	DbUsername string `toml:"db_username"`
	DbPassword string `toml:"db_password"`
	DbSchema   string `toml:"db_schema"`
	InMemory   bool   `toml:"in_memory"`

	ServerPort  int    `toml:"server_port" validate:"gte=0,lte=65535"`
	UpstreamUrl string `toml:"upstream_url"`
	CacheSize   int    `toml:"cache_size" validate:"gte=0"`

	Chains map[string]Chain `toml:"chains" validate:"required,min=1,dive"`
}

// Load reads a TOML config file, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func ApplyDefaults(cfg *Config) {
	if cfg.DbDriver == "" {
		cfg.DbDriver = DbDriverMysql
	}
	if cfg.InMemory {
		cfg.DbDriver = DbDriverSqlite
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}

	for id, chain := range cfg.Chains {
		if chain.Chain == "" {
			chain.Chain = id
		}
		if chain.RpcTimeout == 0 {
			chain.RpcTimeout = DefaultRpcTimeout
		}
		if chain.WaitTimeout == 0 {
			chain.WaitTimeout = DefaultWaitTimeout
		}
		if chain.PollInterval == 0 {
			chain.PollInterval = DefaultPollInterval
		}
		cfg.Chains[id] = chain
	}
}

func (cfg *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	// sqlite3 stores the db in a local file named after the schema.
	if !cfg.InMemory && cfg.DbDriver != DbDriverSqlite && cfg.DbHost == "" {
		return fmt.Errorf("db host cannot be empty")
	}

	return nil
}

// WriteConfig renders cfg with ConfigTemplate into path.
func WriteConfig(cfg *Config, path string) error {
	tmpl, err := template.New("config").Parse(ConfigTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, cfg)
}
