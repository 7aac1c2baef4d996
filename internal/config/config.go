package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type CookieConfig struct {
	Name     string `mapstructure:"name"`
	Domain   string `mapstructure:"domain"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type IndexingConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	BatchMax        int    `mapstructure:"batch_max"`
	BatchDelayMS    int    `mapstructure:"batch_delay_ms"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type AppSubConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cookie   CookieConfig   `mapstructure:"cookie"`
	Indexing IndexingConfig `mapstructure:"indexing"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. STIDX_SERVER_PORT=9000
		v.SetEnvPrefix("STIDX") // stellar indexer
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		c.ApplyDefaults()
		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// ApplyDefaults 给未配置的字段填入默认值
func (c *Config) ApplyDefaults() {
	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 168 // 7 天
	}
	if c.Cookie.Name == "" {
		c.Cookie.Name = "token"
	}
	if c.Cookie.SameSite == "" {
		c.Cookie.SameSite = "lax"
	}
	if c.Indexing.BatchMax <= 0 {
		c.Indexing.BatchMax = 50
	}
	if c.Indexing.BatchDelayMS <= 0 {
		c.Indexing.BatchDelayMS = 1000
	}
	if c.App.HistoryLimit <= 0 {
		c.App.HistoryLimit = 50
	}
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
