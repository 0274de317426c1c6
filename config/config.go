package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // meet-server
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrationsPath"`
}

type Auth struct {
	Secret string `yaml:"secret"` // shared secret of the gateway's HS256 tokens
}

type JaaS struct {
	AppID          string `yaml:"appId"`
	APIKey         string `yaml:"apiKey"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
	APIBase        string `yaml:"apiBase"`
	WebhookSecret  string `yaml:"webhookSecret"` // empty disables signature checks
}

type Payments struct {
	URL string `yaml:"url"`
}

type Users struct {
	URL string `yaml:"url"`
}

type Avatars struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Auth     Auth     `yaml:"auth"`
	JaaS     JaaS     `yaml:"jaas"`
	Payments Payments `yaml:"payments"`
	Users    Users    `yaml:"users"`
	Avatars  Avatars  `yaml:"avatars"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.JaaS.AppID == "" || c.JaaS.APIKey == "" || c.JaaS.PrivateKeyPath == "" {
		return errors.New("jaas.appId, jaas.apiKey and jaas.privateKeyPath are required")
	}
	if c.Payments.URL == "" {
		return errors.New("payments.url is required")
	}
	if c.Users.URL == "" {
		return errors.New("users.url is required")
	}
	// defaults
	if c.Postgres.MigrationsPath == "" {
		c.Postgres.MigrationsPath = "file://migrations"
	}
	if c.JaaS.APIBase == "" {
		c.JaaS.APIBase = "https://api.8x8.vc/v1/rooms"
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "meet-server"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}
