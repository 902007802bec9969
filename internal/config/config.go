package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type POConfig struct {
	Prefix      string
	SerialWidth int
}

type ProcureConfig struct {
	RateTolerancePct float64
	WriteMaxRetries  int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	PO          POConfig
	Procure     ProcureConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		PO: POConfig{
			Prefix:      v.GetString("PO_PREFIX"),
			SerialWidth: v.GetInt("PO_SERIAL_WIDTH"),
		},
		Procure: ProcureConfig{
			RateTolerancePct: v.GetFloat64("RATE_TOLERANCE_PCT"),
			WriteMaxRetries:  v.GetInt("WRITE_MAX_RETRIES"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.PO.Prefix == "" {
		cfg.PO.Prefix = "ZTPL"
	}
	if cfg.PO.SerialWidth == 0 {
		cfg.PO.SerialWidth = 3
	}
	if cfg.Procure.RateTolerancePct == 0 {
		cfg.Procure.RateTolerancePct = 10
	}
	if cfg.Procure.WriteMaxRetries == 0 {
		cfg.Procure.WriteMaxRetries = 3
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Procure.RateTolerancePct < 0 {
		return fmt.Errorf("RATE_TOLERANCE_PCT must not be negative")
	}
	return nil
}
