package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	ExternalSimulated = "simulated"
	ExternalHTTP      = "http"
)

type Config struct {
	Service    ServiceConfig
	Server     ServerConfig
	Metrics    MetricsConfig
	Storage    StorageConfig
	External   ExternalConfig
	Simulation SimulationConfig
	LogLevel   string
}

type ServiceConfig struct {
	Name string
}

type ServerConfig struct {
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	HandlerTimeout  int
}

type MetricsConfig struct {
	Quantiles []float64
}

type StorageConfig struct {
	Type        string
	PostgresURL string
}

type ExternalConfig struct {
	Type    string
	URL     string
	Timeout int
}

type SimulationConfig struct {
	MaxSleep float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/hello-world")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("HELLO_WORLD")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "hello-world")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.handler_timeout", 25)
	v.SetDefault("metrics.quantiles", []string{})
	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("external.type", ExternalSimulated)
	v.SetDefault("external.url", "")
	v.SetDefault("external.timeout", 5)
	v.SetDefault("simulation.max_sleep", 10)
	v.SetDefault("log_level", "info")
}

func fromViper(v *viper.Viper) (*Config, error) {
	quantiles, err := parseQuantiles(v.GetStringSlice("metrics.quantiles"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name: v.GetString("service.name"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetInt("server.read_timeout"),
			WriteTimeout:    v.GetInt("server.write_timeout"),
			ShutdownTimeout: v.GetInt("server.shutdown_timeout"),
			HandlerTimeout:  v.GetInt("server.handler_timeout"),
		},
		Metrics: MetricsConfig{
			Quantiles: quantiles,
		},
		Storage: StorageConfig{
			Type:        v.GetString("storage.type"),
			PostgresURL: v.GetString("storage.postgres_url"),
		},
		External: ExternalConfig{
			Type:    v.GetString("external.type"),
			URL:     v.GetString("external.url"),
			Timeout: v.GetInt("external.timeout"),
		},
		Simulation: SimulationConfig{
			MaxSleep: v.GetFloat64("simulation.max_sleep"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseQuantiles accepts both a yaml list and a comma or space separated env value.
func parseQuantiles(raw []string) ([]float64, error) {
	var quantiles []float64
	for _, item := range raw {
		for _, field := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			q, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid metrics quantile %q: %w", field, err)
			}
			if q <= 0 || q >= 1 {
				return nil, fmt.Errorf("metrics quantile %v must be between 0 and 1", q)
			}
			quantiles = append(quantiles, q)
		}
	}
	return quantiles, nil
}

func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return errors.New("service.name must not be empty")
	}

	// The handler has to give up before net/http drops the connection,
	// otherwise the client never sees the timeout response.
	if c.Server.HandlerTimeout <= 0 {
		return errors.New("server.handler_timeout must be positive")
	}
	if c.Server.WriteTimeout > 0 && c.Server.HandlerTimeout >= c.Server.WriteTimeout {
		return fmt.Errorf("server.handler_timeout (%ds) must be shorter than server.write_timeout (%ds)",
			c.Server.HandlerTimeout, c.Server.WriteTimeout)
	}
	if c.Simulation.MaxSleep < 0 {
		return errors.New("simulation.max_sleep must not be negative")
	}
	// /complex sleeps once per dependency.
	if 2*c.Simulation.MaxSleep >= float64(c.Server.HandlerTimeout) {
		return fmt.Errorf("twice simulation.max_sleep (%gs) must fit in server.handler_timeout (%ds)",
			c.Simulation.MaxSleep, c.Server.HandlerTimeout)
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("storage.postgres_url is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	switch c.External.Type {
	case ExternalSimulated:
	case ExternalHTTP:
		if c.External.URL == "" {
			return errors.New("external.url is required for http audit client")
		}
	default:
		return fmt.Errorf("unknown external type %q", c.External.Type)
	}

	return nil
}
