// Package config holds the YAML configuration of the connector server
// and the defaults applied to omitted sections.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quarrydb/native-connector-go/common"
)

type EndpointConfig struct {
	Host string `yaml:"host"`
	Port uint32 `yaml:"port"`
}

func (e *EndpointConfig) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

type LoggerConfig struct {
	LogLevel              string `yaml:"log_level"`
	EnableSQLQueryLogging bool   `yaml:"enable_sql_query_logging"`
}

func (c *LoggerConfig) GetLogLevel() string { return c.LogLevel }

func (c *LoggerConfig) GetEnableSQLQueryLogging() bool { return c.EnableSQLQueryLogging }

type ExponentialBackoffConfig struct {
	InitialInterval     string  `yaml:"initial_interval"`
	RandomizationFactor float64 `yaml:"randomization_factor"`
	Multiplier          float64 `yaml:"multiplier"`
	MaxInterval         string  `yaml:"max_interval"`
	MaxElapsedTime      string  `yaml:"max_elapsed_time"`
}

type PushdownConfig struct {
	EnableTimestampPushdown bool `yaml:"enable_timestamp_pushdown"`
}

// MetastoreConfig describes the PostgreSQL database backing the catalog.
type MetastoreConfig struct {
	ConnectionString string `yaml:"connection_string"`
	ConnectorID      string `yaml:"connector_id"`
	MaxOpenConns     int    `yaml:"max_open_conns"`
	MaxIdleConns     int    `yaml:"max_idle_conns"`
	ConnMaxLifetime  string `yaml:"conn_max_lifetime"`

	ExponentialBackoff *ExponentialBackoffConfig `yaml:"exponential_backoff"`
}

// DataSourceConfig is the per-backend connection tuning shared by all
// external data source kinds.
type DataSourceConfig struct {
	OpenConnectionTimeout string `yaml:"open_connection_timeout"`
	PingConnectionTimeout string `yaml:"ping_connection_timeout"`

	ExponentialBackoff *ExponentialBackoffConfig `yaml:"exponential_backoff"`
	Pushdown           *PushdownConfig           `yaml:"pushdown"`
}

func (c *DataSourceConfig) GetOpenConnectionTimeout() string { return c.OpenConnectionTimeout }

func (c *DataSourceConfig) GetPingConnectionTimeout() string { return c.PingConnectionTimeout }

type DatasourcesConfig struct {
	PostgreSQL *DataSourceConfig `yaml:"postgresql"`
	MySQL      *DataSourceConfig `yaml:"mysql"`
	ClickHouse *DataSourceConfig `yaml:"clickhouse"`
	SQLite     *DataSourceConfig `yaml:"sqlite"`
}

type ServerConfig struct {
	APIEndpoint     *EndpointConfig `yaml:"api_endpoint"`
	MetricsEndpoint *EndpointConfig `yaml:"metrics_endpoint"`
	PprofEndpoint   *EndpointConfig `yaml:"pprof_endpoint"`

	Logger      *LoggerConfig      `yaml:"logger"`
	Metastore   *MetastoreConfig   `yaml:"metastore"`
	Datasources *DatasourcesConfig `yaml:"datasources"`
}

func makeDefaultExponentialBackoffConfig() *ExponentialBackoffConfig {
	return &ExponentialBackoffConfig{
		InitialInterval:     "500ms",
		RandomizationFactor: 0.25,
		Multiplier:          1.5,
		MaxInterval:         "10s",
		MaxElapsedTime:      "1m",
	}
}

func makeDefaultDataSourceConfig() *DataSourceConfig {
	return &DataSourceConfig{
		OpenConnectionTimeout: "5s",
		PingConnectionTimeout: "5s",
	}
}

func fillDataSourceConfigDefaults(c *DataSourceConfig) {
	if c.OpenConnectionTimeout == "" {
		c.OpenConnectionTimeout = "5s"
	}

	if c.PingConnectionTimeout == "" {
		c.PingConnectionTimeout = "5s"
	}

	if c.ExponentialBackoff == nil {
		c.ExponentialBackoff = makeDefaultExponentialBackoffConfig()
	}

	if c.Pushdown == nil {
		c.Pushdown = &PushdownConfig{}
	}
}

func fillServerConfigDefaults(c *ServerConfig) {
	if c.APIEndpoint == nil {
		c.APIEndpoint = &EndpointConfig{Host: "localhost", Port: 2130}
	}

	if c.Logger == nil {
		c.Logger = &LoggerConfig{
			LogLevel:              "info",
			EnableSQLQueryLogging: false,
		}
	}

	if c.Metastore == nil {
		c.Metastore = &MetastoreConfig{}
	}

	if c.Metastore.ConnectorID == "" {
		c.Metastore.ConnectorID = "default"
	}

	if c.Metastore.MaxOpenConns == 0 {
		c.Metastore.MaxOpenConns = 10
	}

	if c.Metastore.MaxIdleConns == 0 {
		c.Metastore.MaxIdleConns = 5
	}

	if c.Metastore.ConnMaxLifetime == "" {
		c.Metastore.ConnMaxLifetime = "30m"
	}

	if c.Metastore.ExponentialBackoff == nil {
		c.Metastore.ExponentialBackoff = makeDefaultExponentialBackoffConfig()
	}

	if c.Datasources == nil {
		c.Datasources = &DatasourcesConfig{}
	}

	if c.Datasources.PostgreSQL == nil {
		c.Datasources.PostgreSQL = makeDefaultDataSourceConfig()
	}

	if c.Datasources.MySQL == nil {
		c.Datasources.MySQL = makeDefaultDataSourceConfig()
	}

	if c.Datasources.ClickHouse == nil {
		c.Datasources.ClickHouse = makeDefaultDataSourceConfig()
	}

	if c.Datasources.SQLite == nil {
		c.Datasources.SQLite = makeDefaultDataSourceConfig()
	}

	for _, ds := range []*DataSourceConfig{
		c.Datasources.PostgreSQL,
		c.Datasources.MySQL,
		c.Datasources.ClickHouse,
		c.Datasources.SQLite,
	} {
		fillDataSourceConfigDefaults(ds)
	}
}

func validateServerConfig(c *ServerConfig) error {
	if c.APIEndpoint.Port == 0 {
		return fmt.Errorf("api_endpoint: port is required")
	}

	if c.Metastore.ConnectionString == "" {
		return fmt.Errorf("metastore: connection_string is required")
	}

	if _, err := common.DurationFromString(c.Metastore.ConnMaxLifetime); err != nil {
		return fmt.Errorf("metastore: conn_max_lifetime: %w", err)
	}

	for name, ds := range map[string]*DataSourceConfig{
		"postgresql": c.Datasources.PostgreSQL,
		"mysql":      c.Datasources.MySQL,
		"clickhouse": c.Datasources.ClickHouse,
		"sqlite":     c.Datasources.SQLite,
	} {
		if _, err := common.DurationFromString(ds.OpenConnectionTimeout); err != nil {
			return fmt.Errorf("datasources: %s: open_connection_timeout: %w", name, err)
		}

		if _, err := common.DurationFromString(ds.PingConnectionTimeout); err != nil {
			return fmt.Errorf("datasources: %s: ping_connection_timeout: %w", name, err)
		}
	}

	return nil
}

// NewServerConfigFromFile reads the YAML config, fills the defaults for
// omitted sections and validates the result.
func NewServerConfigFromFile(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file '%s': %w", path, err)
	}

	var cfg ServerConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	fillServerConfigDefaults(&cfg)

	if err := validateServerConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
