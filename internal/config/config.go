// Package config loads the service configuration.
//
// Sources, lowest priority first:
//  1. Defaults (Default)
//  2. YAML file named by CONFIG_FILE, when set
//  3. Environment variables (envconfig tags, e.g. SERVER_PORT, STORE_BACKEND)
//
// cmd/api loads a .env file into the environment before calling Load.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment represents the deployment environment
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendDynamoDB = "dynamodb"
)

// Config is the complete service configuration.
type Config struct {
	Environment    Environment          `yaml:"environment" envconfig:"APP_ENV" validate:"required,oneof=development staging production"`
	Server         ServerConfig         `yaml:"server" envconfig:"SERVER"`
	Logging        LoggingConfig        `yaml:"logging" envconfig:"LOG"`
	Store          StoreConfig          `yaml:"store" envconfig:"STORE"`
	Badger         BadgerConfig         `yaml:"badger" envconfig:"BADGER"`
	DynamoDB       DynamoDBConfig       `yaml:"dynamodb" envconfig:"DYNAMODB"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker" envconfig:"CIRCUIT_BREAKER"`
	Events         EventsConfig         `yaml:"events" envconfig:"EVENTS"`
	Metrics        MetricsConfig        `yaml:"metrics" envconfig:"METRICS"`
	Tracing        TracingConfig        `yaml:"tracing" envconfig:"TRACING"`
	CORS           CORSConfig           `yaml:"cors" envconfig:"CORS"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host" split_words:"true"`
	// Read from SERVER_PORT, falling back to the platform-provided PORT.
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"readTimeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" split_words:"true" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"requestTimeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" split_words:"true" validate:"gt=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logger settings. Level can change at runtime.
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=json console"`
}

// StoreConfig selects the item store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" split_words:"true" validate:"oneof=memory badger dynamodb"`
	// Seed writes the two sample items into a persistent store that has never
	// issued an id. The memory store is always seeded.
	Seed bool `yaml:"seed" split_words:"true"`
}

// BadgerConfig configures the embedded store. An empty Dir keeps data in memory.
type BadgerConfig struct {
	Dir string `yaml:"dir" split_words:"true"`
}

// DynamoDBConfig configures the DynamoDB store.
type DynamoDBConfig struct {
	TableName string `yaml:"tableName" split_words:"true"`
	Region    string `yaml:"region" split_words:"true"`
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string `yaml:"endpoint" split_words:"true" validate:"omitempty,url"`
}

// CircuitBreakerConfig guards remote stores.
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled" split_words:"true"`
	MaxRequests      uint32        `yaml:"maxRequests" split_words:"true" validate:"gte=1"`
	Interval         time.Duration `yaml:"interval" split_words:"true"`
	Timeout          time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
	FailureThreshold float64       `yaml:"failureThreshold" split_words:"true" validate:"gt=0,lte=1"`
	MinRequests      uint32        `yaml:"minRequests" split_words:"true" validate:"gte=1"`
}

// EventsConfig controls item event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	BusName string `yaml:"eventBusName" split_words:"true"`
	Source  string `yaml:"source" split_words:"true"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" split_words:"true"`
	Namespace string `yaml:"namespace" split_words:"true" validate:"required"`
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" split_words:"true"`
	ServiceName string  `yaml:"serviceName" split_words:"true" validate:"required"`
	Endpoint    string  `yaml:"endpoint" split_words:"true"`
	Insecure    bool    `yaml:"insecure" split_words:"true"`
	SampleRatio float64 `yaml:"sampleRatio" split_words:"true" validate:"gte=0,lte=1"`
}

// CORSConfig is passed to go-chi/cors.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins" split_words:"true"`
	AllowedMethods   []string `yaml:"allowedMethods" split_words:"true"`
	AllowedHeaders   []string `yaml:"allowedHeaders" split_words:"true"`
	AllowCredentials bool     `yaml:"allowCredentials" split_words:"true"`
	MaxAge           int      `yaml:"maxAge" split_words:"true" validate:"gte=0"`
}

// Default returns the configuration used when no file or environment
// variable overrides a value.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Seed:    true,
		},
		DynamoDB: DynamoDBConfig{
			TableName: "sample-items",
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.8,
			MinRequests:      5,
		},
		Events: EventsConfig{
			BusName: "default",
			Source:  "sample-api.items",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "sample_api",
		},
		Tracing: TracingConfig{
			ServiceName: "sample-api",
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 1,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the rules that span sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Store.Backend == BackendDynamoDB && c.DynamoDB.TableName == "" {
		return errors.New("invalid configuration: dynamodb.tableName is required for the dynamodb backend")
	}
	if c.Events.Enabled && c.Events.BusName == "" {
		return errors.New("invalid configuration: events.eventBusName is required when events are enabled")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return errors.New("invalid configuration: tracing.endpoint is required when tracing is enabled")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
