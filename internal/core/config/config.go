package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// AdminToken is the bearer token required by the /admin routes.
	AdminToken string `mapstructure:"ADMIN_TOKEN" required:"true"`
	// DataProvider selects the catalog backend: "fixture" or "live".
	DataProvider string `mapstructure:"DATA_PROVIDER" default:"live"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Cart holds the cart storage configuration.
	Cart CartConfig `mapstructure:",squash"`

	// Inference holds the image analysis backend configuration.
	Inference InferenceConfig `mapstructure:",squash"`

	// Events holds the message broker configuration.
	Events EventsConfig `mapstructure:",squash"`

	// Tickets holds the repair ticket configuration.
	Tickets TicketsConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// DSN is the sqlite data source name.
	DSN string `mapstructure:"DB_DSN" default:"repairshop.db"`
}

// CartConfig holds the durable cart slot settings.
type CartConfig struct {
	// RedisURL is the connection URL of the key-value store holding carts.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// KeyPrefix is the fixed key under which each session cart is stored.
	KeyPrefix string `mapstructure:"CART_KEY_PREFIX" default:"sat_cart"`
	// TTLHours is how long an untouched cart survives. 0 keeps it forever.
	TTLHours int `mapstructure:"CART_TTL_HOURS" default:"720"`
}

// InferenceConfig holds the credentials for the image analysis backend.
type InferenceConfig struct {
	// APIKey is the Gemini API key. When empty the demo analyzer is used.
	APIKey string `mapstructure:"GEMINI_API_KEY"`
	// URL is the base URL of the Gemini API.
	URL string `mapstructure:"GEMINI_URL" default:"https://generativelanguage.googleapis.com"`
	// Model is the model used for generateContent calls.
	Model string `mapstructure:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	// TimeoutSeconds bounds a single inference call.
	TimeoutSeconds int `mapstructure:"INFERENCE_TIMEOUT_SECONDS" default:"30"`
}

// EventsConfig holds the message broker settings.
type EventsConfig struct {
	// AMQPURL is the broker URL. When empty events are only logged.
	AMQPURL string `mapstructure:"AMQP_URL"`
	// Queue is the durable queue receiving ticket and order events.
	Queue string `mapstructure:"AMQP_QUEUE" default:"sat_events"`
}

// TicketsConfig holds repair ticket behaviour switches.
type TicketsConfig struct {
	// StrictTransitions enables forward-only status transitions.
	StrictTransitions bool `mapstructure:"TICKET_STRICT_TRANSITIONS" default:"false"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
