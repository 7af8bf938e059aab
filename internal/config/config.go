package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// ProviderResend delivers through the Resend REST API.
	ProviderResend = "resend"
	// ProviderSMTP delivers through an SMTP relay.
	ProviderSMTP = "smtp"
)

// Config represents the application configuration structure.
type Config struct {
	// Environment specifies the current running environment (development, production)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits the size of a submission body
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"65536" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigin is the CORS origin allowed to call the API; empty allows any
		AllowedOrigin string `env:"HTTP_ALLOWED_ORIGIN" yaml:"allowedOrigin"`
		// Pprof mounts net/http/pprof under /debug/pprof/
		Pprof bool `env:"HTTP_PPROF" env-default:"false" yaml:"pprof"`
	} `yaml:"http"`

	// Mailer selects and configures the email delivery provider
	Mailer struct {
		// Provider is either "resend" or "smtp"
		Provider string `env:"MAILER_PROVIDER" env-default:"resend" yaml:"provider"`

		Resend struct {
			// APIKey authenticates against the Resend API. There is no default.
			APIKey string `env:"RESEND_API_KEY" yaml:"apiKey"`
			// BaseURL overrides the Resend API root
			BaseURL string `env:"RESEND_BASE_URL" env-default:"https://api.resend.com" yaml:"baseURL"`
			// Timeout bounds a single call to the Resend API
			Timeout time.Duration `env:"RESEND_TIMEOUT" env-default:"15s" yaml:"timeout"`
		} `yaml:"resend"`

		SMTP struct {
			Host     string `env:"SMTP_HOST" yaml:"host"`
			Port     int    `env:"SMTP_PORT" env-default:"587" yaml:"port"`
			Username string `env:"SMTP_USERNAME" yaml:"username"`
			Password string `env:"SMTP_PASSWORD" yaml:"password"`
		} `yaml:"smtp"`
	} `yaml:"mailer"`

	// Waitlist configures the signup notification
	Waitlist struct {
		// From is the sender identity of the notification
		From string `env:"WAITLIST_FROM" env-default:"Levercast Waitlist <onboarding@resend.dev>" yaml:"from"`
		// Recipient is the fixed address that receives every signup notification
		Recipient string `env:"WAITLIST_RECIPIENT" yaml:"recipient"`
		// Subject is the notification subject line
		Subject string `env:"WAITLIST_SUBJECT" env-default:"New Levercast Waitlist Signup" yaml:"subject"`
	} `yaml:"waitlist"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for a yaml config file and returns a filled Config
// struct. Environment variables override file values; when the file does not
// exist the configuration is read from the environment alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the relay cannot run without. A missing
// provider credential is an error: the server never falls back to a built-in
// key.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mailer.Provider {
	case ProviderResend:
		if c.Mailer.Resend.APIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend provider"))
		}
	case ProviderSMTP:
		if c.Mailer.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mailer provider %q", c.Mailer.Provider))
	}

	if c.Waitlist.Recipient == "" {
		errs = append(errs, errors.New("WAITLIST_RECIPIENT is required"))
	}

	return errors.Join(errs...)
}
