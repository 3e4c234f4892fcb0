// Package config loads odatagen.yaml and the credentials used to reach SAP
// Gateway services.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the base name of the configuration file.
const FileName = "odatagen"

// EnvPrefix prefixes environment overrides, e.g. ODATAGEN_OUTPUT_DIR.
const EnvPrefix = "ODATAGEN"

// Credential environment variables, also read from .env.
const (
	EnvUser     = "SAP_USER"
	EnvPassword = "SAP_PASSWORD"
)

// Config represents the odatagen configuration
type Config struct {
	OutputDir    string     `mapstructure:"output_dir"`
	Package      string     `mapstructure:"package"`
	MetadataView bool       `mapstructure:"metadata_view"`
	Services     []Service  `mapstructure:"services"`
	HTTP         HTTPConfig `mapstructure:"http"`

	// Dir is the directory relative paths are resolved against.
	Dir string `mapstructure:"-"`
}

// Service is one metadata document to generate code for.
type Service struct {
	Name      string `mapstructure:"name"`
	Input     string `mapstructure:"input"`
	Namespace string `mapstructure:"namespace"`
	Package   string `mapstructure:"package"`
	Output    string `mapstructure:"output"`
	// MetadataView overrides the top-level setting when set.
	MetadataView *bool `mapstructure:"metadata_view"`
	// BaseURL is the OData service root used by fetch. It defaults to
	// http.base_url.
	BaseURL   string `mapstructure:"base_url"`
	SAPClient string `mapstructure:"sap_client"`
}

// HTTPConfig configures the fetch client.
type HTTPConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// Credentials authenticate against SAP Gateway.
type Credentials struct {
	User     string
	Password string
}

// Load reads the configuration. An empty path looks for odatagen.yaml (or
// .yml) in the current directory; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("output_dir", "gen")
	v.SetDefault("package", "odata")
	v.SetDefault("metadata_view", false)
	v.SetDefault("http.timeout", 20*time.Second)
	v.SetDefault("http.retries", 3)

	dir := "."
	if path != "" {
		v.SetConfigFile(path)
		dir = filepath.Dir(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks service entries and package names.
func (c *Config) Validate() error {
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q is not a valid Go identifier", c.Package)
	}
	seen := make(map[string]bool)
	for i, s := range c.Services {
		if s.Name == "" {
			return fmt.Errorf("services[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("services[%d]: duplicate service name %q", i, s.Name)
		}
		seen[s.Name] = true
		if s.Input == "" {
			return fmt.Errorf("service %q: input is required", s.Name)
		}
		if s.Namespace == "" {
			return fmt.Errorf("service %q: namespace is required", s.Name)
		}
		if s.Package != "" && !token.IsIdentifier(s.Package) {
			return fmt.Errorf("service %q: package %q is not a valid Go identifier", s.Name, s.Package)
		}
	}
	return nil
}

// ServiceNames lists the configured services in file order.
func (c *Config) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		names = append(names, s.Name)
	}
	return names
}

// Service returns the named service with defaults applied.
func (c *Config) Service(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return c.resolve(s), true
		}
	}
	return Service{}, false
}

// Resolved returns every service with defaults applied.
func (c *Config) Resolved() []Service {
	out := make([]Service, 0, len(c.Services))
	for _, s := range c.Services {
		out = append(out, c.resolve(s))
	}
	return out
}

// resolve fills the service from the top-level settings and makes its paths
// relative to the configuration directory.
func (c *Config) resolve(s Service) Service {
	if s.Package == "" {
		s.Package = c.Package
	}
	if s.Output == "" {
		s.Output = c.OutputDir
	}
	if s.MetadataView == nil {
		view := c.MetadataView
		s.MetadataView = &view
	}
	if s.BaseURL == "" {
		s.BaseURL = c.HTTP.BaseURL
	}
	s.Input = c.path(s.Input)
	s.Output = c.path(s.Output)
	return s
}

func (c *Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" || c.Dir == "." {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// WantsMetadataView reports the effective metadata_view setting.
func (s Service) WantsMetadataView() bool {
	return s.MetadataView != nil && *s.MetadataView
}

// LoadCredentials reads SAP_USER and SAP_PASSWORD, first loading dir/.env
// when it exists. Variables already set in the environment win.
func LoadCredentials(dir string) (Credentials, error) {
	envFile := filepath.Join(dir, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return Credentials{
		User:     os.Getenv(EnvUser),
		Password: os.Getenv(EnvPassword),
	}, nil
}
