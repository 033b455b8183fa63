// Package config loads the netmatch runner configuration: shared eAPI
// connection settings, credentials, and per-device overrides. There is
// no package-level configuration state; callers pass the loaded Config
// to constructors explicitly.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/netmatch-network/netmatch/pkg/util"
)

// Environment variables consulted when the config file leaves the
// shared credentials empty.
const (
	EnvUsername = "NETWORK_USERNAME"
	EnvPassword = "NETWORK_PASSWORD"
)

const (
	defaultTimeout = 60 * time.Second
	defaultPort    = 443
)

// Auth carries the eAPI credentials shared by all devices.
type Auth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Device overrides the shared connection settings for one device.
// Zero-valued fields inherit the shared value; Insecure is a pointer
// so an explicit false can override a true default.
type Device struct {
	Host     string        `yaml:"host,omitempty"`
	Port     int           `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Timeout  time.Duration `yaml:"timeout,omitempty" validate:"min=0"`
	Insecure *bool         `yaml:"insecure,omitempty"`
	Username string        `yaml:"username,omitempty"`
	Password string        `yaml:"password,omitempty"`
}

// Config is the runner configuration.
type Config struct {
	Auth     Auth          `yaml:"auth,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" validate:"min=0"`
	Port     int           `yaml:"port,omitempty" validate:"min=1,max=65535"`
	Insecure bool          `yaml:"insecure,omitempty"`

	// TransceiverModels maps device-reported transceiver model names
	// to the names the design uses for them.
	TransceiverModels map[string]string `yaml:"transceiver_models,omitempty"`

	// AuditLog is the path of the JSON-lines trail recording config
	// operations. Empty disables audit logging.
	AuditLog string `yaml:"audit_log,omitempty"`

	Devices map[string]Device `yaml:"devices,omitempty" validate:"dive"`
}

// Settings is the effective connection profile for one device after
// per-device overrides are applied to the shared values.
type Settings struct {
	Host     string
	Port     int
	Timeout  time.Duration
	Insecure bool
	Username string
	Password string
}

// Default returns a configuration with built-in defaults and
// credentials taken from the environment.
func Default() *Config {
	cfg := &Config{
		Timeout: defaultTimeout,
		Port:    defaultPort,
	}
	applyEnv(cfg)
	return cfg
}

// Load reads and decodes a YAML configuration file. Unknown keys are
// rejected. Defaults and environment credentials are applied before
// structural validation; credential presence is checked separately by
// Validate so callers can prompt first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	applyEnv(&cfg)

	if err := validateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if cfg.Auth.Username == "" {
		cfg.Auth.Username = os.Getenv(EnvUsername)
	}
	if cfg.Auth.Password == "" {
		cfg.Auth.Password = os.Getenv(EnvPassword)
	}
}

// Validate checks that credentials are present and the structural
// constraints hold. Called after any interactive credential prompt.
func (c *Config) Validate() error {
	if c.Auth.Username == "" {
		return fmt.Errorf("auth.username: %w", util.ErrMissingCredentials)
	}
	if c.Auth.Password == "" {
		return fmt.Errorf("auth.password: %w", util.ErrMissingCredentials)
	}
	return validateStruct(c)
}

// Device resolves the effective settings for the named device. The
// host defaults to the device name so simple inventories need no
// per-device entry at all.
func (c *Config) Device(name string) Settings {
	s := Settings{
		Host:     name,
		Port:     c.Port,
		Timeout:  c.Timeout,
		Insecure: c.Insecure,
		Username: c.Auth.Username,
		Password: c.Auth.Password,
	}
	d, ok := c.Devices[name]
	if !ok {
		return s
	}
	if d.Host != "" {
		s.Host = d.Host
	}
	if d.Port != 0 {
		s.Port = d.Port
	}
	if d.Timeout != 0 {
		s.Timeout = d.Timeout
	}
	if d.Insecure != nil {
		s.Insecure = *d.Insecure
	}
	if d.Username != "" {
		s.Username = d.Username
	}
	if d.Password != "" {
		s.Password = d.Password
	}
	return s
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

func validateStruct(cfg *Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	b := &util.ValidationBuilder{}
	for _, fe := range verrs {
		b.AddErrorf("%s fails %q constraint", fe.Namespace(), fe.Tag())
	}
	return b.Build()
}
