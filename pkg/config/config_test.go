package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/netmatch-network/netmatch/pkg/util"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netmatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
auth:
  username: admin
  password: secret
timeout: 90s
port: 8443
insecure: true
transceiver_models:
  SFP-10G-SR-X: SFP-10G-SR
audit_log: /var/log/netmatch/audit.log
devices:
  sw02:
    host: 10.0.0.12
    port: 443
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.Username != "admin" || cfg.Auth.Password != "secret" {
		t.Errorf("Auth = %+v, want admin/secret", cfg.Auth)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.Port != 8443 {
		t.Errorf("Port = %d, want 8443", cfg.Port)
	}
	if !cfg.Insecure {
		t.Error("Insecure = false, want true")
	}
	if got := cfg.TransceiverModels["SFP-10G-SR-X"]; got != "SFP-10G-SR" {
		t.Errorf("TransceiverModels[SFP-10G-SR-X] = %q, want SFP-10G-SR", got)
	}
	if cfg.AuditLog != "/var/log/netmatch/audit.log" {
		t.Errorf("AuditLog = %q, want /var/log/netmatch/audit.log", cfg.AuditLog)
	}
	if got := cfg.Devices["sw02"].Host; got != "10.0.0.12" {
		t.Errorf("Devices[sw02].Host = %q, want 10.0.0.12", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  username: admin
  password: secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s default", cfg.Timeout)
	}
	if cfg.Port != 443 {
		t.Errorf("Port = %d, want 443 default", cfg.Port)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, `
auth:
  username: admin
hostname: sw01
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() = nil error, want unknown-key rejection")
	}
	if !strings.Contains(err.Error(), "hostname") {
		t.Errorf("Load() error = %v, want mention of unknown key", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() = nil error for missing file")
	}
}

func TestLoadBadPort(t *testing.T) {
	path := writeConfig(t, `
auth:
  username: admin
port: 99999
`)

	_, err := Load(path)
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Errorf("Load() error = %v, want ErrValidationFailed", err)
	}
}

func TestLoadBadDevicePort(t *testing.T) {
	path := writeConfig(t, `
auth:
  username: admin
devices:
  sw02:
    port: -1
`)

	_, err := Load(path)
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Errorf("Load() error = %v, want ErrValidationFailed", err)
	}
}

func TestEnvFallback(t *testing.T) {
	t.Setenv(EnvUsername, "envuser")
	t.Setenv(EnvPassword, "envpass")

	path := writeConfig(t, "port: 443\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.Username != "envuser" || cfg.Auth.Password != "envpass" {
		t.Errorf("Auth = %+v, want environment credentials", cfg.Auth)
	}
}

func TestFileBeatsEnv(t *testing.T) {
	t.Setenv(EnvUsername, "envuser")
	t.Setenv(EnvPassword, "envpass")

	path := writeConfig(t, `
auth:
  username: fileuser
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.Username != "fileuser" {
		t.Errorf("Auth.Username = %q, want fileuser", cfg.Auth.Username)
	}
	if cfg.Auth.Password != "envpass" {
		t.Errorf("Auth.Password = %q, want env fallback for the unset field", cfg.Auth.Password)
	}
}

func TestValidateCredentials(t *testing.T) {
	cfg := Default()
	cfg.Auth = Auth{}
	if err := cfg.Validate(); !errors.Is(err, util.ErrMissingCredentials) {
		t.Errorf("Validate() = %v, want ErrMissingCredentials", err)
	}

	cfg.Auth.Username = "admin"
	if err := cfg.Validate(); !errors.Is(err, util.ErrMissingCredentials) {
		t.Errorf("Validate() without password = %v, want ErrMissingCredentials", err)
	}

	cfg.Auth.Password = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestDeviceResolution(t *testing.T) {
	insecureOff := false
	cfg := &Config{
		Auth:     Auth{Username: "admin", Password: "secret"},
		Timeout:  30 * time.Second,
		Port:     8443,
		Insecure: true,
		Devices: map[string]Device{
			"sw02": {
				Host:     "10.0.0.12",
				Port:     443,
				Insecure: &insecureOff,
				Username: "ops",
			},
		},
	}

	base := cfg.Device("sw01")
	want := Settings{
		Host: "sw01", Port: 8443, Timeout: 30 * time.Second,
		Insecure: true, Username: "admin", Password: "secret",
	}
	if base != want {
		t.Errorf("Device(sw01) = %+v, want %+v", base, want)
	}

	over := cfg.Device("sw02")
	if over.Host != "10.0.0.12" {
		t.Errorf("Device(sw02).Host = %q, want 10.0.0.12", over.Host)
	}
	if over.Port != 443 {
		t.Errorf("Device(sw02).Port = %d, want 443", over.Port)
	}
	if over.Insecure {
		t.Error("Device(sw02).Insecure = true, want override to false")
	}
	if over.Username != "ops" {
		t.Errorf("Device(sw02).Username = %q, want ops", over.Username)
	}
	if over.Password != "secret" {
		t.Errorf("Device(sw02).Password = %q, want inherited", over.Password)
	}
}

func TestDefault(t *testing.T) {
	t.Setenv(EnvUsername, "envuser")
	t.Setenv(EnvPassword, "envpass")

	cfg := Default()
	if cfg.Timeout != 60*time.Second || cfg.Port != 443 {
		t.Errorf("Default() = %+v, want built-in defaults", cfg)
	}
	if cfg.Auth.Username != "envuser" || cfg.Auth.Password != "envpass" {
		t.Errorf("Default() Auth = %+v, want environment credentials", cfg.Auth)
	}
}
