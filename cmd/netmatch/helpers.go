package main

import (
	"fmt"
	"os"
	"os/user"

	"golang.org/x/term"

	"github.com/netmatch-network/netmatch/pkg/config"
	"github.com/netmatch-network/netmatch/pkg/design"
	"github.com/netmatch-network/netmatch/pkg/eapi"
	"github.com/netmatch-network/netmatch/pkg/eos"
)

// loadRunnerConfig loads the --config file, or environment-backed
// defaults when no file is given. The password may still be empty
// here; callers prompt before Validate.
func loadRunnerConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// ensurePassword prompts for the shared password when the config and
// environment leave it empty and stdin is a terminal. Non-interactive
// runs fall through to Validate's missing-credential error.
func ensurePassword(cfg *config.Config) error {
	if cfg.Auth.Password != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", cfg.Auth.Username)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	cfg.Auth.Password = string(pw)
	return nil
}

func newClient(cfg *config.Config, name string) *eapi.Client {
	s := cfg.Device(name)
	return eapi.New(s.Host,
		eapi.WithPort(s.Port),
		eapi.WithTimeout(s.Timeout),
		eapi.WithInsecure(s.Insecure),
		eapi.WithCreds(s.Username, s.Password))
}

func newDUT(cfg *config.Config, name string, dev *design.Device) *eos.DUT {
	d := eos.New(name, dev, newClient(cfg, name))
	d.ModelAliases = cfg.TransceiverModels
	return d
}

func newConfigManager(cfg *config.Config, name string) *eos.ConfigManager {
	s := cfg.Device(name)
	return eos.NewConfigManager(name, newClient(cfg, name), s.Username, s.Password)
}

// currentUser is the local login recorded in audit events.
func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}
