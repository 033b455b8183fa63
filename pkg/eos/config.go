package eos

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/netmatch-network/netmatch/pkg/eapi"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// ConfigManager drives EOS configuration management for one device.
// The workflow: SetConfigFile and SetSessionID, Stage the candidate
// onto flash over SCP, then Check or Diff it in a config session, and
// Replace with a rollback timer to apply it. DeleteFile cleans the
// staged copy up afterwards.
type ConfigManager struct {
	Name string

	client  *eapi.Client
	session *eapi.ConfigSession

	scpUser string
	scpPass string

	localPath string
	fileName  string

	diffContents string
}

// NewConfigManager creates a config manager for the named device. The
// SCP credentials are used only for staging files; eAPI operations use
// the client's own credentials.
func NewConfigManager(name string, client *eapi.Client, scpUser, scpPass string) *ConfigManager {
	return &ConfigManager{
		Name:    name,
		client:  client,
		scpUser: scpUser,
		scpPass: scpPass,
	}
}

// SetConfigFile points the manager at the local candidate config. The
// file's base name becomes its name on the device flash.
func (m *ConfigManager) SetConfigFile(localPath string) {
	m.localPath = localPath
	m.fileName = path.Base(localPath)
}

// SetSessionID names the device config session used for load, diff,
// and commit operations.
func (m *ConfigManager) SetSessionID(id string) {
	m.session = m.client.StartSession(id)
}

// Session returns the current config session handle, nil before
// SetSessionID.
func (m *ConfigManager) Session() *eapi.ConfigSession {
	return m.session
}

// LocalFile returns the candidate's path on the device file system.
func (m *ConfigManager) LocalFile() string {
	return "flash:" + m.fileName
}

// LastDiff returns the diff captured by the most recent Check, Diff,
// or Replace call.
func (m *ConfigManager) LastDiff() string {
	return m.diffContents
}

// IsReachable reports whether the device answers on the eAPI port.
func (m *ConfigManager) IsReachable(ctx context.Context) bool {
	return m.client.CheckConnection(ctx) == nil
}

// Running fetches the device's running configuration as text.
func (m *ConfigManager) Running(ctx context.Context) (string, error) {
	out, err := m.client.RunText(ctx, []string{"show running-config"})
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// Stage copies the local candidate file to the device flash over SCP
// so a config session can load it.
func (m *ConfigManager) Stage(ctx context.Context) error {
	if m.fileName == "" {
		return fmt.Errorf("%s: no config file set", m.Name)
	}
	remote := "/mnt/flash/" + m.fileName
	if err := eapi.ScpUpload(ctx, m.client.Host(), m.scpUser, m.scpPass, m.localPath, remote); err != nil {
		return fmt.Errorf("%s: staging %s: %w", m.Name, m.fileName, err)
	}
	util.WithDevice(m.Name).Infof("Staged %s", m.LocalFile())
	return nil
}

// Check loads the staged candidate into the session, captures the
// diff, and aborts without committing. The returned string carries the
// device's config-load errors, empty when the candidate loads clean.
func (m *ConfigManager) Check(ctx context.Context, replace bool) (string, error) {
	if err := m.requireSession(); err != nil {
		return "", err
	}

	var loadErrs string
	if err := m.session.LoadFile(ctx, m.LocalFile(), replace); err != nil {
		var cmdErr *eapi.CommandError
		if !errors.As(err, &cmdErr) {
			return "", err
		}
		loadErrs = cmdErr.Message
	}

	diff, diffErr := m.session.Diff(ctx)
	if diffErr == nil {
		m.diffContents = diff
	}
	if err := m.session.Abort(ctx); err != nil && diffErr == nil {
		return "", err
	}
	if diffErr != nil {
		return "", diffErr
	}
	return loadErrs, nil
}

// Diff loads nothing; it returns the pending differences between the
// session config and the running config.
func (m *ConfigManager) Diff(ctx context.Context) (string, error) {
	if err := m.requireSession(); err != nil {
		return "", err
	}
	diff, err := m.session.Diff(ctx)
	if err != nil {
		return "", err
	}
	m.diffContents = diff
	return diff, nil
}

// Replace loads the staged candidate as a full replacement and commits
// it behind a rollback timer: if the device stops answering after the
// first commit, the timer restores the prior config. A candidate with
// no diff aborts the session and changes nothing.
func (m *ConfigManager) Replace(ctx context.Context, rollbackMinutes int) error {
	if err := m.requireSession(); err != nil {
		return err
	}
	if err := m.session.LoadFile(ctx, m.LocalFile(), true); err != nil {
		return err
	}

	diff, err := m.session.Diff(ctx)
	if err != nil {
		return err
	}
	m.diffContents = diff
	if strings.TrimSpace(diff) == "" {
		util.WithDevice(m.Name).Info("No config differences, aborting session")
		return m.session.Abort(ctx)
	}

	if err := m.session.CommitTimer(ctx, eapi.RollbackTimer(rollbackMinutes)); err != nil {
		return err
	}
	if !m.IsReachable(ctx) {
		return fmt.Errorf("%s: device is no longer reachable", m.Name)
	}
	if err := m.session.Commit(ctx); err != nil {
		return err
	}

	_, err = m.client.Run(ctx, []string{"write"})
	if err != nil {
		return err
	}
	util.WithDevice(m.Name).Info("Config replaced and saved")
	return nil
}

// Merge is not provided on EOS; merge-style loads cannot be combined
// with the session replace workflow.
func (m *ConfigManager) Merge(ctx context.Context, rollbackMinutes int) error {
	return util.NewUnsupportedError(m.Name, "config merge")
}

// DeleteFile removes the staged candidate from the device flash.
func (m *ConfigManager) DeleteFile(ctx context.Context) error {
	_, err := m.client.Run(ctx, []string{"delete " + m.LocalFile()})
	return err
}

func (m *ConfigManager) requireSession() error {
	if m.session == nil {
		return fmt.Errorf("%s: no config session started", m.Name)
	}
	return nil
}
