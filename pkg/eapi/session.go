package eapi

import (
	"context"
	"fmt"
)

// ConfigSession drives a named EOS configuration session. Commands
// loaded into the session do not touch the running config until Commit;
// Abort discards them. EOS creates the session on the device at the
// first "configure session" command, so constructing a ConfigSession
// performs no RPC.
type ConfigSession struct {
	client *Client
	name   string
}

// StartSession returns a handle for the named config session.
func (c *Client) StartSession(name string) *ConfigSession {
	return &ConfigSession{client: c, name: name}
}

// Name returns the session name.
func (s *ConfigSession) Name() string {
	return s.name
}

// Capabilities reports which config-management operations the session
// workflow supports. EOS config sessions support all four.
func (s *ConfigSession) Capabilities() map[string]bool {
	return map[string]bool{
		"diff":     true,
		"rollback": true,
		"check":    true,
		"replace":  true,
	}
}

// LoadFile loads a config file from the device file system into the
// session. With replace set, the session starts from a clean config so
// the file fully replaces the running config on commit; otherwise the
// file is merged into a copy of the running config.
func (s *ConfigSession) LoadFile(ctx context.Context, path string, replace bool) error {
	cmds := []string{fmt.Sprintf("configure session %s", s.name)}
	if replace {
		cmds = append(cmds, "rollback clean-config")
	}
	cmds = append(cmds, fmt.Sprintf("copy %s session-config", path))
	_, err := s.client.Run(ctx, cmds)
	return err
}

// Diff returns the differences between the running config and the
// session config, in unified diff form.
func (s *ConfigSession) Diff(ctx context.Context) (string, error) {
	out, err := s.client.RunText(ctx, []string{
		fmt.Sprintf("show session-config named %s diffs", s.name),
	})
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// Commit applies the session config to the running config and removes
// the session.
func (s *ConfigSession) Commit(ctx context.Context) error {
	_, err := s.client.Run(ctx, []string{
		fmt.Sprintf("configure session %s commit", s.name),
	})
	return err
}

// CommitTimer applies the session config with an automatic rollback
// unless the commit is confirmed before the timer expires. The timer
// format is "HH:MM:SS"; see RollbackTimer.
func (s *ConfigSession) CommitTimer(ctx context.Context, timer string) error {
	_, err := s.client.Run(ctx, []string{
		fmt.Sprintf("configure session %s commit timer %s", s.name, timer),
	})
	return err
}

// Abort discards the session config and removes the session.
func (s *ConfigSession) Abort(ctx context.Context) error {
	_, err := s.client.Run(ctx, []string{
		fmt.Sprintf("configure session %s abort", s.name),
	})
	return err
}

// RollbackTimer formats a rollback timeout in minutes as the
// "HH:MM:SS" timer argument accepted by "commit timer".
func RollbackTimer(minutes int) string {
	return fmt.Sprintf("00:%02d:00", minutes)
}
