package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netmatch-network/netmatch/pkg/audit"
	"github.com/netmatch-network/netmatch/pkg/cli"
	"github.com/netmatch-network/netmatch/pkg/config"
	"github.com/netmatch-network/netmatch/pkg/eos"
	"github.com/netmatch-network/netmatch/pkg/util"
)

var (
	candidateFile string
	sessionName   string
	rollbackTimer int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage device configuration through EOS config sessions",
}

var configDiffCmd = &cobra.Command{
	Use:   "diff <device>",
	Short: "Stage a candidate config and show its diff without committing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := stagedManager(cmd, args[0])
		if err != nil {
			return err
		}

		start := time.Now()
		ev := audit.NewEvent(currentUser(), args[0], audit.OpCheck).
			WithSession(sessionName).
			WithConfigFile(candidateFile)

		loadErrs, err := m.Check(cmd.Context(), true)
		if err != nil {
			audit.Log(ev.WithError(err).WithDuration(time.Since(start)))
			return err
		}
		audit.Log(ev.WithSuccess().WithDuration(time.Since(start)))

		if loadErrs != "" {
			fmt.Println("config load errors:")
			fmt.Println(loadErrs)
		}
		fmt.Print(m.LastDiff())
		return nil
	},
}

var configCommitCmd = &cobra.Command{
	Use:   "commit <device>",
	Short: "Stage a candidate config and commit it behind a rollback timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := stagedManager(cmd, args[0])
		if err != nil {
			return err
		}

		start := time.Now()
		ev := audit.NewEvent(currentUser(), args[0], audit.OpCommit).
			WithSession(sessionName).
			WithConfigFile(candidateFile)

		if err := m.Replace(cmd.Context(), rollbackTimer); err != nil {
			audit.Log(ev.WithError(err).WithDuration(time.Since(start)))
			return err
		}
		audit.Log(ev.WithDiff(m.LastDiff()).WithSuccess().WithDuration(time.Since(start)))

		if err := m.DeleteFile(cmd.Context()); err != nil {
			util.WithDevice(args[0]).Warnf("Could not delete staged config: %v", err)
		}
		fmt.Print(m.LastDiff())
		return nil
	},
}

var configAbortCmd = &cobra.Command{
	Use:   "abort <device>",
	Short: "Abort the named config session and clean up the staged file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configConnection()
		if err != nil {
			return err
		}
		m := newConfigManager(cfg, args[0])
		m.SetSessionID(sessionName)

		start := time.Now()
		ev := audit.NewEvent(currentUser(), args[0], audit.OpAbort).
			WithSession(sessionName)

		if err := m.Session().Abort(cmd.Context()); err != nil {
			audit.Log(ev.WithError(err).WithDuration(time.Since(start)))
			return err
		}
		if candidateFile != "" {
			ev.WithConfigFile(candidateFile)
			m.SetConfigFile(candidateFile)
			if err := m.DeleteFile(cmd.Context()); err != nil {
				util.WithDevice(args[0]).Warnf("Could not delete staged config: %v", err)
			}
		}
		audit.Log(ev.WithSuccess().WithDuration(time.Since(start)))
		return nil
	},
}

var (
	historyDevice   string
	historyUser     string
	historyLast     string
	historyLimit    int
	historyFailures bool
	historyJSON     bool
)

var configHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded config operations",
	Long: `List config operations recorded in the audit trail.

Every diff, commit, and abort is logged to the audit_log file named
in the runner configuration, with the user, device, session, and
outcome.

Examples:
  netmatch config history --device sw01
  netmatch config history --last 24h --failures`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunnerConfig()
		if err != nil {
			return err
		}
		if cfg.AuditLog == "" {
			return fmt.Errorf("no audit_log path configured")
		}

		filter := audit.Filter{
			Device:      historyDevice,
			User:        historyUser,
			Limit:       historyLimit,
			FailureOnly: historyFailures,
		}
		if historyLast != "" {
			d, err := time.ParseDuration(historyLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", historyLast)
			}
			filter.StartTime = time.Now().Add(-d)
		}

		logger, err := audit.NewFileLogger(cfg.AuditLog, audit.RotationConfig{})
		if err != nil {
			return err
		}
		defer logger.Close()

		events, err := logger.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if historyJSON {
			return json.NewEncoder(os.Stdout).Encode(events)
		}
		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		tbl := cli.NewTable("TIMESTAMP", "USER", "DEVICE", "OPERATION", "SESSION", "STATUS")
		for _, ev := range events {
			status := "ok"
			if !ev.Success {
				status = "failed"
			}
			tbl.Row(
				ev.Timestamp.Format("2006-01-02 15:04:05"),
				ev.User,
				ev.Device,
				ev.Operation,
				ev.Session,
				status,
			)
		}
		tbl.Flush()
		return nil
	},
}

// configConnection loads and validates connection settings for the
// config subcommands, and turns on audit logging when configured.
func configConnection() (*config.Config, error) {
	cfg, err := loadRunnerConfig()
	if err != nil {
		return nil, err
	}
	if err := ensurePassword(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.AuditLog != "" {
		logger, err := audit.NewFileLogger(cfg.AuditLog, audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(logger)
		}
	}
	return cfg, nil
}

// stagedManager builds a config manager with the candidate file staged
// on the device flash and a session started.
func stagedManager(cmd *cobra.Command, device string) (*eos.ConfigManager, error) {
	cfg, err := configConnection()
	if err != nil {
		return nil, err
	}

	if candidateFile == "" {
		return nil, fmt.Errorf("a candidate config file is required (--file)")
	}
	m := newConfigManager(cfg, device)
	m.SetConfigFile(candidateFile)
	m.SetSessionID(sessionName)
	if err := m.Stage(cmd.Context()); err != nil {
		return nil, err
	}
	return m, nil
}

func init() {
	configCmd.PersistentFlags().StringVarP(&candidateFile, "file", "f", "", "Candidate config file (local path)")
	configCmd.PersistentFlags().StringVar(&sessionName, "session", "netmatch", "EOS config session name")
	configCommitCmd.Flags().IntVar(&rollbackTimer, "timer", 10, "Rollback timer in minutes")

	configHistoryCmd.Flags().StringVar(&historyDevice, "device", "", "Filter by device")
	configHistoryCmd.Flags().StringVar(&historyUser, "user", "", "Filter by user")
	configHistoryCmd.Flags().StringVar(&historyLast, "last", "", "Show events from last duration (e.g., 24h)")
	configHistoryCmd.Flags().IntVar(&historyLimit, "limit", 100, "Maximum events to show")
	configHistoryCmd.Flags().BoolVar(&historyFailures, "failures", false, "Show only failed operations")
	configHistoryCmd.Flags().BoolVar(&historyJSON, "json", false, "Output events as JSON")

	configCmd.AddCommand(configDiffCmd, configCommitCmd, configAbortCmd, configHistoryCmd)
}
