package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netmatch-network/netmatch/pkg/cli"
	"github.com/netmatch-network/netmatch/pkg/design"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Read device information",
}

var showVersionInfoCmd = &cobra.Command{
	Use:   "version-info <device>",
	Short: "Connect to a device and print its software and hardware info",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunnerConfig()
		if err != nil {
			return err
		}
		if err := ensurePassword(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		name := args[0]
		dut := newDUT(cfg, name, &design.Device{Name: name})
		if err := dut.Setup(cmd.Context()); err != nil {
			return err
		}
		defer dut.Teardown()

		v := dut.Version
		fmt.Println(cli.Bold(name))
		for _, f := range []struct{ label, value string }{
			{"model", v.ModelName},
			{"version", v.Version},
			{"architecture", v.Architecture},
			{"hardware rev", v.HardwareRevision},
			{"internal version", v.InternalVersion},
			{"serial number", v.SerialNumber},
			{"system MAC", v.SystemMACAddress},
		} {
			if f.value == "" {
				continue
			}
			fmt.Printf("  %s %s\n", cli.Dim(cli.DotPad(f.label, 20)), f.value)
		}
		return nil
	},
}

func init() {
	showCmd.AddCommand(showVersionInfoCmd)
}
