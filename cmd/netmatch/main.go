// Netmatch - network design verification for Arista EOS
//
// Netmatch reads the check files produced by the design tooling and
// validates live device state against them over eAPI:
//
//	netmatch run [devices...]           # run all check collections
//	netmatch show version-info <device> # device software/hardware info
//	netmatch config diff <device>       # preview a candidate config
//	netmatch config commit <device>     # apply a candidate config
//
// Credentials come from the config file or the NETWORK_USERNAME /
// NETWORK_PASSWORD environment variables; a missing password is
// prompted for when running interactively.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netmatch-network/netmatch/pkg/util"
	"github.com/netmatch-network/netmatch/pkg/version"
)

var (
	configPath string
	checksDir  string
	logLevel   string
	jsonLog    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "netmatch",
	Short:         "Verify network device state against design intent",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Long: `Netmatch validates live Arista EOS device state against the design's
check files: interfaces, VLANs, switchports, LAGs, MLAG, IP addressing,
transceivers, cabling, and BGP.

Checks never modify device state. Config management commands stage and
apply candidate configurations through EOS config sessions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := util.SetLogLevel(logLevel); err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		if jsonLog {
			util.SetJSONFormat()
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the netmatch version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("netmatch", version.Info())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Runner config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&checksDir, "checks-dir", "C", "checks", "Directory of per-device check files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Emit logs as JSON")

	rootCmd.AddCommand(runCmd, showCmd, configCmd, versionCmd)
}
