package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/cli"
	"github.com/netmatch-network/netmatch/pkg/config"
	"github.com/netmatch-network/netmatch/pkg/design"
	"github.com/netmatch-network/netmatch/pkg/util"
)

var (
	jsonOutput bool
	typesFlag  string
)

var runCmd = &cobra.Command{
	Use:   "run [devices...]",
	Short: "Run all check collections against live devices",
	Long: `Run loads the checks directory, dials each device over eAPI, and
evaluates every check collection the design defines for it. With no
device arguments, all devices in the checks directory are verified.
--types restricts the run to a comma-separated list of check domains.

The exit status is non-zero when any device is unreachable or has
failing checks.`,
	RunE: runChecks,
}

func init() {
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print full results as JSON on stdout")
	runCmd.Flags().StringVar(&typesFlag, "types", "", "Comma-separated check domains to run (default all)")
}

// deviceReport is one device's outcome in the run report.
type deviceReport struct {
	Device   string        `json:"device"`
	Error    string        `json:"error,omitempty"`
	Results  check.Results `json:"results"`
	Failures int           `json:"failures"`
}

func runChecks(cmd *cobra.Command, args []string) error {
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

	ld := design.NewLoader(checksDir)
	if err := ld.Load(); err != nil {
		return err
	}

	devices := args
	if len(devices) == 0 {
		devices = ld.DeviceNames()
	}
	typeFilter, err := parseTypeFilter(typesFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	reports := make([]*deviceReport, 0, len(devices))
	for _, name := range devices {
		fmt.Fprintf(os.Stderr, "%s ", cli.DotPad(name, 30))
		rep := runDevice(ctx, cfg, ld, name, typeFilter)
		switch {
		case rep.Error != "":
			fmt.Fprintln(os.Stderr, cli.Red("error"))
		case rep.Failures > 0:
			fmt.Fprintln(os.Stderr, cli.Red(fmt.Sprintf("%d failures", rep.Failures)))
		default:
			fmt.Fprintln(os.Stderr, cli.Green(fmt.Sprintf("ok (%d checks)", len(rep.Results))))
		}
		reports = append(reports, rep)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
	} else {
		printSummary(reports)
	}

	failed := 0
	for _, rep := range reports {
		if rep.Error != "" || rep.Failures > 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("checks failed on %d of %d devices", failed, len(reports))
	}
	return nil
}

// parseTypeFilter parses the --types flag into a domain set. An empty
// flag returns a nil set, meaning no filtering.
func parseTypeFilter(s string) (map[check.Type]bool, error) {
	names := util.SplitCommaSeparated(s)
	if len(names) == 0 {
		return nil, nil
	}
	filter := make(map[check.Type]bool, len(names))
	for _, name := range names {
		t := check.Type(name)
		if !t.Valid() {
			return nil, fmt.Errorf("unknown check domain %q", name)
		}
		filter[t] = true
	}
	return filter, nil
}

// runDevice evaluates every collection for one device, skipping
// domains outside the type filter. Errors are recorded in the report
// rather than returned so one unreachable device does not stop the
// rest of the run.
func runDevice(ctx context.Context, cfg *config.Config, ld *design.Loader, name string, typeFilter map[check.Type]bool) *deviceReport {
	rep := &deviceReport{Device: name}

	dev, err := ld.Device(name)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	colls, err := ld.Collections(name)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}

	dut := newDUT(cfg, name, dev)
	if err := dut.Setup(ctx); err != nil {
		rep.Error = err.Error()
		return rep
	}
	defer dut.Teardown()

	for _, coll := range colls {
		if typeFilter != nil && !typeFilter[coll.Type] {
			continue
		}
		results, err := dut.Run(ctx, coll)
		if err != nil {
			rep.Error = err.Error()
			return rep
		}
		rep.Results = append(rep.Results, results...)
	}
	rep.Failures = len(rep.Results.Failures())
	return rep
}

func printSummary(reports []*deviceReport) {
	tbl := cli.NewTable("DEVICE", "CHECKS", "PASS", "FAIL", "WARN", "INFO", "SKIP")
	for _, rep := range reports {
		if rep.Error != "" {
			tbl.Row(rep.Device, "-", "-", "-", "-", "-", "-")
			continue
		}
		rs := rep.Results
		tbl.Row(rep.Device,
			strconv.Itoa(len(rs)),
			strconv.Itoa(len(rs.ByStatus(check.StatusPass))),
			strconv.Itoa(len(rs.ByStatus(check.StatusFail))),
			strconv.Itoa(len(rs.ByStatus(check.StatusWarn))),
			strconv.Itoa(len(rs.ByStatus(check.StatusInfo))),
			strconv.Itoa(len(rs.ByStatus(check.StatusSkip))))
	}
	tbl.Flush()

	for _, rep := range reports {
		if rep.Error != "" {
			fmt.Printf("%s %s: %s\n", cli.Bold(rep.Device), cli.Red("ERROR"), rep.Error)
			continue
		}
		for _, r := range rep.Results {
			switch r.Status {
			case check.StatusFail:
				fmt.Printf("%s %s\n", cli.Bold(rep.Device), cli.Red(r.String()))
			case check.StatusWarn:
				fmt.Printf("%s %s\n", cli.Bold(rep.Device), cli.Yellow(r.String()))
			}
		}
	}
}
