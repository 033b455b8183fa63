package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/netmatch-network/netmatch/pkg/check"
)

var sviNameRe = regexp.MustCompile(`^Vlan(\d+)$`)

// measureInterface maps a "show interfaces status" entry to the
// comparison model. EOS reports bandwidth in bits/s; the design speaks
// Mb/s. An interface counts as used unless its link is administratively
// disabled.
func measureInterface(raw *ifaceStatus) check.InterfaceMeasurement {
	return check.InterfaceMeasurement{
		Used:   raw.LinkStatus != "disabled",
		OperUp: raw.LineProtocolStatus == "up",
		Desc:   raw.Description,
		Speed:  int(raw.Bandwidth / 1_000_000),
	}
}

// checkInterfaces validates physical interfaces, SVIs, and loopbacks.
// SVIs live in the VLAN table rather than the interface table, and
// loopbacks only in the IP interface table, so all three are fetched
// in one batch.
func (d *DUT) checkInterfaces(ctx context.Context, collection *check.Collection) (check.Results, error) {
	raw, err := d.apiCacheGet(ctx, "interfaces", func(ctx context.Context) ([]json.RawMessage, error) {
		return d.Client.Run(ctx, []string{
			"show interfaces status",
			"show vlan brief",
			"show ip interface brief",
		})
	})
	if err != nil {
		return nil, err
	}

	var ifaces struct {
		InterfaceStatuses map[string]*ifaceStatus `json:"interfaceStatuses"`
	}
	var vlans struct {
		Vlans map[string]*vlanEntry `json:"vlans"`
	}
	var ipIfaces struct {
		Interfaces map[string]*ipIfaceEntry `json:"interfaces"`
	}
	if err := json.Unmarshal(raw[0], &ifaces); err != nil {
		return nil, fmt.Errorf("decode show interfaces status: %w", err)
	}
	if err := json.Unmarshal(raw[1], &vlans); err != nil {
		return nil, fmt.Errorf("decode show vlan brief: %w", err)
	}
	if err := json.Unmarshal(raw[2], &ipIfaces); err != nil {
		return nil, fmt.Errorf("decode show ip interface brief: %w", err)
	}

	var results check.Results
	for _, c := range collection.Checks {
		name := c.CheckID()

		var r check.Results
		if m := sviNameRe.FindStringSubmatch(name); m != nil {
			r, err = checkOneSVI(c, vlans.Vlans[m[1]])
		} else if strings.HasPrefix(name, "Loopback") {
			r, err = checkOneLoopback(c, ipIfaces.Interfaces[name])
		} else {
			r, err = d.checkOneInterface(c, ifaces.InterfaceStatuses[name])
		}
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}

	if collection.Exclusive {
		seen := make(map[string]bool, len(ifaces.InterfaceStatuses))
		observed := make([]string, 0, len(ifaces.InterfaceStatuses)+len(ipIfaces.Interfaces))
		for name := range ifaces.InterfaceStatuses {
			seen[name] = true
			observed = append(observed, name)
		}
		for name := range ipIfaces.Interfaces {
			if !seen[name] {
				observed = append(observed, name)
			}
		}
		expected := make([]string, 0, len(collection.Checks))
		for _, c := range collection.Checks {
			expected = append(expected, c.CheckID())
		}
		ex := check.NewExclusiveCheck(check.TypeInterfaces)
		results = append(results, check.ExclusiveList(ex, "interfaces", expected, observed)...)
	}

	return results, nil
}

// checkOneInterface validates one physical interface. An interface the
// design marks reserved is reported as Info without comparison; one it
// forces unused has its expected used state overridden to false.
func (d *DUT) checkOneInterface(c *check.Check, raw *ifaceStatus) (check.Results, error) {
	var expected check.InterfaceExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	if raw == nil {
		return check.Results{check.NewFailNoExists(c)}, nil
	}
	m := measureInterface(raw)

	var reserved, forcedUnused bool
	if iface := d.Design.Interface(c.CheckID()); iface != nil {
		reserved = iface.Reserved()
		forcedUnused = iface.ForcedUnused()
	}

	if reserved {
		return check.Results{check.NewInfo(c, "reserved", m)}, nil
	}
	if forcedUnused {
		expected.Used = false
	}
	return compareInterface(c, expected, m, forcedUnused), nil
}

// checkOneSVI validates a Vlan<N> interface against the VLAN table.
// The SVI exists only when its VLAN exists and carries the Cpu
// pseudo-member. The VLAN table has no description, so the expected
// value stands in for the measured one.
func checkOneSVI(c *check.Check, vlan *vlanEntry) (check.Results, error) {
	var expected check.InterfaceExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	if vlan == nil || !vlan.hasMember("Cpu") {
		return check.Results{check.NewFailNoExists(c)}, nil
	}
	m := check.InterfaceMeasurement{
		Used:   true,
		Desc:   expected.Desc,
		OperUp: vlan.Status == "active",
	}
	return compareInterface(c, expected, m, false), nil
}

// checkOneLoopback validates a loopback for existence only.
func checkOneLoopback(c *check.Check, entry *ipIfaceEntry) (check.Results, error) {
	if entry == nil {
		return check.Results{check.NewFailNoExists(c)}, nil
	}
	m := check.InterfaceMeasurement{
		Used:   true,
		OperUp: entry.LineProtocolStatus == "up",
	}
	return check.Results{check.NewPass(c, m)}, nil
}

// compareInterface emits per-field results for one interface. The used
// field gates the rest: a mismatch there, or a matching unused
// expectation, ends the comparison. A forced-unused design still gets
// its description compared so a mis-cabled port surfaces even when the
// link is correctly down. A description mismatch is otherwise a
// warning, and a speed mismatch on a down link is skipped.
func compareInterface(c *check.Check, expected check.InterfaceExpected, m check.InterfaceMeasurement, forcedUnused bool) check.Results {
	var results check.Results

	usedMatch := expected.Used == m.Used
	if !usedMatch {
		results = append(results, check.NewFailField(c, "used", expected.Used, m.Used))
	}

	if forcedUnused {
		if expected.Desc != "" && expected.Desc != m.Desc {
			results = append(results, check.NewFailField(c, "desc", expected.Desc, m.Desc))
		}
		return withPassIfClean(c, m, results)
	}
	if !usedMatch || !expected.Used {
		return withPassIfClean(c, m, results)
	}

	if expected.OperUp != m.OperUp {
		results = append(results, check.NewFailField(c, "oper_up", expected.OperUp, m.OperUp))
	}
	if expected.Desc != "" && expected.Desc != m.Desc {
		results = append(results, check.NewWarn(c, "desc", expected.Desc, m.Desc))
	}
	if expected.Speed != 0 && expected.Speed != m.Speed {
		if !m.OperUp {
			results = append(results, check.NewSkip(c, "speed not compared: link down"))
		} else {
			results = append(results, check.NewFailField(c, "speed", expected.Speed, m.Speed))
		}
	}
	return withPassIfClean(c, m, results)
}

// withPassIfClean appends the single Pass result when no Fail was
// produced for the entity.
func withPassIfClean(c *check.Check, m any, results check.Results) check.Results {
	for _, r := range results {
		if r.Status == check.StatusFail {
			return results
		}
	}
	return append(results, check.NewPass(c, m))
}
