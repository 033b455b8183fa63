package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// checkVlans validates VLAN existence, naming, state, and interface
// membership. Ports configured into a VLAN but operationally down do
// not appear in "show vlan", so the configured-ports view is merged
// over the operational one, configured membership winning.
func (d *DUT) checkVlans(ctx context.Context, collection *check.Collection) (check.Results, error) {
	var cfg check.VlansConfig
	if err := collection.DecodeConfig(&cfg); err != nil {
		return nil, err
	}

	rawOper, err := d.apiCacheGetOne(ctx, "show vlan")
	if err != nil {
		return nil, err
	}
	rawCfg, err := d.apiCacheGetOne(ctx, "show vlan configured-ports")
	if err != nil {
		return nil, err
	}

	var oper, configured struct {
		Vlans map[string]*vlanEntry `json:"vlans"`
	}
	if err := json.Unmarshal(rawOper, &oper); err != nil {
		return nil, fmt.Errorf("decode show vlan: %w", err)
	}
	if err := json.Unmarshal(rawCfg, &configured); err != nil {
		return nil, fmt.Errorf("decode show vlan configured-ports: %w", err)
	}

	vlans := oper.Vlans
	if !cfg.CheckVlan1 {
		delete(vlans, "1")
		delete(configured.Vlans, "1")
	}

	var activeIDs []string
	for id, v := range vlans {
		if v.Status == "active" {
			activeIDs = append(activeIDs, id)
		}
	}

	for id, cfgVlan := range configured.Vlans {
		operVlan, ok := vlans[id]
		if !ok {
			vlans[id] = cfgVlan
			continue
		}
		if operVlan.Interfaces == nil {
			operVlan.Interfaces = make(map[string]json.RawMessage, len(cfgVlan.Interfaces))
		}
		for name, member := range cfgVlan.Interfaces {
			operVlan.Interfaces[name] = member
		}
	}

	var results check.Results
	expectedIDs := make([]string, 0, len(collection.Checks))
	for _, c := range collection.Checks {
		id := c.CheckID()
		expectedIDs = append(expectedIDs, id)

		vlan, ok := vlans[id]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}
		r, err := checkOneVlan(c, id, vlan, collection.Exclusive)
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}

	// A suspended VLAN never counts as an unexpected extra; only active
	// ones do. Missing VLANs were already failed per-check above.
	if collection.Exclusive {
		ex := check.NewExclusiveCheck(check.TypeVlans)
		results = append(results, check.ExclusiveList(ex, "vlans", expectedIDs, activeIDs)...)
	}
	return results, nil
}

// measureVlan maps a merged VLAN entry to the comparison model. MLAG
// peer members are dropped and the Cpu pseudo-member maps to the SVI
// name.
func measureVlan(id string, vlan *vlanEntry) check.VlanMeasurement {
	m := check.VlanMeasurement{
		Name:   vlan.Name,
		OperUp: vlan.Status == "active",
	}
	for name := range vlan.Interfaces {
		if strings.HasPrefix(name, "Peer") {
			continue
		}
		if name == "Cpu" {
			name = "Vlan" + id
		}
		m.Interfaces = append(m.Interfaces, name)
	}
	sort.Strings(m.Interfaces)
	return m
}

// checkOneVlan validates one VLAN entry. The VLAN name is compared
// ignoring case and whitespace runs, and a mismatch is a warning only;
// designs leave the name empty to skip the comparison entirely.
// Membership is compared as sets: missing members always fail, extra
// members fail only under an exclusive collection.
func checkOneVlan(c *check.Check, id string, vlan *vlanEntry, exclusive bool) (check.Results, error) {
	var expected check.VlanExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	m := measureVlan(id, vlan)
	var results check.Results

	if expected.Name != "" && !util.LooseEqual(expected.Name, m.Name) {
		results = append(results, check.NewWarn(c, "name", expected.Name, m.Name))
	}
	if expected.OperUp != m.OperUp {
		results = append(results, check.NewFailField(c, "oper_up", expected.OperUp, m.OperUp))
	}

	expdSet := make(map[string]bool, len(expected.Interfaces))
	for _, name := range expected.Interfaces {
		expdSet[name] = true
	}
	msrdSet := make(map[string]bool, len(m.Interfaces))
	for _, name := range m.Interfaces {
		msrdSet[name] = true
	}

	var missing, extra []string
	for name := range expdSet {
		if !msrdSet[name] {
			missing = append(missing, name)
		}
	}
	for name := range msrdSet {
		if !expdSet[name] {
			extra = append(extra, name)
		}
	}

	if len(missing) > 0 {
		results = append(results, check.NewFailMissingMembers(c, "interfaces", missing))
	}
	if exclusive && len(extra) > 0 {
		results = append(results, check.NewFailExtraMembers(c, "interfaces", extra))
	}

	return withPassIfClean(c, m, results), nil
}
