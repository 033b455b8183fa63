package eos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// switchportEntry is one entry of "show interfaces switchport".
type switchportEntry struct {
	Enabled        bool `json:"enabled"`
	SwitchportInfo struct {
		Mode                 string `json:"mode"`
		AccessVlanID         int    `json:"accessVlanId"`
		TrunkingNativeVlanID int    `json:"trunkingNativeVlanId"`
		TrunkAllowedVlans    string `json:"trunkAllowedVlans"`
	} `json:"switchportInfo"`
}

// checkSwitchports validates access and trunk switchport profiles.
func (d *DUT) checkSwitchports(ctx context.Context, collection *check.Collection) (check.Results, error) {
	raw, err := d.apiCacheGetOne(ctx, "show interfaces switchport")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Switchports map[string]*switchportEntry `json:"switchports"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode show interfaces switchport: %w", err)
	}

	var results check.Results
	for _, c := range collection.Checks {
		port, ok := payload.Switchports[c.CheckID()]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}
		r, err := checkOneSwitchport(c, port)
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}
	return results, nil
}

// checkOneSwitchport validates one switchport. A mode mismatch ends the
// comparison, since the remaining fields only exist for the expected
// mode. Access ports compare the access VLAN; trunk ports compare the
// native VLAN (when the design sets one) and the allowed-VLAN range.
func checkOneSwitchport(c *check.Check, port *switchportEntry) (check.Results, error) {
	var expected check.SwitchportExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}
	info := &port.SwitchportInfo

	m := check.SwitchportMeasurement{SwitchportMode: info.Mode}
	if expected.SwitchportMode != m.SwitchportMode {
		return check.Results{
			check.NewFailField(c, "switchport_mode", expected.SwitchportMode, m.SwitchportMode),
		}, nil
	}

	var results check.Results
	switch expected.SwitchportMode {
	case check.SwitchportModeAccess:
		m.VlanID = info.AccessVlanID
		if expected.VlanID != m.VlanID {
			results = append(results, check.NewFailField(c, "vlan", expected.VlanID, m.VlanID))
		}

	case check.SwitchportModeTrunk:
		m.NativeVlanID = info.TrunkingNativeVlanID
		// The device reports the allowed set however it was entered;
		// fold it to canonical compact form before comparing. The ALL
		// sentinel does not parse and passes through unchanged.
		m.TrunkAllowedVlans = info.TrunkAllowedVlans
		if norm, err := util.NormalizeRange(info.TrunkAllowedVlans); err == nil {
			m.TrunkAllowedVlans = norm
		}
		if expected.NativeVlanID != 0 && expected.NativeVlanID != m.NativeVlanID {
			results = append(results, check.NewFailField(c, "native_vlan", expected.NativeVlanID, m.NativeVlanID))
		}
		expectedAllowed := trunkAllowedRange(expected.TrunkAllowedVlans)
		if expectedAllowed != m.TrunkAllowedVlans {
			results = append(results, check.NewFailField(c, "trunk_allowed_vlans", expectedAllowed, m.TrunkAllowedVlans))
		}
	}

	return withPassIfClean(c, m, results), nil
}

// trunkAllowedRange renders the design's allowed-VLAN set the way EOS
// reports it: a compact range string such as "14,16,25-26,29", or
// "ALL" when the design leaves the set open.
func trunkAllowedRange(vlanIDs []int) string {
	if len(vlanIDs) == 0 {
		return "ALL"
	}
	return util.CompactRange(vlanIDs)
}
