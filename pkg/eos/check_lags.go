package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/netmatch-network/netmatch/pkg/check"
)

// lacpPortChannel is one entry of "show lacp interface".
type lacpPortChannel struct {
	Interfaces map[string]struct {
		ActorPortStatus string `json:"actorPortStatus"`
	} `json:"interfaces"`
}

// checkLags validates port-channel membership and LACP bundle state.
func (d *DUT) checkLags(ctx context.Context, collection *check.Collection) (check.Results, error) {
	raw, err := d.apiCacheGetOne(ctx, "show lacp interface")
	if err != nil {
		return nil, err
	}

	var payload struct {
		PortChannels map[string]*lacpPortChannel `json:"portChannels"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode show lacp interface: %w", err)
	}

	var results check.Results
	for _, c := range collection.Checks {
		lag, ok := payload.PortChannels[c.CheckID()]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}
		r, err := checkOneLag(c, lag)
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}
	return results, nil
}

// checkOneLag validates one port-channel. A member counts as up only
// when LACP reports it bundled, and the LAG itself is down only when
// every member is unbundled. Membership is compared as a set, then
// each common member's bundle state against the design's enabled flag.
func checkOneLag(c *check.Check, lag *lacpPortChannel) (check.Results, error) {
	var expected check.LagExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	memberUp := make(map[string]bool, len(lag.Interfaces))
	anyUp := false
	for name, member := range lag.Interfaces {
		up := member.ActorPortStatus == "bundled"
		memberUp[name] = up
		anyUp = anyUp || up
	}

	names := make([]string, 0, len(memberUp))
	for name := range memberUp {
		names = append(names, name)
	}
	sort.Strings(names)

	m := check.LagMeasurement{Enabled: anyUp}
	for _, name := range names {
		m.Interfaces = append(m.Interfaces, check.LagMember{Interface: name, Enabled: memberUp[name]})
	}

	var results check.Results
	if expected.Enabled != m.Enabled {
		results = append(results, check.NewFailField(c, "enabled", expected.Enabled, m.Enabled))
	}

	expdEnabled := make(map[string]bool, len(expected.Interfaces))
	var missing, extra []string
	for _, member := range expected.Interfaces {
		expdEnabled[member.Interface] = member.Enabled
		if _, ok := memberUp[member.Interface]; !ok {
			missing = append(missing, member.Interface)
		}
	}
	for name := range memberUp {
		if _, ok := expdEnabled[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 {
		results = append(results, check.NewFailMissingMembers(c, "interfaces", missing))
	}
	if len(extra) > 0 {
		results = append(results, check.NewFailExtraMembers(c, "interfaces", extra))
	}

	for _, member := range expected.Interfaces {
		up, ok := memberUp[member.Interface]
		if !ok {
			continue
		}
		if member.Enabled != up {
			results = append(results, check.NewFailField(c, member.Interface+"/enabled", member.Enabled, up))
		}
	}

	return withPassIfClean(c, m, results), nil
}
