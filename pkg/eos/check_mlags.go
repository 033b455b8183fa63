package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"

	"github.com/netmatch-network/netmatch/pkg/check"
)

var mlagIDRe = regexp.MustCompile(`^Port-Channel(\d+)$`)

// mlagInterface is one entry of "show mlag interfaces".
type mlagInterface struct {
	Status         string `json:"status"`
	LocalInterface string `json:"localInterface"`
	PeerInterface  string `json:"peerInterface"`
}

// mlagConfigSanity is the "show mlag config-sanity" response. The two
// configuration sections list config inconsistencies between peers.
type mlagConfigSanity struct {
	MlagConnected          bool                       `json:"mlagConnected"`
	MlagActive             bool                       `json:"mlagActive"`
	InterfaceConfiguration map[string]json.RawMessage `json:"interfaceConfiguration"`
	GlobalConfiguration    map[string]json.RawMessage `json:"globalConfiguration"`
}

// checkMlags validates the MLAG system sanity state, then each
// designed MLAG. Check ids are port-channel names; EOS keys its MLAG
// table by the numeric MLAG id, which matches the port-channel number.
func (d *DUT) checkMlags(ctx context.Context, collection *check.Collection) (check.Results, error) {
	var results check.Results

	sanity, err := d.checkMlagSystem(ctx)
	if err != nil {
		return nil, err
	}
	results = append(results, sanity)

	raw, err := d.apiCacheGetOne(ctx, "show mlag interfaces")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Interfaces map[string]*mlagInterface `json:"interfaces"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode show mlag interfaces: %w", err)
	}

	for _, c := range collection.Checks {
		m := mlagIDRe.FindStringSubmatch(c.CheckID())
		if m == nil {
			return nil, fmt.Errorf("mlag check %q: id is not a port-channel name", c.CheckID())
		}
		mlag, ok := payload.Interfaces[m[1]]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}
		r, err := checkOneMlag(c, mlag)
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}
	return results, nil
}

// checkMlagSystem runs the device's own MLAG configuration sanity
// audit. Anything short of both peers connected and active with zero
// inconsistent config sections fails, carrying the raw response so the
// report shows what the device complained about.
func (d *DUT) checkMlagSystem(ctx context.Context) (*check.Result, error) {
	raw, err := d.apiCacheGetOne(ctx, "show mlag config-sanity")
	if err != nil {
		return nil, err
	}
	var sanity mlagConfigSanity
	if err := json.Unmarshal(raw, &sanity); err != nil {
		return nil, fmt.Errorf("decode show mlag config-sanity: %w", err)
	}

	c := &check.Check{Type: check.TypeMlags, ID: check.MlagSystemCheckID}
	if sanity.MlagConnected && sanity.MlagActive &&
		len(sanity.InterfaceConfiguration) == 0 && len(sanity.GlobalConfiguration) == 0 {
		return check.NewPass(c, "OK"), nil
	}
	return check.NewFailField(c, "mlag_status", map[string]any{}, sanity), nil
}

// checkOneMlag validates one MLAG: its status must be active-full and
// its local/peer interface pair must match the designed members.
func checkOneMlag(c *check.Check, mlag *mlagInterface) (check.Results, error) {
	var expected check.MlagExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	var results check.Results
	if mlag.Status != "active-full" {
		results = append(results, check.NewFailField(c, "status", "active-full", mlag.Status))
	}

	expdInterfaces := make([]string, 0, len(expected.Interfaces))
	for _, member := range expected.Interfaces {
		expdInterfaces = append(expdInterfaces, member.Interface)
	}
	sort.Strings(expdInterfaces)
	msrdInterfaces := []string{mlag.LocalInterface, mlag.PeerInterface}
	sort.Strings(msrdInterfaces)

	if !slices.Equal(expdInterfaces, msrdInterfaces) {
		results = append(results, check.NewFailField(c, "interfaces", expdInterfaces, msrdInterfaces))
	}

	return withPassIfClean(c, msrdInterfaces, results), nil
}
