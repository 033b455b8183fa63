package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/netmatch-network/netmatch/pkg/check"
)

const eosDefaultVRF = "default"

// eosBGPStates maps the state strings EOS reports in the BGP summary to
// the design's neighbor-state enumeration.
var eosBGPStates = map[string]string{
	"Idle":        check.BGPStateIdle,
	"Connect":     check.BGPStateConnect,
	"Active":      check.BGPStateActive,
	"OpenSent":    check.BGPStateOpenSent,
	"OpenConfirm": check.BGPStateOpenConfirm,
	"Established": check.BGPStateEstablished,
}

// bgpVRFEntry is one VRF instance of "show ip bgp summary vrf all".
type bgpVRFEntry struct {
	RouterID string                  `json:"routerId"`
	ASN      json.RawMessage         `json:"asn"`
	Peers    map[string]bgpPeerEntry `json:"peers"`
}

type bgpPeerEntry struct {
	PeerState string          `json:"peerState"`
	ASN       json.RawMessage `json:"asn"`
}

// fetchBGPSummary returns the per-VRF BGP summary, fetched once and
// shared between the router and peering executors.
func (d *DUT) fetchBGPSummary(ctx context.Context) (map[string]bgpVRFEntry, error) {
	raw, err := d.apiCacheGet(ctx, "bgp-summary", func(ctx context.Context) ([]json.RawMessage, error) {
		return d.Client.Run(ctx, []string{"show ip bgp summary vrf all"})
	})
	if err != nil {
		return nil, err
	}
	var rsp struct {
		VRFs map[string]bgpVRFEntry `json:"vrfs"`
	}
	if err := json.Unmarshal(raw[0], &rsp); err != nil {
		return nil, fmt.Errorf("decode bgp summary: %w", err)
	}
	return rsp.VRFs, nil
}

// parseASN reads an AS number that EOS reports as either a JSON number
// or a quoted string depending on release. Absent or unparseable
// values come back as -1 so they never match a designed ASN.
func parseASN(raw json.RawMessage) int {
	s := strings.Trim(string(raw), `"`)
	if s == "" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// checkBGPRouters validates each designed BGP router instance. The
// check id names the VRF the instance lives in.
func (d *DUT) checkBGPRouters(ctx context.Context, collection *check.Collection) (check.Results, error) {
	vrfs, err := d.fetchBGPSummary(ctx)
	if err != nil {
		return nil, err
	}

	var results check.Results
	for _, c := range collection.Checks {
		var expected check.BGPRouterExpected
		if err := c.DecodeExpected(&expected); err != nil {
			return nil, err
		}

		vrfName := c.CheckID()
		if vrfName == "" {
			vrfName = eosDefaultVRF
		}
		vrf, ok := vrfs[vrfName]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}

		m := check.BGPRouterMeasurement{
			ASN:      parseASN(vrf.ASN),
			RouterID: vrf.RouterID,
		}
		var fails check.Results
		if expected.ASN != m.ASN {
			fails = append(fails, check.NewFailField(c, "asn", expected.ASN, m.ASN))
		}
		if expected.RouterID != m.RouterID {
			fails = append(fails, check.NewFailField(c, "router_id", expected.RouterID, m.RouterID))
		}
		results = append(results, withPassIfClean(c, m, fails)...)
	}
	return results, nil
}

// checkBGPPeering validates each designed BGP peering session. The
// check id is the neighbor address; a "vrf" check param scopes the
// lookup outside the default VRF.
func (d *DUT) checkBGPPeering(ctx context.Context, collection *check.Collection) (check.Results, error) {
	vrfs, err := d.fetchBGPSummary(ctx)
	if err != nil {
		return nil, err
	}

	var results check.Results
	for _, c := range collection.Checks {
		var expected check.BGPNeighborExpected
		if err := c.DecodeExpected(&expected); err != nil {
			return nil, err
		}
		var params check.VRFParam
		if err := c.DecodeParams(&params); err != nil {
			return nil, err
		}
		if expected.State == "" {
			expected.State = check.BGPStateEstablished
		}

		vrfName := params.VRF
		if vrfName == "" {
			vrfName = eosDefaultVRF
		}
		vrf, ok := vrfs[vrfName]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}
		peer, ok := vrf.Peers[c.CheckID()]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}

		// An unmapped device state stays raw so the mismatch shows
		// what the device actually said.
		msrdState, ok := eosBGPStates[peer.PeerState]
		if !ok {
			msrdState = peer.PeerState
		}
		m := check.BGPNeighborMeasurement{
			RemoteASN: parseASN(peer.ASN),
			State:     msrdState,
		}
		var fails check.Results
		if expected.RemoteASN != m.RemoteASN {
			fails = append(fails, check.NewFailField(c, "remote_asn", expected.RemoteASN, m.RemoteASN))
		}
		if expected.State != m.State {
			fails = append(fails, check.NewFailField(c, "state", expected.State, m.State))
		}
		results = append(results, withPassIfClean(c, m, fails)...)
	}
	return results, nil
}
