package eos

import (
	"context"
	"testing"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/design"
)

// The default VRF reports its ASN as a string, the mgmt VRF as a
// number; EOS has done both across releases.
const bgpSummaryPayload = `{"vrfs":{
	"default":{"routerId":"10.0.0.1","asn":"65001","peers":{
		"10.1.0.1":{"peerState":"Established","asn":"65002"},
		"10.1.0.3":{"peerState":"Active","asn":"65003"}
	}},
	"mgmt":{"routerId":"192.168.0.1","asn":65100,"peers":{}}
}}`

func newBGPDUT() *DUT {
	d := newTestDUT(&design.Device{Name: "sw01"})
	seedCache(d, "bgp-summary", bgpSummaryPayload)
	return d
}

func bgpRouterCheck(vrf string, asn int, routerID string) *check.Check {
	return &check.Check{
		Type:     check.TypeBGPRouters,
		ID:       vrf,
		Expected: map[string]any{"asn": asn, "router_id": routerID},
	}
}

func bgpPeerCheck(addr string, expected, params map[string]any) *check.Check {
	return &check.Check{
		Type:     check.TypeBGPPeering,
		ID:       addr,
		Params:   params,
		Expected: expected,
	}
}

func TestBGPRouters(t *testing.T) {
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPRouters,
		Checks: []*check.Check{
			bgpRouterCheck("default", 65001, "10.0.0.1"),
			bgpRouterCheck("mgmt", 65100, "192.168.0.1"),
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass, check.StatusPass)

	m, ok := results[0].Measured.(check.BGPRouterMeasurement)
	if !ok {
		t.Fatalf("measurement type = %T", results[0].Measured)
	}
	if m.ASN != 65001 || m.RouterID != "10.0.0.1" {
		t.Errorf("measurement = %+v", m)
	}
}

func TestBGPRouterMismatch(t *testing.T) {
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPRouters,
		Checks: []*check.Check{bgpRouterCheck("default", 65999, "10.0.0.9")},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail, check.StatusFail)
	if results[0].Field != "asn" {
		t.Errorf("results[0] field = %q, want asn", results[0].Field)
	}
	if results[1].Field != "router_id" {
		t.Errorf("results[1] field = %q, want router_id", results[1].Field)
	}
}

func TestBGPRouterVRFAbsent(t *testing.T) {
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPRouters,
		Checks: []*check.Check{bgpRouterCheck("cust1", 65200, "10.2.0.1")},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail)
	if results[0].FailKind != check.FailNoExists {
		t.Errorf("fail kind = %q, want %q", results[0].FailKind, check.FailNoExists)
	}
}

func TestBGPPeering(t *testing.T) {
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPPeering,
		Checks: []*check.Check{
			bgpPeerCheck("10.1.0.1", map[string]any{"remote_asn": 65002, "state": "ESTABLISHED"}, nil),
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass)

	m, ok := results[0].Measured.(check.BGPNeighborMeasurement)
	if !ok {
		t.Fatalf("measurement type = %T", results[0].Measured)
	}
	if m.RemoteASN != 65002 || m.State != check.BGPStateEstablished {
		t.Errorf("measurement = %+v", m)
	}
}

func TestBGPPeeringDefaultState(t *testing.T) {
	// Designs omit the state when they mean established.
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPPeering,
		Checks: []*check.Check{
			bgpPeerCheck("10.1.0.1", map[string]any{"remote_asn": 65002}, nil),
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass)
}

func TestBGPPeeringStateMismatch(t *testing.T) {
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPPeering,
		Checks: []*check.Check{
			bgpPeerCheck("10.1.0.3", map[string]any{"remote_asn": 65003, "state": "ESTABLISHED"}, nil),
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail)
	if results[0].Field != "state" {
		t.Errorf("fail field = %q, want state", results[0].Field)
	}
	if results[0].Measured != check.BGPStateActive {
		t.Errorf("measured state = %v, want %q", results[0].Measured, check.BGPStateActive)
	}
}

func TestBGPPeeringRemoteASNMismatch(t *testing.T) {
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPPeering,
		Checks: []*check.Check{
			bgpPeerCheck("10.1.0.1", map[string]any{"remote_asn": 65009, "state": "ESTABLISHED"}, nil),
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail)
	if results[0].Field != "remote_asn" {
		t.Errorf("fail field = %q, want remote_asn", results[0].Field)
	}
}

func TestBGPPeeringAbsent(t *testing.T) {
	d := newBGPDUT()
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeBGPPeering,
		Checks: []*check.Check{
			bgpPeerCheck("10.9.9.9", map[string]any{"remote_asn": 65002}, nil),
			bgpPeerCheck("10.1.0.1", map[string]any{"remote_asn": 65002}, map[string]any{"vrf": "mgmt"}),
			bgpPeerCheck("10.1.0.1", map[string]any{"remote_asn": 65002}, map[string]any{"vrf": "cust1"}),
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Unknown peer, peer missing from the scoped VRF, unknown VRF.
	wantStatuses(t, results, check.StatusFail, check.StatusFail, check.StatusFail)
	for i := range results {
		if results[i].FailKind != check.FailNoExists {
			t.Errorf("results[%d] kind = %q, want %q", i, results[i].FailKind, check.FailNoExists)
		}
	}
}
