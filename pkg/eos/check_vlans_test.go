package eos

import (
	"context"
	"reflect"
	"testing"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/design"
)

const vlanOperPayload = `{"vlans":{
	"1":{"name":"default","status":"active","interfaces":{"Ethernet9":{}}},
	"10":{"name":"users","status":"active","interfaces":{"Cpu":{},"Ethernet3":{}}},
	"20":{"name":"servers","status":"suspended","interfaces":{}}
}}`

const vlanConfiguredPayload = `{"vlans":{
	"10":{"name":"users","interfaces":{"Ethernet4":{}}},
	"30":{"name":"batch","interfaces":{"Ethernet7":{}}}
}}`

func newVlansDUT() *DUT {
	d := newTestDUT(&design.Device{Name: "sw01"})
	seedCache(d, "show vlan", vlanOperPayload)
	seedCache(d, "show vlan configured-ports", vlanConfiguredPayload)
	return d
}

func vlanCheck(id string, expected map[string]any) *check.Check {
	return &check.Check{Type: check.TypeVlans, ID: id, Expected: expected}
}

func vlansCollection(checks ...*check.Check) *check.Collection {
	return &check.Collection{Device: "sw01", Type: check.TypeVlans, Checks: checks}
}

func TestVlansMergedMembership(t *testing.T) {
	d := newVlansDUT()

	// Ethernet4 is configured into VLAN 10 but operationally down, so
	// it only shows in the configured-ports view. The Cpu member maps
	// to the SVI name.
	results, err := d.Run(context.Background(), vlansCollection(
		vlanCheck("10", map[string]any{
			"name": "users", "oper_up": true,
			"interfaces": []string{"Ethernet3", "Ethernet4", "Vlan10"},
		}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass)

	m, ok := results[0].Measured.(check.VlanMeasurement)
	if !ok {
		t.Fatalf("measurement type = %T", results[0].Measured)
	}
	wantMembers := []string{"Ethernet3", "Ethernet4", "Vlan10"}
	if !reflect.DeepEqual(m.Interfaces, wantMembers) {
		t.Errorf("measured members = %v, want %v", m.Interfaces, wantMembers)
	}
}

func TestVlansNameMismatchWarns(t *testing.T) {
	d := newVlansDUT()
	results, err := d.Run(context.Background(), vlansCollection(
		vlanCheck("10", map[string]any{
			"name": "wrong", "oper_up": true,
			"interfaces": []string{"Ethernet3", "Ethernet4", "Vlan10"},
		}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusWarn, check.StatusPass)
	if results[0].Field != "name" {
		t.Errorf("warn field = %q, want name", results[0].Field)
	}

	// An empty designed name skips the comparison entirely.
	results, err = d.Run(context.Background(), vlansCollection(
		vlanCheck("10", map[string]any{
			"oper_up":    true,
			"interfaces": []string{"Ethernet3", "Ethernet4", "Vlan10"},
		}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass)
}

func TestVlansNameLooseCompare(t *testing.T) {
	// Designed names differing only in case or padding match the
	// device's report.
	d := newVlansDUT()
	results, err := d.Run(context.Background(), vlansCollection(
		vlanCheck("10", map[string]any{
			"name": "  USERS ", "oper_up": true,
			"interfaces": []string{"Ethernet3", "Ethernet4", "Vlan10"},
		}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass)
}

func TestVlansSuspendedFailsOper(t *testing.T) {
	d := newVlansDUT()
	results, err := d.Run(context.Background(), vlansCollection(
		vlanCheck("20", map[string]any{"name": "servers", "oper_up": true}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail)
	if results[0].Field != "oper_up" {
		t.Errorf("fail field = %q, want oper_up", results[0].Field)
	}
}

func TestVlansMissingMember(t *testing.T) {
	d := newVlansDUT()
	results, err := d.Run(context.Background(), vlansCollection(
		vlanCheck("10", map[string]any{
			"name": "users", "oper_up": true,
			"interfaces": []string{"Ethernet3", "Ethernet4", "Ethernet8", "Vlan10"},
		}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail)
	if results[0].FailKind != check.FailMissingMembers {
		t.Errorf("fail kind = %q, want %q", results[0].FailKind, check.FailMissingMembers)
	}
	missing, ok := results[0].Expected.([]string)
	if !ok || !reflect.DeepEqual(missing, []string{"Ethernet8"}) {
		t.Errorf("missing members = %v, want [Ethernet8]", results[0].Expected)
	}
}

func TestVlansExtraMembersOnlyWhenExclusive(t *testing.T) {
	d := newVlansDUT()
	partial := vlanCheck("10", map[string]any{
		"name": "users", "oper_up": true,
		"interfaces": []string{"Ethernet3"},
	})

	results, err := d.Run(context.Background(), vlansCollection(partial))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass)

	collection := vlansCollection(partial)
	collection.Exclusive = true
	results, err = d.Run(context.Background(), collection)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail, check.StatusPass)
	if results[0].FailKind != check.FailExtraMembers {
		t.Errorf("fail kind = %q, want %q", results[0].FailKind, check.FailExtraMembers)
	}
}

func TestVlansConfiguredOnly(t *testing.T) {
	// VLAN 30 has every member down, so it is absent from "show vlan"
	// and comes in wholesale from the configured-ports view.
	d := newVlansDUT()
	results, err := d.Run(context.Background(), vlansCollection(
		vlanCheck("30", map[string]any{
			"name": "batch", "oper_up": false,
			"interfaces": []string{"Ethernet7"},
		}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass)
}

func TestVlansAbsent(t *testing.T) {
	d := newVlansDUT()
	results, err := d.Run(context.Background(), vlansCollection(
		vlanCheck("99", map[string]any{"oper_up": true}),
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail)
	if results[0].FailKind != check.FailNoExists {
		t.Errorf("fail kind = %q, want %q", results[0].FailKind, check.FailNoExists)
	}
}

func TestVlansVlan1Default(t *testing.T) {
	// VLAN 1 belongs to the platform unless the design opts in, so it
	// is no extra even under an exclusive collection.
	d := newVlansDUT()
	full := vlanCheck("10", map[string]any{
		"name": "users", "oper_up": true,
		"interfaces": []string{"Ethernet3", "Ethernet4", "Vlan10"},
	})
	collection := vlansCollection(full)
	collection.Exclusive = true

	results, err := d.Run(context.Background(), collection)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass, check.StatusPass)

	collection = vlansCollection(full)
	collection.Exclusive = true
	collection.Config = map[string]any{"check_vlan1": true}
	results, err = d.Run(context.Background(), collection)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass, check.StatusFail)
	if results[1].FailKind != check.FailExtraMembers {
		t.Errorf("fail kind = %q, want %q", results[1].FailKind, check.FailExtraMembers)
	}
	extra, ok := results[1].Measured.([]string)
	if !ok || !reflect.DeepEqual(extra, []string{"1"}) {
		t.Errorf("extra vlans = %v, want [1]", results[1].Measured)
	}
}
