package eos

import (
	"context"
	"testing"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/design"
)

func deviceInfoCollection(model string) *check.Collection {
	return &check.Collection{
		Device: "sw01",
		Type:   check.TypeDeviceInfo,
		Checks: []*check.Check{{
			Type:     check.TypeDeviceInfo,
			ID:       "sw01",
			Expected: map[string]any{"product_model": model},
		}},
	}
}

func TestDeviceInfoMatch(t *testing.T) {
	d := newTestDUT(&design.Device{Name: "sw01"})
	d.Version = VersionInfo{ModelName: "DCS-7050SX3-48YC8", Version: "4.28.3M"}

	results, err := d.Run(context.Background(), deviceInfoCollection("DCS-7050SX3-48YC8"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass, check.StatusInfo)

	m, ok := results[0].Measured.(check.DeviceInfoMeasurement)
	if !ok {
		t.Fatalf("pass measurement type = %T", results[0].Measured)
	}
	if m.ProductModel != "DCS-7050SX3-48YC8" {
		t.Errorf("measured model = %q", m.ProductModel)
	}
	if results[1].Field != "version_info" {
		t.Errorf("info field = %q, want version_info", results[1].Field)
	}
	if results[0].Device != "sw01" {
		t.Errorf("result device = %q, want sw01", results[0].Device)
	}
}

func TestDeviceInfoAirflowVariant(t *testing.T) {
	// Real gear reports -F/-R airflow suffixes the design omits.
	d := newTestDUT(&design.Device{Name: "sw01"})
	d.Version = VersionInfo{ModelName: "DCS-7050SX3-48YC8-F"}

	results, err := d.Run(context.Background(), deviceInfoCollection("DCS-7050SX3-48YC8"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusPass, check.StatusInfo)
}

func TestDeviceInfoMismatch(t *testing.T) {
	d := newTestDUT(&design.Device{Name: "sw01"})
	d.Version = VersionInfo{ModelName: "DCS-7280SR-48C6"}

	results, err := d.Run(context.Background(), deviceInfoCollection("DCS-7050SX3-48YC8"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStatuses(t, results, check.StatusFail, check.StatusInfo)
	if results[0].Field != "product_model" {
		t.Errorf("fail field = %q, want product_model", results[0].Field)
	}
	if results[0].FailKind != check.FailFieldMismatch {
		t.Errorf("fail kind = %q, want %q", results[0].FailKind, check.FailFieldMismatch)
	}
}

func TestDeviceInfoNoChecks(t *testing.T) {
	d := newTestDUT(&design.Device{Name: "sw01"})
	results, err := d.Run(context.Background(), &check.Collection{
		Device: "sw01",
		Type:   check.TypeDeviceInfo,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for an empty collection", len(results))
	}
}
