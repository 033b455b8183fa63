// Package check defines the expectation units a network design produces
// and the results of evaluating them against a live device.
//
// A Check pairs one device entity (an interface, a VLAN, a BGP neighbor)
// with the field values the design expects that entity to report. Checks
// of one domain are grouped into a Collection; evaluating a Collection
// yields a Results list whose order follows the check order, with
// collection-level results appended last.
package check

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Type identifies a check domain. A Collection carries exactly one Type,
// and a device adapter registers one executor per Type it supports.
type Type string

const (
	TypeDeviceInfo   Type = "device-info"
	TypeInterfaces   Type = "interfaces"
	TypeTransceivers Type = "transceivers"
	TypeCabling      Type = "cabling"
	TypeVlans        Type = "vlans"
	TypeSwitchports  Type = "switchports"
	TypeLags         Type = "lags"
	TypeMlags        Type = "mlags"
	TypeIPAddrs      Type = "ipaddrs"
	TypeBGPPeering   Type = "bgp-peering"
	TypeBGPRouters   Type = "bgp-routers"
)

// AllTypes lists every check domain in report order.
var AllTypes = []Type{
	TypeDeviceInfo,
	TypeInterfaces,
	TypeTransceivers,
	TypeCabling,
	TypeVlans,
	TypeSwitchports,
	TypeLags,
	TypeMlags,
	TypeIPAddrs,
	TypeBGPPeering,
	TypeBGPRouters,
}

// Valid reports whether t is a known check domain.
func (t Type) Valid() bool {
	for _, k := range AllTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Check is a single expectation unit: one device entity and the field
// values the design expects for it. Checks are built by the design
// loader and never mutated afterwards.
type Check struct {
	Type     Type           `json:"check_type"`
	ID       string         `json:"check_id"`
	Params   map[string]any `json:"check_params,omitempty"`
	Expected map[string]any `json:"expected_results"`
}

// CheckID returns the identifier of the device entity this check
// targets, unique within its collection.
func (c *Check) CheckID() string { return c.ID }

// DecodeExpected fills a domain-typed expected-results struct from the
// check's raw expected map. JSON numbers decode into int fields.
func (c *Check) DecodeExpected(out any) error {
	if err := decodeLoose(c.Expected, out); err != nil {
		return fmt.Errorf("check %s/%s: decoding expected results: %w", c.Type, c.ID, err)
	}
	return nil
}

// DecodeParams fills a domain-typed parameters struct from the check's
// raw params map. A nil params map leaves out unchanged.
func (c *Check) DecodeParams(out any) error {
	if c.Params == nil {
		return nil
	}
	if err := decodeLoose(c.Params, out); err != nil {
		return fmt.Errorf("check %s/%s: decoding params: %w", c.Type, c.ID, err)
	}
	return nil
}

// Collection is an ordered sequence of Checks of one domain type for one
// device, plus collection-level flags.
type Collection struct {
	Device string `json:"device"`
	Type   Type   `json:"check_type"`

	// Exclusive marks the collection's expected entity set as complete:
	// the device must report no members beyond those expected.
	Exclusive bool `json:"exclusive"`

	// Config is an optional domain configuration blob, e.g. whether the
	// vlans domain should check VLAN 1.
	Config map[string]any `json:"config,omitempty"`

	Checks []*Check `json:"checks"`
}

// DecodeConfig fills a domain-typed configuration struct from the
// collection's config blob. A nil blob leaves out at its defaults.
func (cc *Collection) DecodeConfig(out any) error {
	if cc.Config == nil {
		return nil
	}
	if err := decodeLoose(cc.Config, out); err != nil {
		return fmt.Errorf("collection %s/%s: decoding config: %w", cc.Device, cc.Type, err)
	}
	return nil
}

// NewExclusiveCheck builds the synthetic check that collection-level
// exclusivity results answer to.
func NewExclusiveCheck(t Type) *Check {
	return &Check{Type: t, ID: "exclusive"}
}

// decodeLoose decodes a raw map into a struct using json field tags,
// coercing JSON's float64 numbers into integer fields.
func decodeLoose(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
