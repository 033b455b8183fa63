package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// xcvrSlot is one entry of the "show inventory" xcvrSlots table. EOS
// keys this table by port number, not interface name: the optic in
// Ethernet54/1 lives in slot "54".
type xcvrSlot struct {
	ModelName   string `json:"modelName"`
	SerialNum   string `json:"serialNum"`
	HardwareRev string `json:"hardwareRev"`
	MfgName     string `json:"mfgName"`
}

// ifaceHardware is one entry of "show interfaces hardware".
type ifaceHardware struct {
	TransceiverType string `json:"transceiverType"`
}

// checkTransceivers validates installed optics against the design:
// model from the inventory table, type from the interface hardware
// table.
func (d *DUT) checkTransceivers(ctx context.Context, collection *check.Collection) (check.Results, error) {
	rawInv, err := d.apiCacheGetOne(ctx, "show inventory")
	if err != nil {
		return nil, err
	}
	rawHw, err := d.apiCacheGetOne(ctx, "show interfaces hardware")
	if err != nil {
		return nil, err
	}

	var inv struct {
		XcvrSlots map[string]*xcvrSlot `json:"xcvrSlots"`
	}
	var hw struct {
		Interfaces map[string]*ifaceHardware `json:"interfaces"`
	}
	if err := json.Unmarshal(rawInv, &inv); err != nil {
		return nil, fmt.Errorf("decode show inventory: %w", err)
	}
	if err := json.Unmarshal(rawHw, &hw); err != nil {
		return nil, fmt.Errorf("decode show interfaces hardware: %w", err)
	}

	expdPorts := make(map[int]bool)
	exemptPorts := make(map[int]bool)
	var results check.Results

	for _, c := range collection.Checks {
		name := c.CheckID()
		port, ok := util.PortNumber(name)
		if !ok {
			return nil, fmt.Errorf("transceiver check %q: interface name has no port number", name)
		}
		slot := inv.XcvrSlots[strconv.Itoa(port)]
		hwEntry := hw.Interfaces[name]

		if iface := d.Design.Interface(name); iface != nil {
			// A reserved port's optic belongs to whoever owns the port.
			if iface.Reserved() {
				results = append(results, check.NewInfo(c, "reserved", map[string]any{
					"message":  "interface is in reserved state",
					"hardware": slot,
					"status":   hwEntry,
				}))
				exemptPorts[port] = true
				continue
			}
			// An optic left in a port the design keeps unused is worth
			// flagging but does not fail the run.
			if !iface.Enabled {
				if slot != nil && slot.ModelName != "" {
					results = append(results, check.NewWarn(c, "installed", "none", slot.ModelName))
				} else {
					results = append(results, check.NewPass(c, "unused"))
				}
				exemptPorts[port] = true
				continue
			}
		}
		expdPorts[port] = true

		r, err := d.checkOneTransceiver(c, slot, hwEntry)
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}

	if collection.Exclusive {
		results = append(results, checkExclusiveTransceivers(expdPorts, exemptPorts, inv.XcvrSlots)...)
	}
	return results, nil
}

// checkOneTransceiver validates one optic. An empty slot, or a slot
// reporting no model, means the designed transceiver is absent.
func (d *DUT) checkOneTransceiver(c *check.Check, slot *xcvrSlot, hw *ifaceHardware) (check.Results, error) {
	var expected check.TransceiverExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	if slot == nil || slot.ModelName == "" {
		return check.Results{check.NewFailNoExists(c)}, nil
	}

	var results check.Results
	if !MatchModel(expected.Model, slot.ModelName, d.ModelAliases) {
		results = append(results, check.NewFailField(c, "model", expected.Model, slot.ModelName))
	}

	msrdType := ""
	if hw != nil {
		msrdType = hw.TransceiverType
	}
	if !MatchType(expected.Type, msrdType) {
		results = append(results, check.NewFailField(c, "type", expected.Type, msrdType))
	}

	m := check.TransceiverMeasurement{Model: slot.ModelName, Type: msrdType}
	return withPassIfClean(c, m, results), nil
}

// checkExclusiveTransceivers flags optics in slots the design does not
// account for, and designed optics whose slots are empty. Reserved and
// design-unused ports stay out of both sides, so an unaccounted optic
// in one of those slots is not an extra.
func checkExclusiveTransceivers(expdPorts, exemptPorts map[int]bool, slots map[string]*xcvrSlot) check.Results {
	ex := check.NewExclusiveCheck(check.TypeTransceivers)

	usedPorts := make(map[int]bool, len(slots))
	for portStr, slot := range slots {
		if slot == nil || slot.ModelName == "" {
			continue
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			continue
		}
		if !exemptPorts[port] {
			usedPorts[port] = true
		}
	}

	var missing, extras []string
	for port := range expdPorts {
		if !usedPorts[port] {
			missing = append(missing, strconv.Itoa(port))
		}
	}
	for port := range usedPorts {
		if !expdPorts[port] {
			extras = append(extras, strconv.Itoa(port))
		}
	}

	var results check.Results
	if len(missing) > 0 {
		results = append(results, check.NewFailMissingMembers(ex, "transceivers", missing))
	}
	if len(extras) > 0 {
		results = append(results, check.NewFailExtraMembers(ex, "transceivers", extras))
	}
	if len(results) == 0 {
		results = append(results, check.NewPass(ex, "OK: no extra or missing transceivers"))
	}
	return results
}
