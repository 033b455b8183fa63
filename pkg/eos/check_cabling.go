package eos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// lldpNeighbor is one entry of the "show lldp neighbors" table.
type lldpNeighbor struct {
	Port           string `json:"port"`
	NeighborDevice string `json:"neighborDevice"`
	NeighborPort   string `json:"neighborPort"`
}

// checkCabling validates cable runs against the LLDP neighbor table.
// The neighbor self-reports its identity, so hostname and port-id
// comparisons are fuzzy rather than strict string equality.
func (d *DUT) checkCabling(ctx context.Context, collection *check.Collection) (check.Results, error) {
	raw, err := d.apiCacheGetOne(ctx, "show lldp neighbors")
	if err != nil {
		return nil, err
	}

	var rsp struct {
		LldpNeighbors []lldpNeighbor `json:"lldpNeighbors"`
	}
	if err := json.Unmarshal(raw, &rsp); err != nil {
		return nil, fmt.Errorf("decode show lldp neighbors: %w", err)
	}

	neighbors := make(map[string]lldpNeighbor, len(rsp.LldpNeighbors))
	for _, nei := range rsp.LldpNeighbors {
		neighbors[nei.Port] = nei
	}

	var results check.Results
	for _, c := range collection.Checks {
		nei, ok := neighbors[c.CheckID()]
		if !ok {
			results = append(results, check.NewFailNoExists(c))
			continue
		}
		r, err := checkOneCable(c, nei)
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}
	return results, nil
}

func checkOneCable(c *check.Check, nei lldpNeighbor) (check.Results, error) {
	var expected check.CablingExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	m := check.CablingMeasurement{
		Device: nei.NeighborDevice,
		PortID: nei.NeighborPort,
	}

	var results check.Results
	if !util.MatchHostname(expected.Device, m.Device) {
		results = append(results, check.NewFailField(c, "device", expected.Device, m.Device))
	}
	if !util.MatchInterfaceName(expected.PortID, m.PortID) {
		results = append(results, check.NewFailField(c, "port_id", expected.PortID, m.PortID))
	}
	return withPassIfClean(c, m, results), nil
}
