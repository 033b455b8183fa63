package eos

import "strings"

// aristaTypeAlias maps Arista-branded transceiver type reports to the
// standard type names used in designs.
var aristaTypeAlias = map[string]string{
	"100GBASE-AR4": "100GBASE-LR",
	"10GBASE-AR":   "10GBASE-LR",
	"10GBASE-CRA":  "10GBASE-CR",
}

// MatchModel reports whether a measured transceiver model satisfies the
// design's expected model. AOC-S-S-10G cables match on that prefix
// alone, since the rest of the model encodes the cable length. An "-AR"
// suffix marks an Arista-branded optic and is dropped before
// comparison. The aliases map translates device-reported models to
// design names and may be nil.
func MatchModel(expected, measured string, aliases map[string]string) bool {
	if strings.HasPrefix(expected, "AOC-S-S-10G") {
		return strings.HasPrefix(measured, "AOC-S-S-10G")
	}
	if strings.HasSuffix(measured, "-AR") {
		measured = strings.TrimSuffix(measured, "-AR")
	}
	if alias, ok := aliases[measured]; ok {
		measured = alias
	}
	return expected == measured
}

// MatchType reports whether a measured transceiver type satisfies the
// design's expected type, mapping Arista-branded type names first.
func MatchType(expected, measured string) bool {
	if alias, ok := aristaTypeAlias[measured]; ok {
		measured = alias
	}
	return expected == measured
}
