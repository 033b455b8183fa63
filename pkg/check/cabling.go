package check

// CablingExpected is the designed far end of one cable run. The check
// id is the local interface name. Comparisons against the neighbor's
// self-reported identity are fuzzy: hostnames ignore case and domain
// suffix, port ids ignore interface-name abbreviation.
type CablingExpected struct {
	Device string `json:"device"`
	PortID string `json:"port_id"`
}

// CablingMeasurement mirrors CablingExpected with values read from the
// device's LLDP neighbor table.
type CablingMeasurement struct {
	Device string `json:"device"`
	PortID string `json:"port_id"`
}
