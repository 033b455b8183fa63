package check

// VlanExpected is the designed state of one VLAN. The check id is the
// VLAN id in string form. An empty Name skips the name comparison.
type VlanExpected struct {
	Name       string   `json:"name,omitempty"`
	OperUp     bool     `json:"oper_up"`
	Interfaces []string `json:"interfaces"`
}

// VlanMeasurement mirrors VlanExpected with values read from the
// device. Interfaces is the merged operational+configured member list
// with the Cpu pseudo-member mapped to its SVI name.
type VlanMeasurement struct {
	Name       string   `json:"name"`
	OperUp     bool     `json:"oper_up"`
	Interfaces []string `json:"interfaces"`
}

// VlansConfig is the vlans domain configuration blob.
type VlansConfig struct {
	// CheckVlan1 includes VLAN 1 in the exclusive membership
	// comparison. Designs that leave VLAN 1 to the platform default
	// keep this false.
	CheckVlan1 bool `json:"check_vlan1"`
}
