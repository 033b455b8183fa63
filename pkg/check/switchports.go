package check

// Switchport modes as reported by the device.
const (
	SwitchportModeAccess = "access"
	SwitchportModeTrunk  = "trunk"
)

// SwitchportExpected is the designed switchport profile of one
// interface. VlanID applies to access mode; NativeVlanID and
// TrunkAllowedVlans apply to trunk mode. A zero NativeVlanID skips the
// native VLAN comparison. An empty TrunkAllowedVlans set expects the
// device's full-range sentinel.
type SwitchportExpected struct {
	SwitchportMode    string `json:"switchport_mode"`
	VlanID            int    `json:"vlan,omitempty"`
	NativeVlanID      int    `json:"native_vlan,omitempty"`
	TrunkAllowedVlans []int  `json:"trunk_allowed_vlans,omitempty"`
}

// SwitchportMeasurement mirrors SwitchportExpected with values read
// from the device. TrunkAllowedVlans carries the device's own range
// string report, e.g. "14,16,25-26,29".
type SwitchportMeasurement struct {
	SwitchportMode    string `json:"switchport_mode"`
	VlanID            int    `json:"vlan,omitempty"`
	NativeVlanID      int    `json:"native_vlan,omitempty"`
	TrunkAllowedVlans string `json:"trunk_allowed_vlans,omitempty"`
}
