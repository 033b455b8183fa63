package check

// LagMember pairs a member interface with its expected bundled state.
type LagMember struct {
	Interface string `json:"interface"`
	Enabled   bool   `json:"enabled"`
}

// LagExpected is the designed state of one port-channel. The check id
// is the port-channel interface name.
type LagExpected struct {
	Enabled    bool        `json:"enabled"`
	Interfaces []LagMember `json:"interfaces"`
}

// LagMeasurement mirrors LagExpected with values read from the device.
// A member is enabled iff its LACP actor port status reports bundled;
// the LAG itself is enabled unless every member is unbundled.
type LagMeasurement struct {
	Enabled    bool        `json:"enabled"`
	Interfaces []LagMember `json:"interfaces"`
}
