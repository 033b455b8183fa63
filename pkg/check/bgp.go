package check

// BGP neighbor session states, matching the design's neighbor-state
// enumeration. Device-reported state strings map through a per-adapter
// table before comparison.
const (
	BGPStateIdle        = "IDLE"
	BGPStateConnect     = "CONNECT"
	BGPStateActive      = "ACTIVE"
	BGPStateOpenSent    = "OPEN_SENT"
	BGPStateOpenConfirm = "OPEN_CONFIRM"
	BGPStateEstablished = "ESTABLISHED"
)

// BGPNeighborExpected is the designed state of one BGP peering
// session. The check id is the neighbor IP address; an optional "vrf"
// check param selects a non-default VRF.
type BGPNeighborExpected struct {
	RemoteASN int    `json:"remote_asn"`
	State     string `json:"state"`
}

// BGPNeighborMeasurement mirrors BGPNeighborExpected with values read
// from the device's BGP summary.
type BGPNeighborMeasurement struct {
	RemoteASN int    `json:"remote_asn"`
	State     string `json:"state"`
}

// BGPRouterExpected is the designed identity of one BGP router
// instance. The check id is the VRF name.
type BGPRouterExpected struct {
	ASN      int    `json:"asn"`
	RouterID string `json:"router_id"`
}

// BGPRouterMeasurement mirrors BGPRouterExpected with values read from
// the device's BGP summary.
type BGPRouterMeasurement struct {
	ASN      int    `json:"asn"`
	RouterID string `json:"router_id"`
}

// VRFParam is the shared check-params shape for domains that scope a
// check to a VRF. An empty VRF means the device's default VRF.
type VRFParam struct {
	VRF string `json:"vrf,omitempty"`
}
