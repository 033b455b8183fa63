package check

// ReservedIPAddr is the expected if_ipaddr sentinel for addresses
// configured by an external entity; the measured value is recorded as
// Info and never compared.
const ReservedIPAddr = "is_reserved"

// IPInterfaceExpected is the designed IP addressing of one interface.
// The check id is the interface name; the address is in "addr/masklen"
// form. An optional "vrf" check param selects a non-default VRF.
type IPInterfaceExpected struct {
	IfIPAddr string `json:"if_ipaddr"`
}

// IPInterfaceMeasurement mirrors IPInterfaceExpected with values read
// from the device.
type IPInterfaceMeasurement struct {
	IfIPAddr string `json:"if_ipaddr"`
	IfOper   string `json:"if_oper"`
}
