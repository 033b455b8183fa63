package check

// InterfaceExpected is the designed operational state of one interface.
// Speed is expressed in Mb/s.
type InterfaceExpected struct {
	Used   bool   `json:"used"`
	OperUp bool   `json:"oper_up,omitempty"`
	Desc   string `json:"desc,omitempty"`
	Speed  int    `json:"speed,omitempty"`
}

// InterfaceMeasurement mirrors InterfaceExpected with values read from
// the device.
type InterfaceMeasurement struct {
	Used   bool   `json:"used"`
	OperUp bool   `json:"oper_up"`
	Desc   string `json:"desc"`
	Speed  int    `json:"speed"`
}
