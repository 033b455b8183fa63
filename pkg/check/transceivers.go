package check

// TransceiverExpected is the designed optic in one physical port. The
// check id is the interface name.
type TransceiverExpected struct {
	Model string `json:"model"`
	Type  string `json:"type"`
}

// TransceiverMeasurement mirrors TransceiverExpected with values read
// from the device inventory.
type TransceiverMeasurement struct {
	Model string `json:"model"`
	Type  string `json:"type"`
}
