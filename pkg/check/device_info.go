package check

// DeviceInfoExpected is the designed identity of the device. The
// product model comparison tolerates vendor-added front/rear panel
// suffixes, so only the common prefix must match.
type DeviceInfoExpected struct {
	ProductModel string `json:"product_model"`
}

// DeviceInfoMeasurement mirrors DeviceInfoExpected with values read
// from the device.
type DeviceInfoMeasurement struct {
	ProductModel string `json:"product_model"`
}
