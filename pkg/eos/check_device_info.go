package eos

import (
	"context"

	"github.com/netmatch-network/netmatch/pkg/check"
)

// checkDeviceInfo validates the device product model against the design
// and reports the raw version info as an informational result. The
// model is compared as a prefix because real gear may report front or
// rear airflow variants of the design's model.
func (d *DUT) checkDeviceInfo(ctx context.Context, collection *check.Collection) (check.Results, error) {
	var results check.Results
	if len(collection.Checks) == 0 {
		return results, nil
	}
	c := collection.Checks[0]

	var expected check.DeviceInfoExpected
	if err := c.DecodeExpected(&expected); err != nil {
		return nil, err
	}

	measured := d.Version.ModelName
	if matchProduct(expected.ProductModel, measured) {
		results = append(results, check.NewPass(c, check.DeviceInfoMeasurement{ProductModel: measured}))
	} else {
		results = append(results, check.NewFailField(c, "product_model", expected.ProductModel, measured))
	}

	results = append(results, check.NewInfo(c, "version_info", d.Version))
	return results, nil
}

// matchProduct compares product models up to the length of the shorter
// one, so a design model of "DCS-7050SX3-48YC8" matches a measured
// "DCS-7050SX3-48YC8-F".
func matchProduct(expected, measured string) bool {
	n := len(expected)
	if len(measured) < n {
		n = len(measured)
	}
	return expected[:n] == measured[:n]
}
