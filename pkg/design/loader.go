package design

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/netmatch-network/netmatch/pkg/check"
	"github.com/netmatch-network/netmatch/pkg/util"
)

// Loader reads a checks directory produced by the design tooling. The
// layout is one subdirectory per device holding a device.json record
// and one <check-type>.json collection file per check domain present.
type Loader struct {
	checksDir   string
	devices     map[string]*Device
	collections map[string][]*check.Collection
}

// NewLoader creates a loader for the given checks directory.
func NewLoader(checksDir string) *Loader {
	return &Loader{
		checksDir:   checksDir,
		devices:     make(map[string]*Device),
		collections: make(map[string][]*check.Collection),
	}
}

// Load reads every device subdirectory and its collection files.
func (l *Loader) Load() error {
	entries, err := os.ReadDir(l.checksDir)
	if err != nil {
		return fmt.Errorf("reading checks directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if err := l.loadDevice(name); err != nil {
			return fmt.Errorf("loading device %s: %w", name, err)
		}
	}

	if len(l.devices) == 0 {
		return fmt.Errorf("checks directory %s: %w", l.checksDir, util.ErrNotFound)
	}
	return nil
}

func (l *Loader) loadDevice(name string) error {
	dir := filepath.Join(l.checksDir, name)

	data, err := os.ReadFile(filepath.Join(dir, "device.json"))
	if err != nil {
		return fmt.Errorf("reading device record: %w", err)
	}

	var dev Device
	if err := json.Unmarshal(data, &dev); err != nil {
		return fmt.Errorf("parsing device record: %w", err)
	}
	if dev.Name == "" {
		dev.Name = name
	}
	if err := validateDevice(name, &dev); err != nil {
		return err
	}

	var colls []*check.Collection
	for _, typ := range check.AllTypes {
		path := filepath.Join(dir, string(typ)+".json")
		cdata, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading %s collection: %w", typ, err)
		}

		var coll check.Collection
		if err := json.Unmarshal(cdata, &coll); err != nil {
			return fmt.Errorf("parsing %s collection: %w", typ, err)
		}
		if coll.Device == "" {
			coll.Device = dev.Name
		}
		if coll.Type == "" {
			coll.Type = typ
		}
		if err := validateCollection(&dev, typ, &coll); err != nil {
			return err
		}
		colls = append(colls, &coll)
	}

	l.devices[dev.Name] = &dev
	l.collections[dev.Name] = colls
	return nil
}

func validateDevice(dirName string, dev *Device) error {
	v := &util.ValidationBuilder{}

	v.Add(dev.OSName != "", "os_name is required")
	if dev.Name != dirName {
		v.AddErrorf("device name %q does not match directory %q", dev.Name, dirName)
	}
	for name, ifc := range dev.Interfaces {
		if ifc.Name == "" {
			ifc.Name = name
		} else if ifc.Name != name {
			v.AddErrorf("interface %q record names itself %q", name, ifc.Name)
		}
	}

	return v.Build()
}

func validateCollection(dev *Device, typ check.Type, coll *check.Collection) error {
	v := &util.ValidationBuilder{}

	if coll.Device != dev.Name {
		v.AddErrorf("%s collection names device %q, want %q", typ, coll.Device, dev.Name)
	}
	if coll.Type != typ {
		v.AddErrorf("%s collection declares check_type %q", typ, coll.Type)
	}

	seen := make(map[string]bool, len(coll.Checks))
	for i, c := range coll.Checks {
		if c.Type == "" {
			c.Type = typ
		}
		if c.Type != typ {
			v.AddErrorf("%s check[%d] declares check_type %q", typ, i, c.Type)
		}
		if c.ID == "" {
			v.AddErrorf("%s check[%d] has no check_id", typ, i)
			continue
		}
		if seen[c.ID] {
			v.AddErrorf("%s has duplicate check_id %q", typ, c.ID)
		}
		seen[c.ID] = true
		validateExpected(v, typ, c)
	}

	return v.Build()
}

// validateExpected applies the per-domain shape rules the executors
// assume: VLAN ids within the 802.1Q range, IPv4 CIDR addresses, AS
// numbers within the 4-byte range. Domains not listed carry no shape
// constraints beyond their struct fields.
func validateExpected(v *util.ValidationBuilder, typ check.Type, c *check.Check) {
	switch typ {
	case check.TypeVlans:
		id, err := strconv.Atoi(c.ID)
		if err != nil {
			v.AddErrorf("vlans check %q: id is not a VLAN number", c.ID)
			return
		}
		if err := util.ValidateVLANID(id); err != nil {
			v.AddErrorf("vlans check %q: %v", c.ID, err)
		}

	case check.TypeSwitchports:
		var e check.SwitchportExpected
		if err := c.DecodeExpected(&e); err != nil {
			v.AddError(err.Error())
			return
		}
		ids := append([]int{e.VlanID, e.NativeVlanID}, e.TrunkAllowedVlans...)
		for _, id := range ids {
			if id == 0 {
				continue
			}
			if err := util.ValidateVLANID(id); err != nil {
				v.AddErrorf("switchports check %q: %v", c.ID, err)
			}
		}

	case check.TypeIPAddrs:
		var e check.IPInterfaceExpected
		if err := c.DecodeExpected(&e); err != nil {
			v.AddError(err.Error())
			return
		}
		if e.IfIPAddr != check.ReservedIPAddr && !util.IsValidIPv4CIDR(e.IfIPAddr) {
			v.AddErrorf("ipaddrs check %q: %q is not an IPv4 CIDR address", c.ID, e.IfIPAddr)
		}

	case check.TypeBGPPeering:
		if !util.IsValidIPv4(c.ID) {
			v.AddErrorf("bgp-peering check %q: id is not an IPv4 neighbor address", c.ID)
		}
		var e check.BGPNeighborExpected
		if err := c.DecodeExpected(&e); err != nil {
			v.AddError(err.Error())
			return
		}
		if e.RemoteASN != 0 {
			if err := util.ValidateASN(e.RemoteASN); err != nil {
				v.AddErrorf("bgp-peering check %q: %v", c.ID, err)
			}
		}

	case check.TypeBGPRouters:
		var e check.BGPRouterExpected
		if err := c.DecodeExpected(&e); err != nil {
			v.AddError(err.Error())
			return
		}
		if e.ASN != 0 {
			if err := util.ValidateASN(e.ASN); err != nil {
				v.AddErrorf("bgp-routers check %q: %v", c.ID, err)
			}
		}
	}
}

// DeviceNames returns the loaded device names, sorted for deterministic
// iteration.
func (l *Loader) DeviceNames() []string {
	names := make([]string, 0, len(l.devices))
	for name := range l.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Device returns the design record for the named device.
func (l *Loader) Device(name string) (*Device, error) {
	dev, ok := l.devices[name]
	if !ok {
		return nil, fmt.Errorf("device %q: %w", name, util.ErrNotFound)
	}
	return dev, nil
}

// Collections returns the check collections loaded for the named
// device, in check-domain report order.
func (l *Loader) Collections(name string) ([]*check.Collection, error) {
	colls, ok := l.collections[name]
	if !ok {
		return nil, fmt.Errorf("device %q: %w", name, util.ErrNotFound)
	}
	return colls, nil
}
