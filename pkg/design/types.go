// Package design models verification intent: per-device design records
// and the check collections built from them. The package only consumes
// already-built design data; it never generates or persists intent.
package design

// Interface profile flags carried in the design record.
const (
	// FlagReserved marks an interface owned by an external entity.
	// Checks report its state as Info and never fail it.
	FlagReserved = "is_reserved"

	// FlagForcedUnused marks an interface the design forces down
	// regardless of its assigned profile.
	FlagForcedUnused = "is_forced_unused"
)

// Interface is the designed state of one device interface.
type Interface struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Desc    string   `json:"desc,omitempty"`
	Profile string   `json:"profile,omitempty"`
	Flags   []string `json:"profile_flags,omitempty"`
}

// HasFlag reports whether the interface carries the given profile flag.
func (i *Interface) HasFlag(flag string) bool {
	for _, f := range i.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Reserved reports whether the interface is externally owned.
func (i *Interface) Reserved() bool { return i.HasFlag(FlagReserved) }

// ForcedUnused reports whether the design forces the interface down.
func (i *Interface) ForcedUnused() bool { return i.HasFlag(FlagForcedUnused) }

// Device is the designed identity of one device.
type Device struct {
	Name       string                `json:"name"`
	OSName     string                `json:"os_name"`
	Product    string                `json:"product,omitempty"`
	Interfaces map[string]*Interface `json:"interfaces,omitempty"`
}

// Interface returns the designed record for the named interface, or nil
// when the design does not describe it.
func (d *Device) Interface(name string) *Interface {
	if d == nil || d.Interfaces == nil {
		return nil
	}
	return d.Interfaces[name]
}
