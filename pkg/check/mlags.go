package check

// MlagSystemCheckID is the check id of the once-per-session MLAG
// system sanity result.
const MlagSystemCheckID = "system"

// MlagExpected is the designed state of one MLAG pair. The check id is
// the port-channel interface name from which the MLAG id is derived.
type MlagExpected struct {
	Interfaces []LagMember `json:"interfaces"`
}
