package eos

import "encoding/json"

// CLI response fragments shared by more than one executor. EOS returns
// these as maps keyed by interface name or VLAN id.

// ifaceStatus is one entry of "show interfaces status".
type ifaceStatus struct {
	LinkStatus         string `json:"linkStatus"`
	LineProtocolStatus string `json:"lineProtocolStatus"`
	Description        string `json:"description"`
	Bandwidth          int64  `json:"bandwidth"`
	InterfaceType      string `json:"interfaceType"`
}

// vlanEntry is one entry of "show vlan" and "show vlan brief". The
// member values carry no fields the checks need, only the key set.
type vlanEntry struct {
	Name       string                     `json:"name"`
	Status     string                     `json:"status"`
	Dynamic    bool                       `json:"dynamic"`
	Interfaces map[string]json.RawMessage `json:"interfaces"`
}

func (v *vlanEntry) hasMember(name string) bool {
	_, ok := v.Interfaces[name]
	return ok
}

// ipIfaceEntry is one entry of "show ip interface brief".
type ipIfaceEntry struct {
	LineProtocolStatus string `json:"lineProtocolStatus"`
	InterfaceStatus    string `json:"interfaceStatus"`
	InterfaceAddress   struct {
		IPAddr struct {
			Address string `json:"address"`
			MaskLen int    `json:"maskLen"`
		} `json:"ipAddr"`
	} `json:"interfaceAddress"`
}
