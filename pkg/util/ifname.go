package util

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var parseInterfaceRegexp = regexp.MustCompile(`^([a-zA-Z][a-zA-Z-]*?)(\d+(?:/\d+)*)$`)

// ParseInterfaceName extracts interface type, number, and subinterface
// Returns ("Ethernet", "49/1", "100") for Ethernet49/1.100
func ParseInterfaceName(name string) (ifType string, num string, subintf string) {
	// Check for subinterface
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		subintf = parts[1]
		name = parts[0]
	}

	// Extract type and number
	matches := parseInterfaceRegexp.FindStringSubmatch(name)
	if len(matches) == 3 {
		return matches[1], matches[2], subintf
	}

	return name, "", subintf
}

// Interface name mappings (long <-> short)
var (
	// longToShort maps full interface type names to EOS abbreviations
	longToShort = map[string]string{
		"Ethernet":     "Et",
		"Port-Channel": "Po",
		"Loopback":     "Lo",
		"Vlan":         "Vl",
		"Management":   "Ma",
	}

	// shortToLong maps abbreviations to full interface type names
	shortToLong = map[string]string{
		"et":           "Ethernet",
		"eth":          "Ethernet",
		"ethernet":     "Ethernet",
		"po":           "Port-Channel",
		"port-channel": "Port-Channel",
		"lo":           "Loopback",
		"loopback":     "Loopback",
		"vl":           "Vlan",
		"vlan":         "Vlan",
		"ma":           "Management",
		"mgmt":         "Management",
		"management":   "Management",
	}

	// shortToLongSorted contains abbreviation keys sorted longest-first
	// so that "vlan" is matched before "vl" in NormalizeInterfaceName.
	shortToLongSorted []string
)

func init() {
	shortToLongSorted = make([]string, 0, len(shortToLong))
	for k := range shortToLong {
		shortToLongSorted = append(shortToLongSorted, k)
	}
	sort.Slice(shortToLongSorted, func(i, j int) bool {
		return len(shortToLongSorted[i]) > len(shortToLongSorted[j])
	})
}

// ShortenInterfaceName converts a full interface name to short form
// Ethernet49 -> Et49, Port-Channel100 -> Po100, Vlan100 -> Vl100
func ShortenInterfaceName(name string) string {
	ifType, num, subintf := ParseInterfaceName(name)

	if short, ok := longToShort[ifType]; ok {
		result := short + num
		if subintf != "" {
			result += "." + subintf
		}
		return result
	}

	return name
}

// NormalizeInterfaceName normalizes interface names to full EOS form
// et49 -> Ethernet49, po100 -> Port-Channel100, Eth3/1 -> Ethernet3/1
func NormalizeInterfaceName(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)

	for _, abbr := range shortToLongSorted {
		if strings.HasPrefix(lower, abbr) && len(name) > len(abbr) {
			suffix := name[len(abbr):]
			if len(suffix) > 0 && suffix[0] >= '0' && suffix[0] <= '9' {
				return shortToLong[abbr] + suffix
			}
		}
	}

	// Already in correct format or unknown
	return name
}

// MatchInterfaceName compares two interface names after normalizing
// abbreviations and case: "eth49/1" matches "Ethernet49/1".
func MatchInterfaceName(a, b string) bool {
	return strings.EqualFold(NormalizeInterfaceName(a), NormalizeInterfaceName(b))
}

// MatchHostname compares a designed hostname with a neighbor-reported
// one, ignoring case and any domain suffix on either side.
func MatchHostname(a, b string) bool {
	return strings.EqualFold(StripDomain(a), StripDomain(b))
}

// PortNumber returns the leading port number of an interface name:
// Ethernet49 -> 49, Ethernet49/1 -> 49. Returns false when the name
// carries no number.
func PortNumber(name string) (int, bool) {
	_, num, _ := ParseInterfaceName(name)
	if num == "" {
		return 0, false
	}
	first := strings.SplitN(num, "/", 2)[0]
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0, false
	}
	return n, true
}
