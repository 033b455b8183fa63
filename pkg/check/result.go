package check

import (
	"fmt"
	"sort"
	"strings"
)

// Status classifies the outcome of evaluating one check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusInfo Status = "INFO"
	StatusSkip Status = "SKIP"
	StatusWarn Status = "WARN"
)

// FailKind refines a StatusFail result.
type FailKind string

const (
	// FailFieldMismatch marks a single expected field disagreeing with
	// the measured value.
	FailFieldMismatch FailKind = "field-mismatch"

	// FailNoExists marks a checked entity absent from the device.
	FailNoExists FailKind = "no-exists"

	// FailMissingMembers marks expected members absent from an
	// exclusive set.
	FailMissingMembers FailKind = "missing-members"

	// FailExtraMembers marks device members not present in an
	// exclusive set.
	FailExtraMembers FailKind = "extra-members"
)

// Result is the terminal outcome of one check evaluation. Results are
// appended to a Results list and never mutated afterwards.
type Result struct {
	Device   string   `json:"device"`
	Status   Status   `json:"status"`
	Check    *Check   `json:"check"`
	Field    string   `json:"field,omitempty"`
	FailKind FailKind `json:"fail_kind,omitempty"`
	Expected any      `json:"expected,omitempty"`
	Measured any      `json:"measured,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// CheckID returns the identifier of the check this result answers, or
// "" for collection-level results with no originating check.
func (r *Result) CheckID() string {
	if r.Check == nil {
		return ""
	}
	return r.Check.ID
}

func (r *Result) String() string {
	var b strings.Builder
	var t Type
	if r.Check != nil {
		t = r.Check.Type
	}
	fmt.Fprintf(&b, "%s %s/%s", r.Status, t, r.CheckID())
	if r.Field != "" {
		fmt.Fprintf(&b, " field=%s", r.Field)
	}
	if r.Message != "" {
		fmt.Fprintf(&b, ": %s", r.Message)
	}
	return b.String()
}

// NewPass returns a passing result carrying the full measurement.
func NewPass(c *Check, measured any) *Result {
	return &Result{Status: StatusPass, Check: c, Measured: measured}
}

// NewFailField returns a field-mismatch failure for one expected field.
func NewFailField(c *Check, field string, expected, measured any) *Result {
	return &Result{
		Status:   StatusFail,
		Check:    c,
		Field:    field,
		FailKind: FailFieldMismatch,
		Expected: expected,
		Measured: measured,
		Message:  fmt.Sprintf("%s mismatch: expected %v, measured %v", field, expected, measured),
	}
}

// NewFailNoExists returns a failure for an entity absent from the device.
func NewFailNoExists(c *Check) *Result {
	return &Result{
		Status:   StatusFail,
		Check:    c,
		FailKind: FailNoExists,
		Message:  fmt.Sprintf("%s %s does not exist on device", c.Type, c.ID),
	}
}

// NewFailMissingMembers returns a failure listing expected members the
// device does not report.
func NewFailMissingMembers(c *Check, field string, missing []string) *Result {
	sorted := sortedCopy(missing)
	return &Result{
		Status:   StatusFail,
		Check:    c,
		Field:    field,
		FailKind: FailMissingMembers,
		Expected: sorted,
		Message:  fmt.Sprintf("missing %s: %s", field, strings.Join(sorted, ", ")),
	}
}

// NewFailExtraMembers returns a failure listing device members the
// design does not expect.
func NewFailExtraMembers(c *Check, field string, extra []string) *Result {
	sorted := sortedCopy(extra)
	return &Result{
		Status:   StatusFail,
		Check:    c,
		Field:    field,
		FailKind: FailExtraMembers,
		Measured: sorted,
		Message:  fmt.Sprintf("extra %s: %s", field, strings.Join(sorted, ", ")),
	}
}

// NewInfo returns a non-blocking observational result. Info results
// never affect the pass/fail rollup.
func NewInfo(c *Check, field string, measured any) *Result {
	return &Result{Status: StatusInfo, Check: c, Field: field, Measured: measured}
}

// NewSkip returns a result recording that a check was intentionally not
// evaluated.
func NewSkip(c *Check, message string) *Result {
	return &Result{Status: StatusSkip, Check: c, Message: message}
}

// NewWarn returns a non-blocking mismatch: reported like a failure but
// excluded from AnyFailures.
func NewWarn(c *Check, field string, expected, measured any) *Result {
	return &Result{
		Status:   StatusWarn,
		Check:    c,
		Field:    field,
		Expected: expected,
		Measured: measured,
		Message:  fmt.Sprintf("%s mismatch: expected %v, measured %v", field, expected, measured),
	}
}

// Results is the ordered output of one executor invocation.
type Results []*Result

// AnyFailures reports whether any result failed. Warn results do not
// count as failures.
func (rs Results) AnyFailures() bool {
	for _, r := range rs {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// Failures returns only the failed results, preserving order.
func (rs Results) Failures() Results {
	return rs.ByStatus(StatusFail)
}

// ByStatus returns the results with the given status, preserving order.
func (rs Results) ByStatus(s Status) Results {
	var out Results
	for _, r := range rs {
		if r.Status == s {
			out = append(out, r)
		}
	}
	return out
}

// ByCheckID returns the results answering the check with the given id.
func (rs Results) ByCheckID(id string) Results {
	var out Results
	for _, r := range rs {
		if r.CheckID() == id {
			out = append(out, r)
		}
	}
	return out
}

// ExclusiveList evaluates collection-level exclusivity: the expected
// member set must equal the observed set. Expected-only members produce
// a missing-members failure, observed-only members an extra-members
// failure; with neither, a single Pass is produced. Membership results
// answer a synthetic check so they sort after per-entity results.
func ExclusiveList(c *Check, field string, expected, observed []string) Results {
	expSet := make(map[string]bool, len(expected))
	for _, m := range expected {
		expSet[m] = true
	}
	obsSet := make(map[string]bool, len(observed))
	for _, m := range observed {
		obsSet[m] = true
	}

	var missing, extra []string
	for _, m := range expected {
		if !obsSet[m] {
			missing = append(missing, m)
		}
	}
	for _, m := range observed {
		if !expSet[m] {
			extra = append(extra, m)
		}
	}

	var out Results
	if len(missing) > 0 {
		out = append(out, NewFailMissingMembers(c, field, missing))
	}
	if len(extra) > 0 {
		out = append(out, NewFailExtraMembers(c, field, extra))
	}
	if len(out) == 0 {
		out = append(out, NewPass(c, sortedCopy(observed)))
	}
	return out
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
