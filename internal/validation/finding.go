// internal/validation/finding.go
//
// Findings and the path-indexed Report.
//
// Context
// -------
// Every rule in the catalog answers with a Report fragment: a map from a
// pointer into the record (for example `/isbns/2/value`) to the ordered
// findings raised against it.  Record-wide findings live under the
// reserved `globalErrors` key.  The orchestrator merges fragments in rule
// order, so the UI receives one structure no matter which rule or stage
// produced an entry.
//
// Wire shape
// ----------
//
//	{ "<path>": [ {"message": "...", "type": "Error"|"Warning"}, ... ] }
//
// Notes
// -----
//   - Merge concatenates, it never deduplicates or drops.
//   - A path missing from the Report simply means no loaded rule flagged it.
package validation

import (
	"encoding/json"
	"sort"
	"strconv"
)

// GlobalErrors is the reserved path for record-wide findings.
const GlobalErrors = "globalErrors"

// Severity classifies a finding.  Error blocks acceptance, Warning informs.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
)

// Finding is one reported validation issue.
type Finding struct {
	Path     string   `json:"-"`
	Message  string   `json:"message"`
	Severity Severity `json:"type"`
}

// NewFinding returns an Error-severity finding at path.
func NewFinding(path, message string) Finding {
	return Finding{Path: path, Message: message, Severity: SeverityError}
}

// NewWarning returns a Warning-severity finding at path.
func NewWarning(path, message string) Finding {
	return Finding{Path: path, Message: message, Severity: SeverityWarning}
}

// newSeverity builds a finding with an explicit severity; empty means Error.
func newSeverity(path, message string, sev Severity) Finding {
	if sev == "" {
		sev = SeverityError
	}
	return Finding{Path: path, Message: message, Severity: sev}
}

// Report maps a record path to the findings raised against it, in the
// order they were added.  The zero value is an empty, usable report for
// reads; use Add or Merge on a non-nil map.
type Report map[string][]Finding

// NewReport returns an empty report, optionally seeded with findings.
func NewReport(fs ...Finding) Report {
	r := make(Report, len(fs))
	r.Add(fs...)
	return r
}

// Add appends findings under their own paths.
func (r Report) Add(fs ...Finding) {
	for _, f := range fs {
		r[f.Path] = append(r[f.Path], f)
	}
}

// Merge appends every finding in other to r, path by path.  Merging an
// empty or nil fragment leaves r unchanged.
func (r Report) Merge(other Report) {
	if len(other) == 0 {
		return
	}
	// Sorted paths keep the merged order reproducible even though Go maps
	// are unordered; per-path finding order is what callers rely on.
	for _, p := range other.Paths() {
		r[p] = append(r[p], other[p]...)
	}
}

// Empty reports whether no finding was raised.
func (r Report) Empty() bool { return r.Len() == 0 }

// Len returns the total number of findings across all paths.
func (r Report) Len() int {
	n := 0
	for _, fs := range r {
		n += len(fs)
	}
	return n
}

// Count returns the number of findings with the given severity.
func (r Report) Count(sev Severity) int {
	n := 0
	for _, fs := range r {
		for _, f := range fs {
			if f.Severity == sev {
				n++
			}
		}
	}
	return n
}

// HasErrors reports whether at least one Error-severity finding exists.
func (r Report) HasErrors() bool { return r.Count(SeverityError) > 0 }

// Paths returns the report keys in lexical order.
func (r Report) Paths() []string {
	out := make([]string, 0, len(r))
	for p := range r {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// At returns the findings recorded for path, or nil.
func (r Report) At(path string) []Finding { return r[path] }

// MarshalJSON emits the wire shape and renders a nil report as {}.
func (r Report) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string][]Finding(r))
}

// UnmarshalJSON restores a report from its wire shape, filling each
// finding's Path from its key.
func (r *Report) UnmarshalJSON(b []byte) error {
	var raw map[string][]Finding
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Report, len(raw))
	for p, fs := range raw {
		for i := range fs {
			fs[i].Path = p
		}
		out[p] = fs
	}
	*r = out
	return nil
}

// ItemPath addresses one list element, e.g. `/authors/3`.
func ItemPath(field string, index int) string {
	return "/" + field + "/" + strconv.Itoa(index)
}

// ItemPropertyPath addresses a property of a list element, e.g.
// `/isbns/2/value`.
func ItemPropertyPath(field string, index int, property string) string {
	return ItemPath(field, index) + "/" + property
}
