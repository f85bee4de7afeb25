// internal/schema/schema.go
//
// JSON-Schema stage.
//
// Context
// -------
// Structural validation (types, required properties, enums) runs ahead of
// the business rules.  The validator itself is swappable: this package
// only depends on violations exposing an ordered location and a message,
// and reshapes them into the same validation.Report the rule catalog
// produces.  The default implementation compiles schemas with
// xeipuuv/gojsonschema.
//
// Notes
// -----
//   - An empty location is record-wide and lands on `globalErrors`.
//   - Other locations join as `/titles/0/title`.
package schema

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yanizio/recordeditor/internal/metrics"
	"github.com/yanizio/recordeditor/internal/validation"
)

// Violation is the minimal contract of a native structural error.
type Violation interface {
	Location() []string
	Message() string
}

// pointerEscaper escapes a JSON-pointer reference token (RFC 6901).
var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Path renders a location as a JSON-pointer report key.
func Path(location []string) string {
	if len(location) == 0 {
		return validation.GlobalErrors
	}
	var b strings.Builder
	for _, seg := range location {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(seg))
	}
	return b.String()
}

// FromViolations reshapes violations into a Report, one Error each.
func FromViolations(vs []Violation) validation.Report {
	r := validation.Report{}
	for _, v := range vs {
		r.Add(validation.NewFinding(Path(v.Location()), v.Message()))
	}
	return r
}

// -----------------------------------------------------------------------------
// gojsonschema adapter
// -----------------------------------------------------------------------------

// rootContext is the head gojsonschema gives the document root.
const rootContext = "(root)"

// contextSep cannot appear in JSON keys produced by real records, so it is
// safe to split the joined context on.
const contextSep = "\x00"

type resultViolation struct{ err gojsonschema.ResultError }

func (v resultViolation) Location() []string {
	ctx := v.err.Context()
	if ctx == nil {
		return nil
	}
	segs := strings.Split(ctx.String(contextSep), contextSep)
	if len(segs) > 0 && segs[0] == rootContext {
		segs = segs[1:]
	}
	return segs
}

func (v resultViolation) Message() string { return v.err.Description() }

// Validator checks records against one compiled JSON Schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// Compile builds a Validator from a schema document.
func Compile(schemaJSON []byte) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Load reads and compiles the schema at path.
func Load(path string) (*Validator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Compile(b)
}

// Violations returns the native violations for rec.
func (v *Validator) Violations(rec validation.Record) ([]Violation, error) {
	res, err := v.schema.Validate(gojsonschema.NewGoLoader(map[string]any(rec)))
	if err != nil {
		return nil, fmt.Errorf("schema validate: %w", err)
	}
	out := make([]Violation, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, resultViolation{err: e})
	}
	return out, nil
}

// Validate returns the structural findings for rec.  A non-nil error means
// the document could not be checked at all.
func (v *Validator) Validate(_ context.Context, rec validation.Record) (validation.Report, error) {
	vs, err := v.Violations(rec)
	if err != nil {
		return nil, err
	}
	r := FromViolations(vs)
	if !r.Empty() {
		metrics.SchemaRejectionsTotal.Inc()
	}
	return r, nil
}
