// internal/validation/capabilities.go
//
// External capabilities injected into the rule catalog.
//
// Context
// -------
// A handful of rules reach outside the record: duplicate detection and the
// canonical-journal check query other stored records, and the URL and DOI
// checks fetch live resources.  Those reach-outs are expressed as small
// interfaces so production wires SQL and HTTP implementations while tests
// use in-memory doubles.  Timeout and retry policy belongs to the
// implementation, never to the orchestrator.
//
// Notes
// -----
//   - Implementations must be safe for concurrent use; several validation
//     runs may share one Lookup.
//   - A Lookup error is an infrastructure failure, never "no match".
package validation

import (
	"context"
	"errors"
	"fmt"
)

// Query selects stored records whose list field holds an item with
// property equal to value, e.g. isbns[].value == "9780306406157".
type Query struct {
	Field    string
	Property string
	Value    string
}

// Lookup returns the identifiers of stored records matching q.  An empty
// slice with a nil error means no match.
type Lookup interface {
	Matching(ctx context.Context, q Query) ([]string, error)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(ctx context.Context, q Query) ([]string, error)

// Matching calls f.
func (f LookupFunc) Matching(ctx context.Context, q Query) ([]string, error) { return f(ctx, q) }

// Fetcher retrieves url and reports the final HTTP status.  A non-nil
// error means no response was obtained at all.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (status int, err error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (int, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (int, error) { return f(ctx, url) }

// Capability names the external resource a rule depends on.
type Capability int

const (
	NeedsNothing Capability = iota
	NeedsRecords
	NeedsJournals
	NeedsFetcher
)

func (c Capability) String() string {
	switch c {
	case NeedsRecords:
		return "records lookup"
	case NeedsJournals:
		return "journal lookup"
	case NeedsFetcher:
		return "fetcher"
	}
	return "none"
}

// DefaultDOIResolver is the URL template used to resolve DOIs; %s is the
// DOI value.
const DefaultDOIResolver = "http://doi.org/%s"

// Env bundles the capabilities available to one validator.  Journals falls
// back to Records when nil.
type Env struct {
	Records     Lookup
	Journals    Lookup
	Fetcher     Fetcher
	DOIResolver string // fmt template with one %s, DefaultDOIResolver when empty
}

func (e Env) journals() Lookup {
	if e.Journals != nil {
		return e.Journals
	}
	return e.Records
}

func (e Env) provides(c Capability) bool {
	switch c {
	case NeedsRecords:
		return e.Records != nil
	case NeedsJournals:
		return e.journals() != nil
	case NeedsFetcher:
		return e.Fetcher != nil
	}
	return true
}

func (e Env) doiURL(doi string) string {
	tpl := e.DOIResolver
	if tpl == "" {
		tpl = DefaultDOIResolver
	}
	return fmt.Sprintf(tpl, doi)
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrUnknownRule is returned when a configured rule name is not in the
	// catalog.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrDuplicateRule is returned when a rule is selected twice.
	ErrDuplicateRule = errors.New("duplicate rule")
	// ErrCapabilityMissing is returned when a rule needs a capability the
	// Env does not provide.
	ErrCapabilityMissing = errors.New("capability missing")
)

// LookupError wraps a failing Lookup call.  It is an infrastructure
// failure and aborts the run.
type LookupError struct {
	Query Query
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s[].%s=%q: %v", e.Query.Field, e.Query.Property, e.Query.Value, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// RuleError reports the rule whose infrastructure failure aborted a run.
type RuleError struct {
	Rule string
	Err  error
}

func (e *RuleError) Error() string { return fmt.Sprintf("rule %s: %v", e.Rule, e.Err) }

func (e *RuleError) Unwrap() error { return e.Err }

// IsInfrastructure reports whether err came from a failing external
// resource during validation, as opposed to a setup or contract error.
func IsInfrastructure(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}
