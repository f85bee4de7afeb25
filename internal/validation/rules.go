// internal/validation/rules.go
//
// Business-rule catalog for bibliographic records.
//
// Context
// -------
// Each rule encodes one directional dependency between fields and answers
// with a Report fragment.  Rules never look at each other's output, only at
// the record and, for a few of them, at an injected capability.  New rules
// are added by writing one function here and naming it in catalog.go.
//
// Severity
// --------
// Error rules describe data the record store must not accept.  Warning
// rules describe data a curator should look at but may keep.
//
// Notes
// -----
//   - Per-item rules report every offending index in one pass.
//   - Reachability rules turn a failed fetch into a Warning; duplicate and
//     journal rules propagate lookup failures.
package validation

import (
	"context"
	"fmt"
)

// Rule is one named, stateless check.  Check returns the findings it
// raised (possibly none) or an infrastructure error.
type Rule struct {
	Name     string
	Severity Severity
	Needs    Capability
	Check    func(ctx context.Context, run *Run) (Report, error)
}

// Run carries the record and capabilities for one validation pass.  It is
// built per call and discarded afterwards.
type Run struct {
	Record Record
	Env    Env
}

// global wraps a single record-wide finding.
func global(sev Severity, msg string) Report {
	return NewReport(newSeverity(GlobalErrors, msg, sev))
}

func cnumPresent(rec Record, times int) bool {
	return FieldInItems(rec.Items("publication_info"), "cnum", times)
}

// -----------------------------------------------------------------------------
// Error rules
// -----------------------------------------------------------------------------

func checkAuthorOrCorporateAuthor(_ context.Context, run *Run) (Report, error) {
	if !run.Record.Has("authors") && !run.Record.Has("corporate_author") {
		return global(SeverityError, msgNoAuthor), nil
	}
	return nil, nil
}

// documentTypeFor builds the "field X requires one of these document types"
// rules.  present decides whether the triggering field is there.
func documentTypeFor(field string, sev Severity, required []string, present func(Record) bool) func(context.Context, *Run) (Report, error) {
	return func(_ context.Context, run *Run) (Report, error) {
		if !present(run.Record) {
			return nil, nil
		}
		if ValuesAbsent(run.Record, "document_type", required) {
			return global(sev, requiresValues(field, "document_type", required)), nil
		}
		return nil, nil
	}
}

func has(field string) func(Record) bool {
	return func(r Record) bool { return r.Has(field) }
}

func hasCnum(r Record) bool { return cnumPresent(r, 1) }

func checkISBNValid(ctx context.Context, run *Run) (Report, error) {
	return CheckItems(ctx, run.Record, "isbns", "value", SeverityError,
		func(_ context.Context, it Item) (*Finding, error) {
			v := stringify(it.Value)
			if IsISBN(v) {
				return nil, nil
			}
			f := newSeverity(it.Path(), fmt.Sprintf(tplInvalidISBN, v), it.Severity)
			return &f, nil
		})
}

func checkISBNDuplicates(ctx context.Context, run *Run) (Report, error) {
	return CheckItems(ctx, run.Record, "isbns", "value", SeverityError, DuplicateCheck(run.Env.Records))
}

func checkJournalTitleCanonical(ctx context.Context, run *Run) (Report, error) {
	journals := run.Env.journals()
	return CheckItems(ctx, run.Record, "publication_info", "journal_title", SeverityError,
		func(ctx context.Context, it Item) (*Finding, error) {
			title := stringify(it.Value)
			q := Query{Field: it.Field, Property: it.Property, Value: title}
			ids, err := journals.Matching(ctx, q)
			if err != nil {
				return nil, &LookupError{Query: q, Err: err}
			}
			if len(ids) > 0 {
				return nil, nil
			}
			f := newSeverity(ItemPath(it.Field, it.Index), fmt.Sprintf(tplUnknownJournal, title), it.Severity)
			return &f, nil
		})
}

// dateFields lists the fields that may carry a date and, for list or
// mapping fields, the properties that hold it.  An empty property list
// means the field itself is the date.
var dateFields = []struct {
	field string
	props []string
}{
	{"_desy_bookkeeping", []string{"date"}},
	{"imprints", []string{"date"}},
	{"thesis_info", []string{"date", "defense_date"}},
	{"_fft", []string{"creation_datetime"}},
	{"legacy_creation_date", nil},
	{"preprint_date", nil},
}

func checkDatePresent(_ context.Context, run *Run) (Report, error) {
	for _, df := range dateFields {
		if !run.Record.Has(df.field) {
			continue
		}
		if len(df.props) == 0 {
			return nil, nil
		}
		items := run.Record.Items(df.field)
		for _, p := range df.props {
			if FieldInItems(items, p, 1) {
				return nil, nil
			}
		}
	}
	return global(SeverityError, msgNoDate), nil
}

func checkExperimentsHaveExperiment(_ context.Context, run *Run) (Report, error) {
	if !run.Record.Has("accelerator_experiments") {
		return nil, nil
	}
	if FieldInItems(run.Record.Items("accelerator_experiments"), "experiment", 1) {
		return nil, nil
	}
	return global(SeverityError, msgNoExperiment), nil
}

// checkThesisInfoAndSupervisor is kept in the catalog but not in the
// default list.  It fires only when thesis_info is absent and the record's
// own inspire_roles lack "supervisor".
func checkThesisInfoAndSupervisor(_ context.Context, run *Run) (Report, error) {
	rec := run.Record
	if !rec.Contains("document_type", "thesis") {
		return nil, nil
	}
	if rec.Has("thesis_info") || rec.Contains("inspire_roles", "supervisor") {
		return nil, nil
	}
	return global(SeverityError, msgThesisNeedsInfoAndSupervisor), nil
}

// -----------------------------------------------------------------------------
// Warning rules
// -----------------------------------------------------------------------------

func checkAuthorsAffiliations(_ context.Context, run *Run) (Report, error) {
	out := Report{}
	for i, a := range run.Record.Items("authors") {
		if len(Record(a).Items("affiliations")) == 0 {
			out.Add(NewWarning(ItemPath("authors", i), requiresField("authors", "affiliations")))
		}
	}
	return out, nil
}

func checkThesisRequiresThesisInfo(_ context.Context, run *Run) (Report, error) {
	if run.Record.Contains("document_type", "thesis") && !run.Record.Has("thesis_info") {
		return global(SeverityWarning, valueRequiresField("document_type", "thesis", "thesis_info")), nil
	}
	return nil, nil
}

// doctypeRequiresCnum builds the "document type X needs a cnum" rules.
func doctypeRequiresCnum(doctype string) func(context.Context, *Run) (Report, error) {
	return func(_ context.Context, run *Run) (Report, error) {
		if run.Record.Contains("document_type", doctype) && !hasCnum(run.Record) {
			return global(SeverityWarning, valueRequiresField("document_type", doctype, "cnum")), nil
		}
		return nil, nil
	}
}

func checkSingleCnum(_ context.Context, run *Run) (Report, error) {
	if cnumPresent(run.Record, 2) {
		return global(SeverityWarning, msgTwoCnums), nil
	}
	return nil, nil
}

func checkCollaborationsRequireExperiments(_ context.Context, run *Run) (Report, error) {
	if run.Record.Has("collaborations") && !run.Record.Has("accelerator_experiments") {
		return global(SeverityWarning, requiresField("collaborations", "accelerator_experiments")), nil
	}
	return nil, nil
}

func checkReportNumberDuplicates(ctx context.Context, run *Run) (Report, error) {
	return CheckItems(ctx, run.Record, "report_numbers", "value", SeverityWarning, DuplicateCheck(run.Env.Records))
}

// reachable builds the URL and DOI checks.  Any fetch error or a status of
// 400 and above is itself the finding, unless ctx is done, in which case
// the run aborts with ctx's error.
func reachable(field string, target func(Env, string) string) func(context.Context, *Run) (Report, error) {
	return func(ctx context.Context, run *Run) (Report, error) {
		return CheckItems(ctx, run.Record, field, "value", SeverityWarning,
			func(ctx context.Context, it Item) (*Finding, error) {
				v := stringify(it.Value)
				status, err := run.Env.Fetcher.Fetch(ctx, target(run.Env, v))
				if err == nil && status > 0 && status < 400 {
					return nil, nil
				}
				if cerr := ctx.Err(); cerr != nil {
					return nil, cerr
				}
				f := newSeverity(it.Path(), fmt.Sprintf(tplUnreachable, field, v), it.Severity)
				return &f, nil
			})
	}
}

func asURL(_ Env, v string) string { return v }

func asDOI(e Env, v string) string { return e.doiURL(v) }

func checkPublicationPages(_ context.Context, run *Run) (Report, error) {
	out := Report{}
	for i, p := range run.Record.Items("publication_info") {
		_, start := p["page_start"]
		_, end := p["page_end"]
		if !start && !end {
			out.Add(NewWarning(ItemPath("publication_info", i), msgMissingPages))
		}
	}
	return out, nil
}
