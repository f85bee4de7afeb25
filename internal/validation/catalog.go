// internal/validation/catalog.go
//
// Ordered rule registry.
//
// Context
// -------
// The catalog is a closed, explicitly enumerated list built once at
// startup.  Default() returns the registered rules in the order the editor
// has always run them; Select() lets configuration pick a subset by name,
// failing fast on names it does not know.  Rules that exist but are not
// registered by default (thesis-info-and-supervisor) can still be selected
// explicitly.
//
// Required document_type values are data, not code, so operators can
// reconcile spellings such as "conference paper" and "conference_paper"
// without a rebuild.
package validation

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Rule names.
const (
	RuleAuthorOrCorporateAuthor          = "author-or-corporate-author"
	RuleBookSeriesDocumentType           = "book-series-document-type"
	RuleISBNsDocumentType                = "isbns-document-type"
	RuleCnumDocumentType                 = "cnum-document-type"
	RuleThesisInfoDocumentType           = "thesis-info-document-type"
	RuleAuthorsAffiliations              = "authors-affiliations"
	RuleThesisRequiresThesisInfo         = "thesis-requires-thesis-info"
	RuleProceedingsRequiresCnum          = "proceedings-requires-cnum"
	RuleConferencePaperRequiresCnum      = "conference-paper-requires-cnum"
	RuleCnumRequiresDocumentType         = "cnum-requires-document-type"
	RuleCollaborationsRequireExperiments = "collaborations-require-experiments"
	RuleISBNDuplicates                   = "isbn-duplicates"
	RuleISBNValid                        = "isbn-valid"
	RuleURLsReachable                    = "urls-reachable"
	RuleExperimentsHaveExperiment        = "experiments-have-experiment"
	RuleDOIsResolvable                   = "dois-resolvable"
	RuleReportNumberDuplicates           = "report-number-duplicates"
	RuleSingleCnum                       = "single-cnum"
	RuleDatePresent                      = "date-present"
	RulePublicationPages                 = "publication-pages"
	RuleJournalTitleCanonical            = "journal-title-canonical"
	RuleThesisInfoAndSupervisor          = "thesis-info-and-supervisor"
)

// Options tunes rule data.  DocumentTypes maps a document-type rule name to
// the values it accepts; missing entries keep the defaults.
type Options struct {
	DocumentTypes map[string][]string
}

// DefaultDocumentTypes returns a fresh copy of the built-in required value
// sets.  The two cnum rules keep their historical spellings.
func DefaultDocumentTypes() map[string][]string {
	return map[string][]string{
		RuleBookSeriesDocumentType:   {"book", "proceedings", "thesis"},
		RuleISBNsDocumentType:        {"book", "proceedings", "thesis"},
		RuleCnumDocumentType:         {"proceedings", "conference paper"},
		RuleThesisInfoDocumentType:   {"thesis"},
		RuleCnumRequiresDocumentType: {"proceedings", "conference_paper"},
	}
}

// Catalog is the immutable set of known rules.
type Catalog struct {
	rules      []Rule // every known rule, default ones first
	registered int    // len of the default prefix
	byName     map[string]int
	opts       *Options
}

// NewCatalog builds the catalog.  It rejects document-type overrides for
// rules that do not take one and empty value sets.
func NewCatalog(opts Options) (*Catalog, error) {
	merged := DefaultDocumentTypes()
	for name, values := range opts.DocumentTypes {
		if _, ok := merged[name]; !ok {
			return nil, fmt.Errorf("document types for %q: %w", name, ErrUnknownRule)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("document types for %q: empty value set", name)
		}
		merged[name] = slices.Clone(values)
	}
	o := &Options{DocumentTypes: merged}

	if a, b := merged[RuleCnumDocumentType], merged[RuleCnumRequiresDocumentType]; !slices.Equal(a, b) {
		zap.L().Warn("cnum document type rules disagree",
			zap.String(RuleCnumDocumentType, describe(a)),
			zap.String(RuleCnumRequiresDocumentType, describe(b)))
	}

	registered := []Rule{
		{RuleAuthorOrCorporateAuthor, SeverityError, NeedsNothing, checkAuthorOrCorporateAuthor},
		{RuleBookSeriesDocumentType, SeverityError, NeedsNothing,
			documentTypeFor("book_series", SeverityError, merged[RuleBookSeriesDocumentType], has("book_series"))},
		{RuleISBNsDocumentType, SeverityError, NeedsNothing,
			documentTypeFor("isbns", SeverityError, merged[RuleISBNsDocumentType], has("isbns"))},
		{RuleCnumDocumentType, SeverityError, NeedsNothing,
			documentTypeFor("cnum", SeverityError, merged[RuleCnumDocumentType], hasCnum)},
		{RuleThesisInfoDocumentType, SeverityError, NeedsNothing,
			documentTypeFor("thesis_info", SeverityError, merged[RuleThesisInfoDocumentType], has("thesis_info"))},
		{RuleAuthorsAffiliations, SeverityWarning, NeedsNothing, checkAuthorsAffiliations},
		{RuleThesisRequiresThesisInfo, SeverityWarning, NeedsNothing, checkThesisRequiresThesisInfo},
		{RuleProceedingsRequiresCnum, SeverityWarning, NeedsNothing, doctypeRequiresCnum("proceedings")},
		{RuleConferencePaperRequiresCnum, SeverityWarning, NeedsNothing, doctypeRequiresCnum("conference paper")},
		{RuleCnumRequiresDocumentType, SeverityWarning, NeedsNothing,
			documentTypeFor("cnum", SeverityWarning, merged[RuleCnumRequiresDocumentType], hasCnum)},
		{RuleCollaborationsRequireExperiments, SeverityWarning, NeedsNothing, checkCollaborationsRequireExperiments},
		{RuleISBNDuplicates, SeverityError, NeedsRecords, checkISBNDuplicates},
		{RuleISBNValid, SeverityError, NeedsNothing, checkISBNValid},
		{RuleURLsReachable, SeverityWarning, NeedsFetcher, reachable("urls", asURL)},
		{RuleExperimentsHaveExperiment, SeverityError, NeedsNothing, checkExperimentsHaveExperiment},
		{RuleDOIsResolvable, SeverityWarning, NeedsFetcher, reachable("dois", asDOI)},
		{RuleReportNumberDuplicates, SeverityWarning, NeedsRecords, checkReportNumberDuplicates},
		{RuleSingleCnum, SeverityWarning, NeedsNothing, checkSingleCnum},
		{RuleDatePresent, SeverityError, NeedsNothing, checkDatePresent},
		{RulePublicationPages, SeverityWarning, NeedsNothing, checkPublicationPages},
		{RuleJournalTitleCanonical, SeverityError, NeedsJournals, checkJournalTitleCanonical},
	}
	available := []Rule{
		{RuleThesisInfoAndSupervisor, SeverityError, NeedsNothing, checkThesisInfoAndSupervisor},
	}

	c := &Catalog{
		rules:      append(registered, available...),
		registered: len(registered),
		byName:     make(map[string]int, len(registered)+len(available)),
		opts:       o,
	}
	for i, r := range c.rules {
		c.byName[r.Name] = i
	}
	return c, nil
}

// Default returns the registered rules in execution order.
func (c *Catalog) Default() []Rule {
	return slices.Clone(c.rules[:c.registered])
}

// All returns every known rule, registered ones first.
func (c *Catalog) All() []Rule { return slices.Clone(c.rules) }

// Rule returns the named rule.
func (c *Catalog) Rule(name string) (Rule, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// Select returns the named rules in the order given.  An empty list
// selects the default rules.
func (c *Catalog) Select(names []string) ([]Rule, error) {
	if len(names) == 0 {
		return c.Default(), nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]Rule, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%q: %w", n, ErrDuplicateRule)
		}
		seen[n] = struct{}{}
		r, ok := c.Rule(n)
		if !ok {
			return nil, fmt.Errorf("%q: %w", n, ErrUnknownRule)
		}
		out = append(out, r)
	}
	return out, nil
}

// Options returns the resolved rule data shared by every run.
func (c *Catalog) Options() *Options { return c.opts }
