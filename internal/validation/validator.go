// internal/validation/validator.go
//
// Validation orchestrator.
//
// Context
// -------
// A Validator owns an ordered rule list and the capabilities those rules
// need.  Validate runs every rule exactly once, in order, against one
// record and merges the fragments into a single Report:
//
//	Idle ──Validate()──▶ Running ──last rule──▶ Done
//
// There is no retry state.  A finding never stops the run; an
// infrastructure failure (lookup backend down) stops it immediately and
// the caller receives the error with no partial Report, so an outage can
// never read as "all checks passed".
//
// Notes
// -----
//   - The Validator is immutable after New and safe for concurrent use as
//     long as its capabilities are.
//   - Misconfiguration (missing capability, duplicate rule) fails in New,
//     never per record.
package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/recordeditor/internal/metrics"
)

// Validator runs a fixed rule list.
type Validator struct {
	rules []Rule
	env   Env
	log   *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for run spans.  Defaults to zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// New checks the rule list against env and returns a ready Validator.
func New(rules []Rule, env Env, opts ...Option) (*Validator, error) {
	seen := make(map[string]struct{}, len(rules))
	for i, r := range rules {
		if r.Name == "" || r.Check == nil {
			return nil, fmt.Errorf("rule #%d: name and check are required", i)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("%q: %w", r.Name, ErrDuplicateRule)
		}
		seen[r.Name] = struct{}{}
		if !env.provides(r.Needs) {
			return nil, fmt.Errorf("rule %q needs %s: %w", r.Name, r.Needs, ErrCapabilityMissing)
		}
	}

	v := &Validator{
		rules: append([]Rule(nil), rules...),
		env:   env,
	}
	for _, o := range opts {
		o(v)
	}
	if v.log == nil {
		v.log = zap.L()
	}
	return v, nil
}

// Rules returns the rule list in execution order.
func (v *Validator) Rules() []Rule { return append([]Rule(nil), v.rules...) }

// Validate runs every rule against rec.  The Report is empty if and only if
// no rule raised a finding.
func (v *Validator) Validate(ctx context.Context, rec Record) (Report, error) {
	start := time.Now()
	run := &Run{Record: rec, Env: v.env}
	report := Report{}

	metrics.ValidationRunsTotal.Inc()
	v.log.Debug("validation running", zap.Int("rules", len(v.rules)))

	for _, r := range v.rules {
		frag, err := r.Check(ctx, run)
		if err != nil {
			metrics.RuleFailuresTotal.WithLabelValues(r.Name).Inc()
			v.log.Error("validation aborted",
				zap.String("rule", r.Name),
				zap.Bool("lookup", isLookup(err)),
				zap.Error(err))
			return nil, &RuleError{Rule: r.Name, Err: err}
		}
		report.Merge(frag)
	}

	errs, warns := report.Count(SeverityError), report.Count(SeverityWarning)
	metrics.FindingsTotal.WithLabelValues(string(SeverityError)).Add(float64(errs))
	metrics.FindingsTotal.WithLabelValues(string(SeverityWarning)).Add(float64(warns))
	metrics.RunSeconds.Observe(time.Since(start).Seconds())

	v.log.Debug("validation done",
		zap.Int("errors", errs),
		zap.Int("warnings", warns),
		zap.Duration("took", time.Since(start)))
	return report, nil
}

func isLookup(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
