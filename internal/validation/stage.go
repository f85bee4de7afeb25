package validation

import (
	"context"
	"fmt"
)

// Stage is one validation pass producing a Report.  Both the JSON-Schema
// validator and the rule orchestrator satisfy it.
type Stage interface {
	Validate(ctx context.Context, rec Record) (Report, error)
}

// NamedStage labels a stage for error messages.
type NamedStage struct {
	Name  string
	Stage Stage
}

// Pipeline runs stages in order and merges their reports.  With
// StopOnErrors set, a stage whose report holds an Error finding ends the
// pipeline, so business rules never see a structurally broken record.
type Pipeline struct {
	Stages       []NamedStage
	StopOnErrors bool
}

// Result is a pipeline outcome.  Stopped names the stage that ended the
// pipeline early, if any.
type Result struct {
	Report  Report
	Stopped string
}

// Run executes the pipeline.  Any stage error aborts with no report.
func (p Pipeline) Run(ctx context.Context, rec Record) (Result, error) {
	res := Result{Report: Report{}}
	for _, s := range p.Stages {
		r, err := s.Stage.Validate(ctx, rec)
		if err != nil {
			return Result{}, fmt.Errorf("%s stage: %w", s.Name, err)
		}
		res.Report.Merge(r)
		if p.StopOnErrors && r.HasErrors() {
			res.Stopped = s.Name
			return res, nil
		}
	}
	return res, nil
}
