// components/editor/editor_test.go
//
// Handler tests for the editor routes using httptest.
//
// Run: go test ./components/editor -v

package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/recordeditor/internal/store"
	"github.com/yanizio/recordeditor/internal/validation"
)

type runnerFunc func(ctx context.Context, rec validation.Record) (validation.Result, error)

func (f runnerFunc) Run(ctx context.Context, rec validation.Record) (validation.Result, error) {
	return f(ctx, rec)
}

type resolverFunc func(ctx context.Context, pidType, pidValue string) (validation.Record, string, error)

func (f resolverFunc) Record(ctx context.Context, pidType, pidValue string) (validation.Record, string, error) {
	return f(ctx, pidType, pidValue)
}

// rulesOnly runs the real record-only catalog rules.
func rulesOnly(t *testing.T) (validation.Pipeline, []validation.Rule) {
	t.Helper()
	c, err := validation.NewCatalog(validation.Options{})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	rules, err := c.Select([]string{validation.RuleAuthorOrCorporateAuthor, validation.RuleAuthorsAffiliations})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	v, err := validation.New(rules, validation.Env{})
	if err != nil {
		t.Fatalf("validation.New: %v", err)
	}
	return validation.Pipeline{Stages: []validation.NamedStage{{Name: "rules", Stage: v}}}, rules
}

func post(t *testing.T, c *Component, body string) (*httptest.ResponseRecorder, validateResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
	c.Routes().ServeHTTP(rec, req)

	var out validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func TestValidateInline(t *testing.T) {
	pipe, rules := rulesOnly(t)
	c := New(pipe, nil, rules, nil)

	rec, out := post(t, c, `{"json_data":{"authors":[{"full_name":"A"}]}}`)
	if rec.Code != http.StatusOK || out.Status != StatusOK {
		t.Fatalf("warnings only should be ok: %d %+v", rec.Code, out)
	}
	if f := out.ErrorMap.At("/authors/0"); len(f) != 1 || f[0].Severity != validation.SeverityWarning {
		t.Fatalf("expected affiliation warning, got %v", out.ErrorMap)
	}

	rec, out = post(t, c, `{"json_data":{"titles":[]}}`)
	if rec.Code != http.StatusUnprocessableEntity || out.Status != StatusRejected {
		t.Fatalf("missing author should be rejected: %d %+v", rec.Code, out)
	}
	if len(out.ErrorMap.At(validation.GlobalErrors)) != 1 {
		t.Fatalf("expected one global error, got %v", out.ErrorMap)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type %q", ct)
	}
}

func TestValidateByIdentifier(t *testing.T) {
	pipe, rules := rulesOnly(t)
	res := resolverFunc(func(_ context.Context, pidType, pidValue string) (validation.Record, string, error) {
		switch {
		case pidType == "lit" && pidValue == "1":
			return validation.Record{"corporate_author": []any{"CMS"}}, "u-1", nil
		case pidValue == "2":
			return nil, "", store.ErrNotResolvable
		case pidValue == "3":
			return nil, "", errors.New("connection refused")
		}
		return nil, "", store.ErrNotFound
	})
	c := New(pipe, res, rules, nil)

	if rec, out := post(t, c, `{"pid_type":"lit","recid":"1"}`); rec.Code != http.StatusOK || !out.ErrorMap.Empty() {
		t.Fatalf("stored record: %d %+v", rec.Code, out)
	}
	for _, id := range []string{"404", "2"} {
		if rec, out := post(t, c, `{"pid_type":"lit","recid":"`+id+`"}`); rec.Code != http.StatusNotFound || out.Status != StatusNotFound {
			t.Fatalf("recid %s: %d %+v", id, rec.Code, out)
		}
	}
	if rec, out := post(t, c, `{"pid_type":"lit","recid":"3"}`); rec.Code != http.StatusInternalServerError || out.Status != StatusError {
		t.Fatalf("store failure: %d %+v", rec.Code, out)
	}
}

func TestValidateInfrastructureFailure(t *testing.T) {
	fail := runnerFunc(func(context.Context, validation.Record) (validation.Result, error) {
		return validation.Result{}, &validation.RuleError{Rule: validation.RuleISBNDuplicates, Err: errors.New("down")}
	})
	c := New(fail, nil, nil, nil)

	rec, out := post(t, c, `{"json_data":{"isbns":[{"value":"0306406152"}]}}`)
	if rec.Code != http.StatusInternalServerError || out.Status != StatusError {
		t.Fatalf("expected 500, got %d %+v", rec.Code, out)
	}
	if !out.ErrorMap.Empty() {
		t.Fatalf("no partial report allowed, got %v", out.ErrorMap)
	}
}

func TestValidateBadRequests(t *testing.T) {
	pipe, rules := rulesOnly(t)
	c := New(pipe, nil, rules, nil)

	for name, body := range map[string]string{
		"not json":        `{`,
		"empty":           `{}`,
		"both":            `{"json_data":{},"pid_type":"lit","recid":"1"}`,
		"recid only":      `{"recid":"1"}`,
		"array record":    `{"json_data":[1]}`,
		"bad pid type":    `{"pid_type":"l i t","recid":"1"}`,
		"no resolver set": `{"pid_type":"lit","recid":"1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, out := post(t, c, body)
			if rec.Code != http.StatusBadRequest || out.Status != StatusInvalid {
				t.Fatalf("expected 400 invalid, got %d %+v", rec.Code, out)
			}
		})
	}
}

func TestRulesListing(t *testing.T) {
	_, rules := rulesOnly(t)
	c := New(nil, nil, rules, nil)

	rec := httptest.NewRecorder()
	c.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got []ruleInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []ruleInfo{
		{Name: validation.RuleAuthorOrCorporateAuthor, Severity: validation.SeverityError, Needs: "none"},
		{Name: validation.RuleAuthorsAffiliations, Severity: validation.SeverityWarning, Needs: "none"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}
