// components/editor/editor.go
//
// Editor component: the validation endpoint behind the record editor.
//
// Context
// -------
// The editor UI posts a draft record (or names a stored one) and renders
// the returned errorMap next to the offending fields.  Routes:
//
//	POST /editor/validate   run the schema and rule stages on one record
//	GET  /editor/rules      list the active rule catalog
//
// Response statuses
// -----------------
//   - 200 {"status":"ok"}         no Error findings (Warnings may be present).
//   - 422 {"status":"rejected"}   at least one Error finding.
//   - 404 {"status":"not_found"}  the identifier does not resolve.
//   - 400 {"status":"invalid"}    malformed request body.
//   - 500 {"status":"error"}      infrastructure failure; no partial report.
//
// Notes
// -----
//   - Requests carry either `json_data` or `pid_type` + `recid`, not both.
//   - Bodies above MaxBody bytes are refused.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yanizio/recordeditor/internal/component"
	"github.com/yanizio/recordeditor/internal/store"
	"github.com/yanizio/recordeditor/internal/validation"
)

// MaxBody caps the request body.
const MaxBody = 8 << 20

// Response status values.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusNotFound = "not_found"
	StatusInvalid  = "invalid"
	StatusError    = "error"
)

// Resolver loads a stored record by persistent identifier.  *store.Store
// satisfies it.
type Resolver interface {
	Record(ctx context.Context, pidType, pidValue string) (validation.Record, string, error)
}

// Runner runs the validation stages.  validation.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, rec validation.Record) (validation.Result, error)
}

// Compile-time assertions.
var (
	_ component.Component = (*Component)(nil)
	_ Resolver            = (*store.Store)(nil)
	_ Runner              = validation.Pipeline{}
)

// Component serves the editor routes.
type Component struct {
	runner   Runner
	resolver Resolver
	rules    []validation.Rule
	log      *zap.SugaredLogger
	validate *validator.Validate
}

// New builds the component.  resolver may be nil, in which case only
// inline `json_data` requests are accepted.
func New(runner Runner, resolver Resolver, rules []validation.Rule, log *zap.SugaredLogger) *Component {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Component{
		runner:   runner,
		resolver: resolver,
		rules:    rules,
		log:      log,
		validate: validator.New(),
	}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key and mount prefix.
func (c *Component) Name() string { return "editor" }

// Routes builds the router mounted at /editor.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/validate", c.handleValidate)
	r.Get("/rules", c.handleRules)
	return r
}

/*──────────────────────────── Payloads ─────────────────────────────────────*/

type validateRequest struct {
	PIDType string          `json:"pid_type" validate:"omitempty,alphanum,max=16"`
	RecID   string          `json:"recid"    validate:"omitempty,printascii,max=64"`
	Data    json.RawMessage `json:"json_data"`
}

type validateResponse struct {
	Status   string            `json:"status"`
	ErrorMap validation.Report `json:"errorMap"`
	Stopped  string            `json:"stoppedAt,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type ruleInfo struct {
	Name     string              `json:"name"`
	Severity validation.Severity `json:"severity"`
	Needs    string              `json:"needs"`
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBody))
	if err := dec.Decode(&req); err != nil {
		c.reply(w, http.StatusBadRequest, validateResponse{Status: StatusInvalid, Error: "malformed request body"})
		return
	}
	if err := c.validate.Struct(req); err != nil {
		c.reply(w, http.StatusBadRequest, validateResponse{Status: StatusInvalid, Error: err.Error()})
		return
	}
	inline := len(req.Data) > 0 && string(req.Data) != "null"
	anyID := req.PIDType != "" || req.RecID != ""
	byID := req.PIDType != "" && req.RecID != ""
	if (inline && anyID) || (!inline && !byID) {
		c.reply(w, http.StatusBadRequest, validateResponse{
			Status: StatusInvalid,
			Error:  "exactly one of json_data or pid_type/recid is required",
		})
		return
	}

	rec, status, err := c.record(r.Context(), req, inline)
	if err != nil {
		c.reply(w, status, validateResponse{Status: statusWord(status), Error: err.Error()})
		return
	}

	res, err := c.runner.Run(r.Context(), rec)
	if err != nil {
		c.log.Errorw("validation failed", "pid_type", req.PIDType, "recid", req.RecID, "err", err)
		c.reply(w, http.StatusInternalServerError, validateResponse{Status: StatusError, Error: "validation unavailable"})
		return
	}

	out := validateResponse{Status: StatusOK, ErrorMap: res.Report, Stopped: res.Stopped}
	code := http.StatusOK
	if res.Report.HasErrors() {
		out.Status = StatusRejected
		code = http.StatusUnprocessableEntity
	}
	c.log.Debugw("record validated",
		"status", out.Status,
		"errors", res.Report.Count(validation.SeverityError),
		"warnings", res.Report.Count(validation.SeverityWarning),
		"stopped", res.Stopped,
	)
	c.reply(w, code, out)
}

// record returns the record to validate and, on failure, the HTTP status.
func (c *Component) record(ctx context.Context, req validateRequest, inline bool) (validation.Record, int, error) {
	if inline {
		rec, err := validation.ParseRecord(req.Data)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		return rec, http.StatusOK, nil
	}
	if c.resolver == nil {
		return nil, http.StatusBadRequest, errors.New("record lookup by identifier is not configured")
	}

	rec, _, err := c.resolver.Record(ctx, req.PIDType, req.RecID)
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNotResolvable):
		return nil, http.StatusNotFound, err
	case err != nil:
		c.log.Errorw("record lookup failed", "pid_type", req.PIDType, "recid", req.RecID, "err", err)
		return nil, http.StatusInternalServerError, errors.New("record store unavailable")
	}
	return rec, http.StatusOK, nil
}

func (c *Component) handleRules(w http.ResponseWriter, _ *http.Request) {
	out := make([]ruleInfo, 0, len(c.rules))
	for _, rl := range c.rules {
		out = append(out, ruleInfo{Name: rl.Name, Severity: rl.Severity, Needs: rl.Needs.String()})
	}
	c.reply(w, http.StatusOK, out)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (c *Component) reply(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.log.Warnw("encode response", "err", err)
	}
}

func statusWord(code int) string {
	switch code {
	case http.StatusNotFound:
		return StatusNotFound
	case http.StatusBadRequest:
		return StatusInvalid
	default:
		return StatusError
	}
}
