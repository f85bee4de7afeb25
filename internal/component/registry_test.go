package component

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type stub struct{ name string }

func (s stub) Name() string { return s.name }
func (s stub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(s.name)) })
	return r
}

func TestMountUnderName(t *testing.T) {
	reset()
	t.Cleanup(reset)
	Register(stub{"zeta"})
	Register(stub{"alpha"})

	r := chi.NewRouter()
	names := Mount(r)
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("mount order %v", names)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/zeta/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "zeta" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
