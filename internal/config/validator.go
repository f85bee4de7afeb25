// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, so the binary never runs
// with partial or malformed configuration.
//
// Custom rules
// ------------
//   - `dsn_verb`  the DSN holds at most one `%s` verb and no other verbs,
//     because Database.ResolveDSN feeds it exactly one argument.
//
// Notes
// -----
//   - Two spaces after periods.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("dsn_verb", func(fl validator.FieldLevel) bool {
		return dsnVerbOK(fl.Field().String())
	})
	return val
}

// dsnVerbOK reports whether s has at most one "%s" and no other verb.
// A literal "%%" is allowed.
func dsnVerbOK(s string) bool {
	s = strings.ReplaceAll(s, "%%", "")
	if strings.Count(s, "%s") > 1 {
		return false
	}
	return strings.Count(s, "%") == strings.Count(s, "%s")
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
