package validation

import (
	"fmt"
	"strings"
)

// Message templates shared with the editor UI.  The wording is part of the
// output contract; change it together with the UI copy.
const (
	tplFieldValueRequiresField = "'%s' field value '%s' requires field '%s' to exist."
	tplFieldRequiresField      = "'%s' field requires '%s' field to exist."
	tplFieldRequiresValues     = "'%s' field requires '%s' field to have at least one of the values %s."
	tplDuplicateValues         = "'%s' field with value '%s' found in records with uuids %s."
	tplInvalidISBN             = "Isbn value '%s' is not valid."
	tplUnreachable             = "Field '%s' with value '%s' does not work/exist."
	tplUnknownJournal          = "Journal title '%s' doesn't exist."

	msgNoAuthor     = "Neither an author nor a corporate author found."
	msgNoDate       = "No date present."
	msgTwoCnums     = "2 cnums found in 'publication info' field."
	msgNoExperiment = "'accelerator_experiments' field should have at least one experiment"
	msgMissingPages = "Missing 'page_start' or 'page_end' field."

	msgThesisNeedsInfoAndSupervisor = "Thesis should have both 'thesis_info' and 'supervisor' field."
)

func requiresValues(field, required string, values []string) string {
	return fmt.Sprintf(tplFieldRequiresValues, field, required, quoteList(values))
}

func valueRequiresField(field, value, required string) string {
	return fmt.Sprintf(tplFieldValueRequiresField, field, value, required)
}

func requiresField(field, required string) string {
	return fmt.Sprintf(tplFieldRequiresField, field, required)
}

// describe renders a required-values set for log lines.
func describe(values []string) string { return strings.Join(values, "|") }
