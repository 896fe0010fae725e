// Package example parses structured markdown example files into records.
package example

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Record is a single parsed code example.
//
// JSON keys follow the format consumed by the static site: the identifier
// is published as "slug" and the try suggestions as "try".
type Record struct {
	Title       string   `json:"title"`
	Identifier  string   `json:"slug"`
	Icon        string   `json:"icon,omitempty"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Code        string   `json:"code"`
	Output      string   `json:"output"`
	Schema      *string  `json:"schema,omitempty"`
	TryItems    []string `json:"try,omitempty"`
}

// Validate reports whether the record carries both required fields.
// The returned validation.Errors is keyed by JSON field name.
func (r *Record) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Code, validation.Required),
	)
}

// missingFields lists the field names reported by Validate, sorted.
func missingFields(err error) []string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for name := range verrs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
