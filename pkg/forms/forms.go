// Package forms describes the four search forms and submits them the way the
// browser script does: validate, serialize, fetch, inject.
package forms

import (
	"net/url"
	"strings"
)

const (
	// TransportFailureMessage replaces the results region when the request cannot be made.
	TransportFailureMessage = "<p class='no-results'>Error fetching data. Please try again.</p>"
	// NoRelationshipsMessage is shown when the relationship endpoint returns an empty body.
	NoRelationshipsMessage = "<p class='no-results'>No relationships found for this celebrity.</p>"
)

type Field struct {
	Name        string
	Label       string
	Placeholder string
	// Options renders a select instead of a text input. The first option is empty.
	Options []string
}

type Form struct {
	Name              string
	Title             string
	Endpoint          string
	Fields            []Field
	ValidationMessage string
	// EmptyMessage replaces an empty response body, when set.
	EmptyMessage string
}

var (
	NameForm = Form{
		Name:              "name",
		Title:             "Find a celebrity",
		Endpoint:          "/search",
		Fields:            []Field{{Name: "search", Label: "Name", Placeholder: "e.g. Smith"}},
		ValidationMessage: "Please enter a name to search.",
	}

	AttributeForm = Form{
		Name:     "attributes",
		Title:    "Search by birth and occupation",
		Endpoint: "/celebrities",
		Fields: []Field{
			{Name: "birthYear", Label: "Birth year", Placeholder: "e.g. 1975"},
			{Name: "birthPlace", Label: "Birth place", Placeholder: "e.g. London"},
			{Name: "occupation", Label: "Occupation", Placeholder: "e.g. Actor"},
		},
		ValidationMessage: "Please fill out at least one filter field.",
	}

	MatchmakingForm = Form{
		Name:     "matchmaking",
		Title:    "Matchmaking",
		Endpoint: "/matchmaking",
		Fields: []Field{
			{Name: "occupation", Label: "Occupation", Placeholder: "e.g. Singer"},
			{Name: "birth_place", Label: "Birth place", Placeholder: "e.g. Texas"},
			{Name: "age_range", Label: "Age range", Options: []string{"", "18-25", "26-35", "36-45", "46-60", "60+"}},
			{Name: "children", Label: "Children", Options: []string{"", "0", "1", "2", "3+"}},
		},
		ValidationMessage: "Please fill out at least one filter field.",
	}

	RelationshipForm = Form{
		Name:              "relationships",
		Title:             "Relationship history",
		Endpoint:          "/relationships",
		Fields:            []Field{{Name: "celebrity_name", Label: "Celebrity name", Placeholder: "e.g. Smith"}},
		ValidationMessage: "Please enter a celebrity name.",
		EmptyMessage:      NoRelationshipsMessage,
	}

	All = []Form{NameForm, AttributeForm, MatchmakingForm, RelationshipForm}
)

// Lookup finds a form by name
func Lookup(name string) (Form, bool) {
	for _, f := range All {
		if f.Name == name {
			return f, true
		}
	}
	return Form{}, false
}

// Query serializes the non-empty recognized fields of values in field order.
// Values are trimmed and percent-encoded. Unknown keys are ignored. An empty
// result means the form must not be submitted.
func (f Form) Query(values map[string]string) string {
	var parts []string
	for _, field := range f.Fields {
		value := strings.TrimSpace(values[field.Name])
		if value == "" {
			continue
		}
		parts = append(parts, field.Name+"="+escape(value))
	}
	return strings.Join(parts, "&")
}

// escape matches encodeURIComponent for the characters filters contain:
// spaces become %20, never '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
