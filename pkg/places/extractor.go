// Package places infers candidate travel locations from free-form query
// text and search-result attributes using a fixed gazetteer. Pure and
// deterministic; no external dependencies.
package places

import "strings"

// Fallback is the country-wide anchor used when no specific location can
// be inferred, so graph search always has at least one anchor.
const Fallback = "Vietnam"

// gazetteer lists the known location names for the domain, in canonical
// casing. Matching against query text is case-insensitive substring; the
// canonical form is what ends up in the result set.
var gazetteer = []string{
	"Hanoi", "Ho Chi Minh", "Saigon", "Hoi An", "Da Nang",
	"Hue", "Nha Trang", "Phu Quoc", "Halong Bay", "Sapa",
	"Dalat", "Mekong Delta", "Can Tho", "Mui Ne", "Vung Tau",
}

// MatchAttrs carries the location-bearing attributes of one vector search
// match. City takes precedence over Region: a match contributes at most
// one location, never both.
type MatchAttrs struct {
	City   string
	Region string
}

// Extractor derives location sets from queries and match attributes.
type Extractor struct {
	gazetteer []string
	fallback  string
}

// NewExtractor creates an Extractor with the builtin gazetteer and the
// country-wide fallback.
func NewExtractor() *Extractor {
	return &Extractor{gazetteer: gazetteer, fallback: Fallback}
}

// Extract returns the location set for a query plus optional match
// attributes. Gazetteer entries are matched case-insensitively against the
// raw query text; attribute values are added exactly as stored. If nothing
// matched, the set contains only the fallback.
func (e *Extractor) Extract(query string, attrs []MatchAttrs) *Set {
	set := NewSet()
	q := strings.ToLower(query)
	for _, loc := range e.gazetteer {
		if strings.Contains(q, strings.ToLower(loc)) {
			set.Add(loc)
		}
	}
	e.Extend(set, attrs)
	if set.Len() == 0 {
		set.Add(e.fallback)
	}
	return set
}

// Extend adds attribute-derived locations to an existing set and reports
// whether the set grew. City wins over Region per match. Extend never
// applies the fallback; it is meant for extending a non-empty set.
func (e *Extractor) Extend(set *Set, attrs []MatchAttrs) bool {
	grew := false
	for _, a := range attrs {
		switch {
		case a.City != "":
			grew = set.Add(a.City) || grew
		case a.Region != "":
			grew = set.Add(a.Region) || grew
		}
	}
	return grew
}
