package semantic

// Match is a single nearest-neighbor hit. Immutable once returned; the
// provider's rank order is preserved and never re-sorted.
type Match struct {
	ID    string     `json:"id"`
	Score float64    `json:"score"`
	Attrs Attributes `json:"attributes"`
}

// Attributes is the typed attribute payload of a match. Absent fields are
// empty strings; presence checks are explicit rather than map probing.
type Attributes struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	Description string `json:"description,omitempty"`
	Tags        string `json:"tags,omitempty"`
}
