// Package graph provides the knowledge-graph search client for travel
// nodes and their relationships.
package graph

// Node is a knowledge-graph node with its one-hop connections. Name is the
// identity key within a result set.
type Node struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Location    string       `json:"location,omitempty"`
	Description string       `json:"description,omitempty"`
	Connections []Connection `json:"connections"`
}

// Connection summarizes one relationship to a neighboring node.
type Connection struct {
	RelType      string `json:"rel_type"`
	NeighborName string `json:"neighbor_name"`
	NeighborType string `json:"neighbor_type"`
}
