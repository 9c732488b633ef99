package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DefaultLimit caps the node count of one graph search.
const DefaultLimit = 20

// searchCypher finds nodes anchored to any of the given locations, either
// by exact location property or by name containment, and collects one hop
// of connections per node.
const searchCypher = `
MATCH (n)
WHERE n.location IN $locations OR ANY(loc IN $locations WHERE n.name CONTAINS loc)
OPTIONAL MATCH (n)-[r]-(connected)
RETURN n.name AS name,
       labels(n)[0] AS type,
       n.location AS location,
       n.description AS description,
       collect({rel: type(r), node: connected.name, type: labels(connected)[0]}) AS connections
LIMIT $limit`

// Store performs read-only traversal queries against Neo4j.
type Store struct {
	driver neo4j.DriverWithContext
}

// New creates a Store on an existing driver. The caller owns the driver's
// lifecycle.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{driver: driver}
}

// Search returns up to limit nodes matching any of the locations, each
// with its filtered one-hop connections. An empty location list yields no
// nodes; callers are expected to have applied the fallback anchor already.
func (s *Store) Search(ctx context.Context, locations []string, limit int) ([]Node, error) {
	if len(locations) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, searchCypher, map[string]any{
		"locations": locations,
		"limit":     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: search: %w", err)
	}

	var nodes []Node
	for result.Next(ctx) {
		nodes = append(nodes, nodeFromValues(result.Record().AsMap()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: collect results: %w", err)
	}
	return nodes, nil
}

// nodeFromValues builds a Node from one result record. Connection entries
// with a null or absent neighbor name are invalid and filtered out.
func nodeFromValues(values map[string]any) Node {
	n := Node{
		Name:        strValue(values, "name"),
		Type:        strValue(values, "type"),
		Location:    strValue(values, "location"),
		Description: strValue(values, "description"),
	}

	raw, _ := values["connections"].([]any)
	for _, item := range raw {
		conn, ok := item.(map[string]any)
		if !ok {
			continue
		}
		neighbor := strValue(conn, "node")
		if neighbor == "" {
			continue
		}
		n.Connections = append(n.Connections, Connection{
			RelType:      strValue(conn, "rel"),
			NeighborName: neighbor,
			NeighborType: strValue(conn, "type"),
		})
	}
	return n
}

// strValue reads a string property, treating nulls and non-strings as
// absent.
func strValue(values map[string]any, key string) string {
	if v, ok := values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
