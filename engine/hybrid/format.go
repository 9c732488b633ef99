package hybrid

import (
	"fmt"
	"strings"

	"github.com/VietVoyageAI/vietvoyage-mvp/engine/graph"
	"github.com/VietVoyageAI/vietvoyage-mvp/engine/semantic"
)

// maxConnections caps the connection summary per graph node.
const maxConnections = 5

// FormatContext assembles the retrieval evidence into the context string
// handed to the generation provider. The exact layout is a compatibility
// surface for the prompt: changing it changes model behavior, so it is
// frozen and covered byte-for-byte by tests.
func FormatContext(matches []semantic.Match, nodes []graph.Node) string {
	var parts []string

	parts = append(parts, "=== SEMANTIC SEARCH RESULTS ===\n")
	for i, m := range matches {
		parts = append(parts, fmt.Sprintf("%d. %s (Relevance: %.3f)", i+1, orDefault(m.Attrs.Name, "Unknown"), m.Score))
		parts = append(parts, "   Type: "+orDefault(m.Attrs.Type, "N/A"))
		if m.Attrs.City != "" {
			parts = append(parts, "   City: "+m.Attrs.City)
		}
		if m.Attrs.Region != "" {
			parts = append(parts, "   Region: "+m.Attrs.Region)
		}
		parts = append(parts, "   Description: "+orDefault(m.Attrs.Description, "N/A"))
		if m.Attrs.Tags != "" {
			parts = append(parts, "   Tags: "+m.Attrs.Tags)
		}
		parts = append(parts, "")
	}

	parts = append(parts, "\n=== KNOWLEDGE GRAPH CONTEXT ===\n")
	for i, n := range nodes {
		parts = append(parts, fmt.Sprintf("%d. %s (%s)", i+1, n.Name, orDefault(n.Type, "N/A")))
		parts = append(parts, "   Location: "+orDefault(n.Location, "N/A"))
		parts = append(parts, "   Description: "+orDefault(n.Description, "N/A"))
		if summary := connectionSummary(n.Connections); summary != "" {
			parts = append(parts, "   Connected to: "+summary)
		}
		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}

// connectionSummary renders up to maxConnections connections as
// "Name (Type)" joined by ", ".
func connectionSummary(conns []graph.Connection) string {
	if len(conns) == 0 {
		return ""
	}
	if len(conns) > maxConnections {
		conns = conns[:maxConnections]
	}
	parts := make([]string, len(conns))
	for i, c := range conns {
		parts[i] = fmt.Sprintf("%s (%s)", c.NeighborName, orDefault(c.NeighborType, "N/A"))
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
