package graph

import (
	"reflect"
	"testing"
)

func TestNodeFromValues(t *testing.T) {
	values := map[string]any{
		"name":        "Nha Trang Beach",
		"type":        "Beach",
		"location":    "Nha Trang",
		"description": "Long sandy beach",
		"connections": []any{
			map[string]any{"rel": "NEAR", "node": "Vinpearl", "type": "Resort"},
			map[string]any{"rel": "NEAR", "node": nil, "type": "Resort"}, // dangling: no neighbor
			map[string]any{"rel": nil, "node": "Po Nagar Towers", "type": "Landmark"},
		},
	}

	n := nodeFromValues(values)
	if n.Name != "Nha Trang Beach" || n.Type != "Beach" || n.Location != "Nha Trang" {
		t.Fatalf("unexpected node: %+v", n)
	}

	want := []Connection{
		{RelType: "NEAR", NeighborName: "Vinpearl", NeighborType: "Resort"},
		{RelType: "", NeighborName: "Po Nagar Towers", NeighborType: "Landmark"},
	}
	if !reflect.DeepEqual(n.Connections, want) {
		t.Fatalf("connections = %+v, want %+v", n.Connections, want)
	}
}

func TestNodeFromValuesNullFields(t *testing.T) {
	values := map[string]any{
		"name":        "Mystery Spot",
		"type":        "Attraction",
		"location":    nil,
		"description": nil,
		"connections": []any{},
	}

	n := nodeFromValues(values)
	if n.Location != "" || n.Description != "" {
		t.Fatalf("null properties must map to empty strings: %+v", n)
	}
	if len(n.Connections) != 0 {
		t.Fatalf("connections = %+v, want none", n.Connections)
	}
}

func TestNodeFromValuesNoConnectionMatches(t *testing.T) {
	// OPTIONAL MATCH with no relationship yields one all-null entry.
	values := map[string]any{
		"name": "Remote Village",
		"type": "Village",
		"connections": []any{
			map[string]any{"rel": nil, "node": nil, "type": nil},
		},
	}

	n := nodeFromValues(values)
	if len(n.Connections) != 0 {
		t.Fatalf("connections = %+v, want all-null entry filtered", n.Connections)
	}
}
