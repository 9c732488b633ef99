// Package semantic is the sole owner of all Qdrant vector index
// operations on the online retrieval path.
package semantic

import (
	"context"
	"fmt"
	"strings"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Store performs nearest-neighbor search against one Qdrant collection.
type Store struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
}

// New creates a Store connected to Qdrant at the given gRPC address.
func New(addr, collection string) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("semantic: dial qdrant %s: %w", addr, err)
	}
	return &Store{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: collection,
	}, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Search performs k-NN similarity search and returns matches with their
// attribute payloads, in the order given by the provider (assumed
// descending by score; not re-sorted here).
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}

	matches := make([]Match, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		matches[i] = Match{
			ID:    pointID(r.GetId()),
			Score: float64(r.GetScore()),
			Attrs: attributesFromPayload(r.GetPayload()),
		}
	}
	return matches, nil
}

// pointID renders either UUID or numeric point IDs as a string.
func pointID(id *pb.PointId) string {
	if u := id.GetUuid(); u != "" {
		return u
	}
	return fmt.Sprintf("%d", id.GetNum())
}

// attributesFromPayload maps the provider's loose payload onto the typed
// attribute record. Tags may arrive as a string or a list; lists are
// joined with ", ".
func attributesFromPayload(payload map[string]*pb.Value) Attributes {
	var a Attributes
	for k, v := range payload {
		switch k {
		case "name":
			a.Name = v.GetStringValue()
		case "type":
			a.Type = v.GetStringValue()
		case "city":
			a.City = v.GetStringValue()
		case "region":
			a.Region = v.GetStringValue()
		case "description":
			a.Description = v.GetStringValue()
		case "tags":
			a.Tags = tagsValue(v)
		}
	}
	return a
}

func tagsValue(v *pb.Value) string {
	if s := v.GetStringValue(); s != "" {
		return s
	}
	list := v.GetListValue()
	if list == nil {
		return ""
	}
	parts := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		if s := item.GetStringValue(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
