package semantic

import (
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
)

func strVal(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func listVal(items ...string) *pb.Value {
	vals := make([]*pb.Value, len(items))
	for i, s := range items {
		vals[i] = strVal(s)
	}
	return &pb.Value{Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: vals}}}
}

func TestAttributesFromPayload(t *testing.T) {
	payload := map[string]*pb.Value{
		"name":        strVal("Nha Trang Beach"),
		"type":        strVal("Beach"),
		"city":        strVal("Nha Trang"),
		"description": strVal("Long sandy beach"),
		"tags":        strVal("beach, swimming"),
		"ignored":     strVal("x"),
	}

	a := attributesFromPayload(payload)
	if a.Name != "Nha Trang Beach" || a.Type != "Beach" || a.City != "Nha Trang" {
		t.Fatalf("unexpected attributes: %+v", a)
	}
	if a.Region != "" {
		t.Fatalf("absent region must stay empty, got %q", a.Region)
	}
	if a.Tags != "beach, swimming" {
		t.Fatalf("tags = %q", a.Tags)
	}
}

func TestAttributesFromPayloadListTags(t *testing.T) {
	a := attributesFromPayload(map[string]*pb.Value{
		"tags": listVal("beach", "nightlife"),
	})
	if a.Tags != "beach, nightlife" {
		t.Fatalf("tags = %q, want joined list", a.Tags)
	}
}

func TestPointID(t *testing.T) {
	uuid := &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "abc-123"}}
	if got := pointID(uuid); got != "abc-123" {
		t.Fatalf("pointID(uuid) = %q", got)
	}
	num := &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: 42}}
	if got := pointID(num); got != "42" {
		t.Fatalf("pointID(num) = %q", got)
	}
}
