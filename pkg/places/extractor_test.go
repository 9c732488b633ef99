package places

import (
	"reflect"
	"testing"
)

func TestExtractFromQueryText(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		query string
		want  []string
	}{
		{"beach vacation in Nha Trang", []string{"Nha Trang"}},
		{"BEACH VACATION IN NHA TRANG", []string{"Nha Trang"}},
		{"food tour hoi an and da nang", []string{"Hoi An", "Da Nang"}},
		{"what to do in saigon", []string{"Saigon"}},
	}
	for _, tt := range tests {
		got := e.Extract(tt.query, nil).Names()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Extract(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestExtractCanonicalCasing(t *testing.T) {
	e := NewExtractor()
	got := e.Extract("trip to HANOI please", nil)
	if !got.Has("Hanoi") {
		t.Fatalf("expected canonical-cased Hanoi, got %v", got.Names())
	}
	if got.Has("HANOI") {
		t.Fatal("raw query casing must not leak into the set")
	}
}

func TestExtractFallback(t *testing.T) {
	e := NewExtractor()
	got := e.Extract("", nil).Names()
	if !reflect.DeepEqual(got, []string{"Vietnam"}) {
		t.Fatalf("Extract(\"\") = %v, want [Vietnam]", got)
	}

	got = e.Extract("somewhere warm with good food", nil).Names()
	if !reflect.DeepEqual(got, []string{"Vietnam"}) {
		t.Fatalf("no-match query = %v, want [Vietnam]", got)
	}
}

func TestExtractCityPrecedesRegion(t *testing.T) {
	e := NewExtractor()
	attrs := []MatchAttrs{{City: "Hue", Region: "Central Vietnam"}}

	got := e.Extract("imperial citadel tour", attrs)
	if !got.Has("Hue") {
		t.Fatalf("expected Hue from city attribute, got %v", got.Names())
	}
	if got.Has("Central Vietnam") {
		t.Fatal("region must not be added when city is present on the same match")
	}
}

func TestExtractRegionWhenNoCity(t *testing.T) {
	e := NewExtractor()
	attrs := []MatchAttrs{{Region: "Central Vietnam"}}

	got := e.Extract("imperial citadel tour", attrs)
	if !got.Has("Central Vietnam") {
		t.Fatalf("expected region fallback attribute, got %v", got.Names())
	}
}

func TestExtractAttributeCasingIsExact(t *testing.T) {
	e := NewExtractor()
	got := e.Extract("", []MatchAttrs{{City: "nha trang"}})
	if !got.Has("nha trang") {
		t.Fatalf("attribute value must keep its stored casing, got %v", got.Names())
	}
	if got.Has("Nha Trang") {
		t.Fatal("attribute values are not canonicalized against the gazetteer")
	}
}

func TestExtendReportsGrowth(t *testing.T) {
	e := NewExtractor()
	set := e.Extract("plan a trip", nil) // fallback only

	if grew := e.Extend(set, nil); grew {
		t.Fatal("Extend with no attrs must not grow the set")
	}
	if grew := e.Extend(set, []MatchAttrs{{City: "Nha Trang"}}); !grew {
		t.Fatal("Extend with a new city must report growth")
	}
	if grew := e.Extend(set, []MatchAttrs{{City: "Nha Trang"}}); grew {
		t.Fatal("Extend with a duplicate city must not report growth")
	}

	// Union only: the fallback stays.
	want := []string{"Vietnam", "Nha Trang"}
	if !reflect.DeepEqual(set.Names(), want) {
		t.Fatalf("set = %v, want %v", set.Names(), want)
	}
}

func TestSetCloneIsIndependent(t *testing.T) {
	s := NewSet()
	s.Add("Hanoi")
	c := s.Clone()
	c.Add("Hue")

	if s.Has("Hue") {
		t.Fatal("mutating the clone must not affect the original")
	}
	if !c.Has("Hanoi") || !c.Has("Hue") {
		t.Fatalf("clone = %v", c.Names())
	}
}
