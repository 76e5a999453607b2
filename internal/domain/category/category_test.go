package category_test

import (
	"testing"

	"github.com/arjunkh87/bizdash/internal/domain/category"
)

func TestAll_CatalogShape(t *testing.T) {
	all := category.All()

	if len(all) != 10 {
		t.Fatalf("catalog has %d entries, want 10", len(all))
	}

	seen := map[string]bool{}
	for _, c := range all {
		if c.ID == "" || c.Label == "" || c.Icon == "" {
			t.Fatalf("incomplete entry: %+v", c)
		}
		if seen[c.ID] {
			t.Fatalf("duplicate id %q", c.ID)
		}
		seen[c.ID] = true
	}

	if !seen[category.OtherID] {
		t.Fatal("catalog must include the catch-all bucket")
	}
}

func TestAll_ReturnsACopy(t *testing.T) {
	first := category.All()
	first[0].Label = "scribbled"

	if category.All()[0].Label == "scribbled" {
		t.Fatal("mutating the returned slice must not touch the catalog")
	}
}

func TestByID(t *testing.T) {
	c, ok := category.ByID("retail")
	if !ok || c.Label == "" {
		t.Fatalf("retail should resolve, got ok=%v c=%+v", ok, c)
	}

	if _, ok := category.ByID("does-not-exist"); ok {
		t.Fatal("unknown id should not resolve")
	}
}

func TestIsValid(t *testing.T) {
	if !category.IsValid(category.OtherID) {
		t.Fatal("other must be valid")
	}
	if category.IsValid("") {
		t.Fatal("empty id must not be valid")
	}
	if category.IsValid("RETAIL") {
		t.Fatal("ids are case sensitive")
	}
}
