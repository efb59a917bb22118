package engine

import "testing"

func TestResolveTopLevelAttributes(t *testing.T) {
	lead := &Lead{
		Email:   "jane@example.com",
		Name:    "Jane Doe",
		Company: "Example Inc",
		Domain:  "example.com",
	}

	value, ok := Resolve(lead, "email")
	if !ok || value != "jane@example.com" {
		t.Fatalf("expected email to resolve, got %v (ok=%v)", value, ok)
	}

	value, ok = Resolve(lead, "company")
	if !ok || value != "Example Inc" {
		t.Fatalf("expected company to resolve, got %v (ok=%v)", value, ok)
	}
}

func TestResolveNestedFields(t *testing.T) {
	lead := &Lead{
		Fields: map[string]any{
			"enrichment": map[string]any{
				"companySize": "51-200",
			},
		},
		UTM: map[string]string{"source": "google-ads"},
	}

	value, ok := Resolve(lead, "fields.enrichment.companySize")
	if !ok || value != "51-200" {
		t.Fatalf("expected nested field to resolve, got %v (ok=%v)", value, ok)
	}

	value, ok = Resolve(lead, "utm.source")
	if !ok || value != "google-ads" {
		t.Fatalf("expected utm map to resolve, got %v (ok=%v)", value, ok)
	}
}

func TestResolveMissingSegments(t *testing.T) {
	lead := &Lead{Fields: map[string]any{"title": "CEO"}}

	if _, ok := Resolve(lead, "fields.enrichment.companySize"); ok {
		t.Fatal("missing intermediate segment should not resolve")
	}
	if _, ok := Resolve(lead, "unknown"); ok {
		t.Fatal("unknown top-level segment should not resolve")
	}
	if _, ok := Resolve(lead, ""); ok {
		t.Fatal("empty path should not resolve")
	}
	if _, ok := Resolve(nil, "email"); ok {
		t.Fatal("nil lead should not resolve")
	}
}

func TestResolveDoesNotDescendScalars(t *testing.T) {
	lead := &Lead{Fields: map[string]any{"title": "CEO"}}

	if _, ok := Resolve(lead, "fields.title.deeper"); ok {
		t.Fatal("path through a scalar should not resolve")
	}
}

func TestResolveTerminatesOnSelfReferentialFields(t *testing.T) {
	fields := map[string]any{"title": "CEO"}
	fields["self"] = fields // cycle back to the root map

	lead := &Lead{Fields: fields}

	value, ok := Resolve(lead, "fields.title")
	if !ok || value != "CEO" {
		t.Fatalf("sibling of a cycle should resolve, got %v (ok=%v)", value, ok)
	}

	value, ok = Resolve(lead, "fields.self.self.self.title")
	if !ok || value != "CEO" {
		t.Fatalf("walking through the cycle along the exact path should still terminate, got %v (ok=%v)", value, ok)
	}
}
