package webhook

import "testing"

func TestExtractFields(t *testing.T) {
	data := map[string]string{
		"Your Name":    "Jane Doe",
		"work_email":   "jane@acme.io",
		"Company Name": "Acme",
		"phone_number": "+1 415 555 0100",
		"job-title":    "VP Engineering",
		"message":      "Looking for a demo",
		"utm_source":   "google-ads",
		"utm_campaign": "spring",
		"budget_range": "10k-50k",
	}

	result := ExtractFields(data)

	if result.Name != "Jane Doe" {
		t.Fatalf("expected name extracted, got %q", result.Name)
	}
	if result.Email != "jane@acme.io" {
		t.Fatalf("expected email extracted, got %q", result.Email)
	}
	if result.Company != "Acme" {
		t.Fatalf("expected company extracted, got %q", result.Company)
	}
	if result.Phone != "+1 415 555 0100" {
		t.Fatalf("expected phone extracted, got %q", result.Phone)
	}
	if result.Title != "VP Engineering" {
		t.Fatalf("expected title extracted, got %q", result.Title)
	}
	if result.Message != "Looking for a demo" {
		t.Fatalf("expected message extracted, got %q", result.Message)
	}
	if result.UTM["source"] != "google-ads" || result.UTM["campaign"] != "spring" {
		t.Fatalf("expected utm params extracted, got %v", result.UTM)
	}
	if result.Extra["budget_range"] != "10k-50k" {
		t.Fatalf("expected unmatched field preserved in Extra, got %v", result.Extra)
	}
	if result.IsIncomplete() {
		t.Fatal("lead with email should not be incomplete")
	}
}

func TestExtractFieldsLowercasesEmail(t *testing.T) {
	result := ExtractFields(map[string]string{"email": "Jane@ACME.io"})
	if result.Email != "jane@acme.io" {
		t.Fatalf("expected lowercased email, got %q", result.Email)
	}
}

func TestExtractFieldsRejectsInvalidEmail(t *testing.T) {
	result := ExtractFields(map[string]string{
		"email": "not-an-email",
		"name":  "Bob",
	})
	if result.Email != "" {
		t.Fatalf("expected invalid email rejected, got %q", result.Email)
	}
}

func TestIsIncomplete(t *testing.T) {
	incomplete := ExtractFields(map[string]string{
		"email": "jane@acme.io",
		"name":  "Jane Doe",
	})
	if !incomplete.IsIncomplete() {
		t.Fatal("submission without company should be incomplete")
	}

	complete := ExtractFields(map[string]string{
		"email":   "jane@acme.io",
		"name":    "Jane Doe",
		"company": "Acme",
	})
	if complete.IsIncomplete() {
		t.Fatal("submission with name and company should be complete")
	}
}

func TestExtractFieldsHoneypot(t *testing.T) {
	result := ExtractFields(map[string]string{
		"email":    "bot@spam.io",
		"honeypot": "gotcha",
	})
	if result.Honeypot != "gotcha" {
		t.Fatalf("expected honeypot value captured, got %q", result.Honeypot)
	}
}

func TestExtractFieldsSkipsEmptyValues(t *testing.T) {
	result := ExtractFields(map[string]string{
		"email":   "  ",
		"company": "",
	})
	if result.Email != "" || result.Company != "" {
		t.Fatalf("expected blank values skipped, got email=%q company=%q", result.Email, result.Company)
	}
	if len(result.Extra) != 0 {
		t.Fatalf("expected no extra fields, got %v", result.Extra)
	}
}

func TestIsDomainAllowed(t *testing.T) {
	cases := []struct {
		origin  string
		allowed []string
		want    bool
	}{
		{"https://example.com", []string{"example.com"}, true},
		{"https://example.com", []string{"other.com"}, false},
		{"https://app.example.com", []string{"*.example.com"}, true},
		{"https://example.com", []string{"*.example.com"}, true},
		{"https://evilexample.com", []string{"*.example.com"}, false},
		{"https://anything.io", []string{"*"}, true},
		{"", []string{"example.com"}, false},
	}

	for _, tc := range cases {
		if got := isDomainAllowed(tc.origin, tc.allowed); got != tc.want {
			t.Fatalf("isDomainAllowed(%q, %v) = %v, want %v", tc.origin, tc.allowed, got, tc.want)
		}
	}
}
