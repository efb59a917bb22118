package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"+31 6 1234 5678", "+31612345678"},
		{"(415) 555-2671", "+14155552671"},
		{"415-555-2671", "+14155552671"},
		{"not a number", "not a number"},
		{"  +44 20 7946 0958  ", "+442079460958"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input); got != tc.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
