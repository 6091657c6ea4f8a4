package handler

import "testing"

func TestSafeRedirectTarget(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "", expected: "/"},
		{raw: "/create", expected: "/create"},
		{raw: "/post/abc#comments", expected: "/post/abc#comments"},
		{raw: "https://evil.test", expected: "/"},
		{raw: "//evil.test", expected: "/"},
		{raw: "/\\evil.test", expected: "/"},
		{raw: "create", expected: "/"},
	}

	for _, tt := range tests {
		if got := safeRedirectTarget(tt.raw, "/"); got != tt.expected {
			t.Fatalf("safeRedirectTarget(%q) = %q, want %q", tt.raw, got, tt.expected)
		}
	}
}

func TestValidID(t *testing.T) {
	if id, ok := validID(" 3F1C2A7E-8D4B-4C1A-9E2F-5B6D7C8E9F01 "); !ok || id != "3f1c2a7e-8d4b-4c1a-9e2f-5b6d7c8e9f01" {
		t.Fatalf("expected normalized uuid, got %q %v", id, ok)
	}
	for _, raw := range []string{"", "42", "../etc/passwd", "3f1c2a7e-8d4b"} {
		if _, ok := validID(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	cases := map[string]int{"": 1, "0": 1, "-3": 1, "abc": 1, "7": 7, " 2 ": 2}
	for raw, expected := range cases {
		if got := parsePositiveInt(raw, 1); got != expected {
			t.Fatalf("parsePositiveInt(%q) = %d, want %d", raw, got, expected)
		}
	}
}
