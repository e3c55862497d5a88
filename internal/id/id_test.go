package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(got, "user-") {
		t.Errorf("expected prefix %q, got %q", "user-", got)
	}
	// Default NanoID is 21 characters plus prefix and dash.
	if len(got) != len("user-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := MustGenerate("ntf")
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
