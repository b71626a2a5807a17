package randx

import (
	"strings"
	"testing"
)

func TestConnectionIDUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := ConnectionID()
		if id == "" {
			t.Fatal("connection ID must not be empty")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate connection ID generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestDefaultDisplayName(t *testing.T) {
	name := DefaultDisplayName("3f9a1c77-0000-0000-0000-000000000000")
	if name != "User-3f9a1c" {
		t.Errorf("expected User-3f9a1c, got %q", name)
	}

	if got := DefaultDisplayName("ab"); got != "User-ab" {
		t.Errorf("short IDs are used whole, got %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abcdefgh"); got != "abcdef" || !strings.HasPrefix("abcdefgh", got) {
		t.Errorf("unexpected short ID %q", got)
	}
}
