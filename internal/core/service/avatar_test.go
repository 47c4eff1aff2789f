package service

import "testing"

func TestAvatarFunc(t *testing.T) {
	avatar := NewAvatarFunc("https://ui-avatars.com/api/")

	got := avatar("alice")
	want := "https://ui-avatars.com/api/?name=alice&background=random&color=fff&size=256"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// Deterministic: same input, same URL.
	if avatar("alice") != got {
		t.Fatalf("avatar derivation must be deterministic")
	}

	// Names are escaped and trimmed.
	got = avatar("  Jean Doe ")
	want = "https://ui-avatars.com/api/?name=Jean+Doe&background=random&color=fff&size=256"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if avatar("") != "https://ui-avatars.com/api/?name=User&background=random" {
		t.Fatalf("empty username must fall back to the generic avatar")
	}
}
