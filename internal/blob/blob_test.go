package blob

import (
	"context"
	"strings"
	"testing"
)

func TestKeyConvention(t *testing.T) {
	k1 := Key("course-1", "notes.pdf")
	if !strings.HasPrefix(k1, "course-1/") || !strings.HasSuffix(k1, ".pdf") {
		t.Fatalf("unexpected key: %q", k1)
	}

	// no extension stays extensionless
	k2 := Key("course-1", "README")
	if strings.Contains(k2, ".") {
		t.Fatalf("expected no extension in key: %q", k2)
	}

	// same filename never collides
	if Key("course-1", "notes.pdf") == Key("course-1", "notes.pdf") {
		t.Fatalf("keys for identical filenames must differ")
	}
}

func TestDirStoreRoundTrip(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore error: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, "c1/abc.pdf", []byte("data")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := s.Get(ctx, "c1/abc.pdf")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != "data" {
		t.Fatalf("round trip mismatch: %q", got)
	}

	if _, err := s.Get(ctx, "c1/missing.pdf"); err == nil {
		t.Fatalf("expected error for missing blob")
	}
}

func TestDirStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore error: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "../outside", "c1/../../outside"} {
		if err := s.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("expected Put to reject key %q", key)
		}
		if _, err := s.Get(ctx, key); err == nil {
			t.Errorf("expected Get to reject key %q", key)
		}
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	data := []byte("hello")
	if err := s.Put(ctx, "k", data); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	data[0] = 'X' // caller mutation must not leak into the store

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected stored copy got %q", got)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 blob got %d", s.Len())
	}
	if _, err := s.Get(ctx, "missing"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
