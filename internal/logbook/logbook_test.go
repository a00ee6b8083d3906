package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer book.Close()
	for i := 0; i < 5; i++ {
		book.Info("entry", "n", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"n=2", "n=3", "n=4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestEntriesCarryLevelAndTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer book.Close()
	book.Info("signed in", "subject", "17")
	book.Warn("token near expiry")
	book.Error("request failed", "status", 500)

	lines := book.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(lines))
	}
	for _, want := range []string{"level=info", "level=warn", "level=error"} {
		found := false
		for _, line := range lines {
			if strings.Contains(line, want) {
				found = true
			}
		}
		if !found {
			t.Fatalf("no entry with %s in %v", want, lines)
		}
	}
	if !strings.Contains(lines[0], "ts=") {
		t.Fatalf("entries should carry a timestamp: %q", lines[0])
	}
	if !strings.Contains(lines[0], `subject=17`) {
		t.Fatalf("keyvals lost: %q", lines[0])
	}
}

func TestTailOnMissingFile(t *testing.T) {
	book := &Logbook{path: filepath.Join(t.TempDir(), "never-written.log")}
	if lines := book.Tail(5); lines != nil {
		t.Fatalf("expected nil for a missing file, got %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	book.Warn("ignored")
	book.Error("ignored")
	if book.Path() != "" {
		t.Fatalf("nil path should be empty")
	}
	if err := book.Close(); err != nil {
		t.Fatalf("nil close should be a no-op: %v", err)
	}
	if lines := book.Tail(3); lines != nil {
		t.Fatalf("nil tail should be nil, got %v", lines)
	}
}
