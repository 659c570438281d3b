package session

import (
	"path/filepath"
	"testing"

	"github.com/GOHANX1234/Aibot/internal/domain"
)

func newTestPersister(t *testing.T) *SQLitePersister {
	t.Helper()

	p, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})

	return p
}

func TestLoadEmptyDatabase(t *testing.T) {
	p := newTestPersister(t)

	sessions, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("Expected no sessions, got %d", len(sessions))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	p := newTestPersister(t)

	in := []domain.ChatSession{
		{
			ID:        "s1",
			Title:     "orbital mechanics",
			Timestamp: 1700000000000,
			Messages: []domain.ChatMessage{
				{Content: "how do orbits work", IsUser: true},
				{Content: "gravity, mostly", IsUser: false},
			},
			Model: domain.ModelX1,
		},
		{ID: "s2", Title: "New Chat", Model: domain.ModelX2, Messages: []domain.ChatMessage{}},
	}

	if err := p.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(out))
	}
	if out[0].ID != "s1" || out[0].Title != "orbital mechanics" || len(out[0].Messages) != 2 {
		t.Errorf("Unexpected first session: %+v", out[0])
	}
	if out[0].Messages[1].Content != "gravity, mostly" || out[0].Messages[1].IsUser {
		t.Errorf("Unexpected message: %+v", out[0].Messages[1])
	}
}

func TestSaveOverwritesWholesale(t *testing.T) {
	p := newTestPersister(t)

	if err := p.Save([]domain.ChatSession{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := p.Save([]domain.ChatSession{{ID: "c"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c" {
		t.Errorf("Expected only the last collection, got %+v", out)
	}
}

func TestStoreWithSQLitePersister(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	p, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}

	s := New(p)
	created := s.Create(domain.ModelX3)
	s.AppendMessage(created.ID, domain.ChatMessage{Content: "persist me", IsUser: true})

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen as a fresh process would.
	p2, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite reopen failed: %v", err)
	}
	defer p2.Close()

	reloaded := New(p2)
	got := reloaded.Get(created.ID)
	if got == nil {
		t.Fatal("Expected session to survive reopen")
	}
	if got.Title != "persist me" || len(got.Messages) != 1 {
		t.Errorf("Unexpected reloaded session: %+v", got)
	}
	if got.Model != domain.ModelX3 {
		t.Errorf("Expected model x3, got %q", got.Model)
	}
}
