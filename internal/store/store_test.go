package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/record"
	"github.com/abhisek/advancer/internal/roll"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCharacter(t *testing.T, s *Store, name string, skills ...character.Skill) character.Character {
	t.Helper()
	ctx := context.Background()
	c, err := s.CreateCharacter(ctx, character.Character{Name: name, Weakness: "Greed"})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	for _, sk := range skills {
		if _, err := s.AddSkill(ctx, c.ID, sk); err != nil {
			t.Fatalf("add skill: %v", err)
		}
	}
	return c
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestCharacterRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCharacter(t, s, "Astra")

	got, err := s.Character(ctx, c.ID)
	if err != nil {
		t.Fatalf("character: %v", err)
	}
	if got.Name != "Astra" || got.Weakness != "Greed" {
		t.Errorf("unexpected character %+v", got)
	}

	if err := s.SetWeakness(ctx, c.ID, ""); err != nil {
		t.Fatalf("set weakness: %v", err)
	}
	got, _ = s.CharacterByName(ctx, "Astra")
	if got.HasWeakness() {
		t.Error("expected weakness cleared")
	}

	if _, err := s.Character(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetWeakness(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSkillsOrderAndUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCharacter(t, s, "Astra",
		character.Skill{Name: "Swords", Level: 4},
		character.Skill{Name: "Bows", Level: 17, Marked: true},
		character.Skill{Name: "Lore", Level: 18},
	)

	skills, err := s.Skills(ctx, c.ID)
	if err != nil {
		t.Fatalf("skills: %v", err)
	}
	if len(skills) != 3 || skills[0].Name != "Swords" || skills[2].Name != "Lore" {
		t.Fatalf("unexpected skills %+v", skills)
	}
	if !skills[1].Marked {
		t.Error("expected Bows marked")
	}

	lvl := 18
	no := false
	err = s.UpdateSkill(ctx, c.ID, skills[1].ID, character.SkillUpdate{Level: &lvl, Marked: &no, Taught: &no})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	skills, _ = s.Skills(ctx, c.ID)
	if skills[1].Level != 18 || skills[1].Marked {
		t.Errorf("update not applied: %+v", skills[1])
	}

	if err := s.UpdateSkill(ctx, c.ID, "missing", character.SetMarked(true)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	bad := 19
	if err := s.UpdateSkill(ctx, c.ID, skills[0].ID, character.SkillUpdate{Level: &bad}); err == nil {
		t.Error("expected level above cap to be rejected")
	}
}

func TestHistorySessionNumbers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := seedCharacter(t, s, "Astra")

	for i := 0; i < 3; i++ {
		p := record.Payload{
			ID:            record.NewID(),
			SchemaVersion: record.SchemaVersion,
			CharacterID:   c.ID,
			CharacterName: c.Name,
			Timestamp:     time.Now().UTC(),
			Results:       []roll.Outcome{{SkillID: "s", SkillName: "Swords", OldLevel: i, NewLevel: i + 1, Roll: 20, Success: true}},
		}
		e, err := s.AppendHistory(ctx, p)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if e.SessionNumber != i+1 {
			t.Errorf("session number = %d, want %d", e.SessionNumber, i+1)
		}
	}

	hist, err := s.History(ctx, c.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 3 || hist[2].SessionNumber != 3 || hist[2].Payload.Results[0].OldLevel != 2 {
		t.Fatalf("unexpected history %+v", hist)
	}
}

func TestEnsureIsCompareAndCreate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := s.EnsureFolder(ctx, "Advancement History")
			if err != nil {
				t.Errorf("ensure folder: %v", err)
				return
			}
			d, err := s.EnsureDocument(ctx, f.ID, "c1", "Astra")
			if err != nil {
				t.Errorf("ensure document: %v", err)
				return
			}
			ids[i] = d.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("expected one document, got ids %v", ids)
		}
	}
	docs, err := s.Documents(ctx, "Advancement History")
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
}

func TestPrependEntry(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f, _ := s.EnsureFolder(ctx, "Advancement History")
	d, _ := s.EnsureDocument(ctx, f.ID, "c1", "Astra")

	if _, err := s.Page(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no page yet, got %v", err)
	}

	ok, err := s.PrependEntry(ctx, d.ID, "p1", "<p>first</p>")
	if err != nil || !ok {
		t.Fatalf("prepend first: %v %v", ok, err)
	}
	ok, err = s.PrependEntry(ctx, d.ID, "p2", "<p>second</p>")
	if err != nil || !ok {
		t.Fatalf("prepend second: %v %v", ok, err)
	}
	ok, err = s.PrependEntry(ctx, d.ID, "p1", "<p>first</p>")
	if err != nil || ok {
		t.Fatalf("expected duplicate payload skipped: %v %v", ok, err)
	}

	page, err := s.Page(ctx, d.ID)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Name != "Log" {
		t.Errorf("page name = %q", page.Name)
	}
	if page.Content != "<p>second</p><p>first</p>" {
		t.Errorf("content = %q", page.Content)
	}
	if strings.Count(page.Content, "first") != 1 {
		t.Error("expected first entry once")
	}
}

func TestDocumentsListsOneFolderByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	hist, err := s.EnsureFolder(ctx, "Advancement History")
	require.NoError(t, err)
	other, err := s.EnsureFolder(ctx, "Scratch")
	require.NoError(t, err)

	_, err = s.EnsureDocument(ctx, hist.ID, "c2", "Bram")
	require.NoError(t, err)
	astra, err := s.EnsureDocument(ctx, hist.ID, "c1", "Astra")
	require.NoError(t, err)
	_, err = s.EnsureDocument(ctx, other.ID, "c3", "Cora")
	require.NoError(t, err)

	docs, err := s.Documents(ctx, "Advancement History")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, astra, docs[0])
	assert.Equal(t, "Bram", docs[1].Name)
	assert.Equal(t, hist.ID, docs[1].FolderID)

	docs, err = s.Documents(ctx, "Missing")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
