package roll

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/i18n"
	"github.com/abhisek/advancer/internal/notify"
)

func TestApplyBoundaries(t *testing.T) {
	for lvl := 0; lvl < character.MaxLevel; lvl++ {
		for draw := 1; draw <= Sides; draw++ {
			o := Apply(character.Skill{ID: "s", Level: lvl}, draw)
			if o.Success != (draw > lvl) {
				t.Fatalf("level %d draw %d: success=%v", lvl, draw, o.Success)
			}
			wantLevel := lvl
			if o.Success {
				wantLevel = min(lvl+1, character.MaxLevel)
			}
			if o.NewLevel != wantLevel {
				t.Fatalf("level %d draw %d: new level %d, want %d", lvl, draw, o.NewLevel, wantLevel)
			}
			if o.ReachedMaximum != (o.Success && o.NewLevel == character.MaxLevel) {
				t.Fatalf("level %d draw %d: reachedMaximum=%v", lvl, draw, o.ReachedMaximum)
			}
		}
	}
}

func TestApplyCases(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		draw    int
		success bool
		newLvl  int
		maxed   bool
	}{
		{"level 1 draw 1 fails", 1, 1, false, 1, false},
		{"level 0 draw 1 succeeds", 0, 1, true, 1, false},
		{"level 17 to cap", 17, 20, true, 18, true},
		{"level 17 draw 17 fails", 17, 17, false, 17, false},
		{"level 10 draw 11", 10, 11, true, 11, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Apply(character.Skill{Level: tt.level}, tt.draw)
			if o.Success != tt.success || o.NewLevel != tt.newLvl || o.ReachedMaximum != tt.maxed {
				t.Errorf("got %+v", o)
			}
		})
	}
}

func TestD20Range(t *testing.T) {
	d := SeededD20(42)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := d.Roll()
		if v < 1 || v > Sides {
			t.Fatalf("draw %d out of range", v)
		}
		seen[v] = true
	}
	if len(seen) != Sides {
		t.Errorf("expected all %d faces, saw %d", Sides, len(seen))
	}
}

type fakeUpdater struct {
	updates map[string]character.SkillUpdate
	err     error
}

func (f *fakeUpdater) UpdateSkill(_ context.Context, _, skillID string, u character.SkillUpdate) error {
	if f.err != nil {
		return f.err
	}
	if f.updates == nil {
		f.updates = map[string]character.SkillUpdate{}
	}
	f.updates[skillID] = u
	return nil
}

func newResolver(die Die, up SkillUpdater, rec *notify.Recorder) *Resolver {
	return &Resolver{Die: die, Skills: up, Notifier: rec, Printer: i18n.Printer(i18n.BaseLocale)}
}

func TestResolveSuccessToMaximum(t *testing.T) {
	up := &fakeUpdater{}
	rec := &notify.Recorder{}
	r := newResolver(NewFixed(20), up, rec)

	ch := character.Character{ID: "c1", Name: "Astra"}
	o, err := r.Resolve(context.Background(), ch, character.Skill{ID: "s1", Name: "Swords", Level: 17, Marked: true, Taught: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !o.Success || o.NewLevel != 18 || !o.ReachedMaximum {
		t.Fatalf("unexpected outcome %+v", o)
	}

	u := up.updates["s1"]
	if u.Level == nil || *u.Level != 18 || *u.Marked || *u.Taught {
		t.Errorf("unexpected update %+v", u)
	}
	keys := rec.Keys()
	if len(keys) != 2 || keys[0] != "roll.success" || keys[1] != "info.skill_maxed" {
		t.Errorf("notices = %v", keys)
	}
}

func TestResolveFailureKeepsLevel(t *testing.T) {
	up := &fakeUpdater{}
	rec := &notify.Recorder{}
	r := newResolver(NewFixed(3), up, rec)

	o, err := r.Resolve(context.Background(), character.Character{ID: "c1"}, character.Skill{ID: "s1", Level: 5, Marked: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if o.Success || o.NewLevel != 5 {
		t.Fatalf("unexpected outcome %+v", o)
	}
	u := up.updates["s1"]
	if u.Level != nil {
		t.Errorf("expected no level write on failure")
	}
	if u.Marked == nil || *u.Marked {
		t.Errorf("expected mark cleared")
	}
	if keys := rec.Keys(); len(keys) != 1 || keys[0] != "roll.failure" {
		t.Errorf("notices = %v", keys)
	}
}

func TestResolveRefusesMaximum(t *testing.T) {
	up := &fakeUpdater{}
	r := newResolver(NewFixed(20), up, &notify.Recorder{})
	_, err := r.Resolve(context.Background(), character.Character{}, character.Skill{ID: "s", Level: 18, Marked: true})
	if !errors.Is(err, ErrAtMaximum) {
		t.Fatalf("expected ErrAtMaximum, got %v", err)
	}
	if len(up.updates) != 0 {
		t.Errorf("expected no store write")
	}
}

func TestResolveStoreFailureIsSilent(t *testing.T) {
	boom := errors.New("disk full")
	rec := &notify.Recorder{}
	r := newResolver(NewFixed(10), &fakeUpdater{err: boom}, rec)
	_, err := r.Resolve(context.Background(), character.Character{}, character.Skill{ID: "s", Level: 2})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if len(rec.Notices()) != 0 {
		t.Errorf("expected no notices on store failure")
	}
}
