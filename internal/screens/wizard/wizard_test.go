package wizard

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/i18n"
	"github.com/abhisek/advancer/internal/notify"
	"github.com/abhisek/advancer/internal/record"
	"github.com/abhisek/advancer/internal/roll"
	"github.com/abhisek/advancer/internal/router"
	"github.com/abhisek/advancer/internal/screen"
	"github.com/abhisek/advancer/internal/screens/summary"
	"github.com/abhisek/advancer/internal/session"
	"github.com/abhisek/advancer/internal/store"
)

type capturePublisher struct {
	mu       sync.Mutex
	payloads []record.Payload
}

func (c *capturePublisher) Publish(_ context.Context, p record.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, p)
	return nil
}

type fixture struct {
	st   *store.Store
	char character.Character
	pub  *capturePublisher
	rec  *notify.Recorder
}

func newFixture(t *testing.T, skills ...character.Skill) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	c, err := st.CreateCharacter(ctx, character.Character{Name: "Astra", Weakness: "Greed"})
	require.NoError(t, err)
	for _, sk := range skills {
		_, err := st.AddSkill(ctx, c.ID, sk)
		require.NoError(t, err)
	}
	return &fixture{st: st, char: c, pub: &capturePublisher{}, rec: &notify.Recorder{}}
}

func (f *fixture) screen(settings config.Settings, die roll.Die) *WizardScreen {
	p := i18n.Printer(i18n.BaseLocale)
	return New(Options{
		Character: f.char,
		Printer:   p,
		Open: func(ctx context.Context) (*session.Wizard, error) {
			return session.Open(ctx, session.Deps{
				Store:     f.st,
				Publisher: f.pub,
				Die:       die,
				Notifier:  f.rec,
				Printer:   p,
			}, settings, f.char.ID)
		},
	})
}

func settingsFor(mode config.RollMode) config.Settings {
	s := config.Default()
	s.RollMode = mode
	s.WeaknessRule = false
	return s
}

// drive runs cmd and feeds the screen's own messages back into it until a
// message for someone else (or nothing) comes out.
func drive(s screen.Screen, cmd tea.Cmd) (screen.Screen, tea.Msg) {
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case openedMsg, actionDoneMsg:
			s, cmd = s.Update(msg)
		default:
			return s, msg
		}
	}
	return s, nil
}

func press(s screen.Screen, keys ...tea.KeyPressMsg) (screen.Screen, tea.Msg) {
	var out tea.Msg
	for _, k := range keys {
		var cmd tea.Cmd
		s, cmd = s.Update(k)
		s, out = drive(s, cmd)
	}
	return s, out
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var space = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}

func open(t *testing.T, s *WizardScreen) *WizardScreen {
	t.Helper()
	out, _ := drive(s, s.Init())
	ws := out.(*WizardScreen)
	require.True(t, ws.loaded, "wizard did not open: %s", ws.errMsg)
	return ws
}

func TestWizardScreen_BatchFlow(t *testing.T) {
	f := newFixture(t,
		character.Skill{Name: "Swords", Level: 4},
		character.Skill{Name: "Lore", Level: 9, Marked: true},
	)
	s := open(t, f.screen(settingsFor(config.RollBatch), roll.NewFixed(20)))
	assert.Equal(t, session.StepQuestions, s.view.Step)
	assert.Equal(t, "Astra", strings.TrimPrefix(s.Title(), "Advance "))

	_, _ = press(s, space)
	assert.Equal(t, 1, s.view.Budget.Total())
	assert.Contains(t, s.View(80, 24), "Step 1 of 3")

	_, _ = press(s, special(tea.KeyEnter))
	require.Equal(t, session.StepSelection, s.view.Step)
	require.Len(t, s.list.Items, 1)
	assert.Equal(t, "Swords (4)", s.list.Items[0].Label)
	assert.Contains(t, s.View(80, 24), "Already marked")

	_, _ = press(s, space)
	assert.Equal(t, 0, s.view.Remaining)

	_, _ = press(s, special(tea.KeyEnter))
	require.Equal(t, session.StepResolution, s.view.Step)
	assert.Len(t, s.list.Items, 2)

	_, _ = press(s, key('r'))
	require.Equal(t, session.ConfirmRollAll, s.view.Pending)
	assert.Contains(t, s.View(80, 24), "Roll advancement for every marked skill?")

	_, out := press(s, key('y'))
	replace, ok := out.(router.ReplaceScreenMsg)
	require.True(t, ok, "expected replace, got %T", out)
	assert.IsType(t, &summary.SummaryScreen{}, replace.Screen)

	skills, err := f.st.Skills(context.Background(), f.char.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, skills[0].Level)
	assert.Equal(t, 10, skills[1].Level)
	assert.False(t, skills[0].Marked)
	assert.False(t, skills[1].Marked)

	hist, err := f.st.History(context.Background(), f.char.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
	assert.Len(t, f.pub.payloads, 1)
}

func TestWizardScreen_IndividualFlow(t *testing.T) {
	f := newFixture(t,
		character.Skill{Name: "Swords", Level: 4},
		character.Skill{Name: "Lore", Level: 9, Marked: true},
	)
	s := open(t, f.screen(settingsFor(config.RollIndividual), roll.NewFixed(2)))

	_, _ = press(s, space, special(tea.KeyEnter), space, special(tea.KeyEnter))
	require.Equal(t, session.StepResolution, s.view.Step)
	assert.False(t, s.view.CanComplete)

	_, _ = press(s, special(tea.KeyEnter))
	assert.Len(t, s.view.Results, 1)
	assert.True(t, s.list.Items[0].Disabled)

	// Completing early does nothing.
	_, out := press(s, key('c'))
	assert.Nil(t, out)
	assert.Equal(t, session.ConfirmNone, s.view.Pending)

	_, _ = press(s, special(tea.KeyDown), special(tea.KeyEnter))
	require.True(t, s.view.CanComplete)

	_, _ = press(s, key('c'))
	require.Equal(t, session.ConfirmComplete, s.view.Pending)

	_, out = press(s, key('y'))
	assert.IsType(t, router.ReplaceScreenMsg{}, out)
	assert.Len(t, f.pub.payloads, 1)
	assert.Empty(t, f.pub.payloads[0].Advanced())
}

func TestWizardScreen_ConfirmDecline(t *testing.T) {
	f := newFixture(t, character.Skill{Name: "Swords", Level: 4})
	s := open(t, f.screen(settingsFor(config.RollBatch), roll.NewFixed(20)))

	_, _ = press(s, space, special(tea.KeyEnter), space, special(tea.KeyEnter), key('r'))
	require.Equal(t, session.ConfirmRollAll, s.view.Pending)

	_, out := press(s, key('n'))
	assert.Nil(t, out)
	assert.Equal(t, session.ConfirmNone, s.view.Pending)
	assert.Empty(t, s.view.Results)
}

func TestWizardScreen_EscCancels(t *testing.T) {
	f := newFixture(t, character.Skill{Name: "Swords", Level: 4})
	s := open(t, f.screen(settingsFor(config.RollBatch), roll.NewFixed(20)))

	_, _ = press(s, space, special(tea.KeyEnter), space, special(tea.KeyEnter))
	require.Equal(t, session.StepResolution, s.view.Step)

	_, out := press(s, special(tea.KeyEscape))
	assert.IsType(t, router.PopScreenMsg{}, out)

	skills, err := f.st.Skills(context.Background(), f.char.ID)
	require.NoError(t, err)
	assert.False(t, skills[0].Marked, "mark made this session should be reverted")
	assert.Contains(t, f.rec.Keys(), "info.cancelled")
}

func TestWizardScreen_FilterNarrowsSkills(t *testing.T) {
	f := newFixture(t,
		character.Skill{Name: "Swords", Level: 4},
		character.Skill{Name: "Bows", Level: 7},
	)
	s := open(t, f.screen(settingsFor(config.RollBatch), roll.NewFixed(20)))
	_, _ = press(s, space, special(tea.KeyEnter))
	require.Len(t, s.list.Items, 2)

	_, _ = press(s, key('/'), key('b'), key('o'))
	require.True(t, s.filter.Focused())
	require.Len(t, s.list.Items, 1)
	assert.Equal(t, "Bows (7)", s.list.Items[0].Label)

	// Esc clears the filter instead of cancelling.
	_, out := press(s, special(tea.KeyEscape))
	assert.Nil(t, out)
	assert.False(t, s.filter.Focused())
	assert.Len(t, s.list.Items, 2)
	assert.Equal(t, session.StatusOpen, s.view.Status)
}

func TestWizardScreen_Rejection(t *testing.T) {
	f := newFixture(t, character.Skill{Name: "Swords", Level: 4})
	s := open(t, f.screen(settingsFor(config.RollBatch), roll.NewFixed(20)))

	_, _ = press(s, special(tea.KeyEnter), special(tea.KeyEnter))
	assert.Equal(t, session.StepSelection, s.view.Step)
	assert.Empty(t, s.errLine, "rejections are reported as notices")
	assert.Contains(t, f.rec.Keys(), "warn.no_skills_selected")
}

func TestWizardScreen_OpenFailure(t *testing.T) {
	f := newFixture(t)
	settings := settingsFor(config.RollBatch)
	settings.Enabled = false

	s := f.screen(settings, roll.NewFixed(20))
	out, _ := drive(s, s.Init())
	ws := out.(*WizardScreen)
	assert.False(t, ws.loaded)
	assert.Contains(t, ws.View(80, 24), "disabled")

	_, msg := press(ws, key('q'))
	assert.IsType(t, router.PopScreenMsg{}, msg)
}

func TestWizardScreen_KeyHints(t *testing.T) {
	f := newFixture(t, character.Skill{Name: "Swords", Level: 4})
	s := open(t, f.screen(settingsFor(config.RollBatch), roll.NewFixed(20)))

	hints := s.KeyHints()
	require.NotEmpty(t, hints)
	assert.Equal(t, "Esc", hints[len(hints)-1].Key)
	assert.Equal(t, "0 marks", s.Status())

	_, _ = press(s, space)
	assert.Equal(t, "1 marks", s.Status())
}
