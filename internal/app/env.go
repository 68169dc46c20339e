package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/bus"
	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/i18n"
	"github.com/abhisek/advancer/internal/journal"
	"github.com/abhisek/advancer/internal/notify"
	"github.com/abhisek/advancer/internal/roll"
	"github.com/abhisek/advancer/internal/router"
	"github.com/abhisek/advancer/internal/screens/history"
	"github.com/abhisek/advancer/internal/screens/home"
	"github.com/abhisek/advancer/internal/screens/wizard"
	"github.com/abhisek/advancer/internal/session"
	"github.com/abhisek/advancer/internal/store"
)

// env holds what the screen factories need.
type env struct {
	store    *store.Store
	settings config.Settings
	logger   *slog.Logger
	printer  *message.Printer
	die      roll.Die
	notifier notify.Notifier
	member   *bus.Member
	post     func(tea.Msg)
}

// setup joins the bus and builds the env. The returned func closes the bus.
func setup(opts Options) (*env, <-chan tea.Msg, func(), error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := opts.Settings
	printer := i18n.Printer(s.Language)

	inbox := make(chan tea.Msg, inboxSize)
	post := func(msg tea.Msg) {
		select {
		case inbox <- msg:
		default:
			logger.Warn("ui inbox full, dropping message", "type", fmt.Sprintf("%T", msg))
		}
	}

	b := bus.New(logger)
	closeBus := func() {
		if err := b.Close(); err != nil {
			logger.Warn("close bus", "error", err)
		}
	}

	role := bus.RoleParticipant
	if s.Authority {
		role = bus.RoleAuthority
		keeper := &journal.Keeper{
			Role:    bus.RoleAuthority,
			Docs:    opts.Store,
			Printer: printer,
			Logger:  logger,
			Folder:  s.JournalFolder,
		}
		if _, err := b.Join(s.Participant+":journal", bus.RoleAuthority, keeper); err != nil {
			closeBus()
			return nil, nil, nil, fmt.Errorf("join journal keeper: %w", err)
		}
	}

	member, err := b.Join(s.Participant, role, bus.HandlerFunc(func(_ context.Context, e bus.Envelope) error {
		if e.Kind == bus.KindOpenWizard {
			post(openWizardMsg{CharacterID: e.CharacterID})
		}
		return nil
	}))
	if err != nil {
		closeBus()
		return nil, nil, nil, fmt.Errorf("join bus as %s: %w", s.Participant, err)
	}

	e := &env{
		store:    opts.Store,
		settings: s,
		logger:   logger,
		printer:  printer,
		die:      opts.Die,
		member:   member,
		post:     post,
	}
	e.notifier = notify.Multi{
		notify.Log{Logger: logger},
		notify.Func(func(_ context.Context, n notify.Notice) {
			// The summary screen shows the session summary itself.
			if n.Key == "summary" {
				return
			}
			post(noticeMsg(n))
		}),
	}
	logger.Debug("joined bus", "participant", s.Participant, "role", role, "members", b.Members())
	return e, inbox, closeBus, nil
}

func (e *env) homeScreen() *home.HomeScreen {
	return home.New(home.Options{
		Roster:      e.store,
		ShowAdvance: e.settings.ShowSkillButtons,
		Advance:     e.advance,
		History: func(ch character.Character) tea.Cmd {
			s := history.New(e.store, ch, e.printer)
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		},
	})
}

func (e *env) wizardScreen(ch character.Character) *wizard.WizardScreen {
	return wizard.New(wizard.Options{
		Character: ch,
		Printer:   e.printer,
		Open: func(ctx context.Context) (*session.Wizard, error) {
			return session.Open(ctx, session.Deps{
				Store:     e.store,
				Publisher: journal.Publisher{Member: e.member},
				Die:       e.die,
				Notifier:  e.notifier,
				Printer:   e.printer,
				Logger:    e.logger,
			}, e.settings, ch.ID)
		},
	})
}

// advance opens the wizard here when this participant owns the character
// and asks the owner to open it otherwise. An owner that is not connected
// falls back to opening it here.
func (e *env) advance(ch character.Character) tea.Cmd {
	if ch.Owner == "" || ch.Owner == e.settings.Participant {
		s := e.wizardScreen(ch)
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}

	member, logger, s := e.member, e.logger, e.wizardScreen(ch)
	return func() tea.Msg {
		err := member.Send(context.Background(), ch.Owner, bus.KindOpenWizard, ch.ID, nil)
		if err == nil {
			return noticeMsg{Level: notify.LevelInfo, Text: fmt.Sprintf("Asked %s to advance %s.", ch.Owner, ch.Name)}
		}
		if !errors.Is(err, bus.ErrUnknownMember) {
			logger.Error("send open-wizard", "owner", ch.Owner, "character", ch.Name, "error", err)
		}
		return router.PushScreenMsg{Screen: s}
	}
}

// openByID loads a character and pushes its wizard.
func (e *env) openByID(id string) tea.Cmd {
	return func() tea.Msg {
		ch, err := e.store.Character(context.Background(), id)
		if err != nil {
			e.logger.Error("open wizard on request", "character", id, "error", err)
			return noticeMsg{Level: notify.LevelError, Text: fmt.Sprintf("Could not open character %s.", id)}
		}
		return router.PushScreenMsg{Screen: e.wizardScreen(ch)}
	}
}
