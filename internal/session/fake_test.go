package session

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/record"
)

var errNotFound = errors.New("not found")

// memStore is an in-memory CharacterStore with failure hooks.
type memStore struct {
	mu      sync.Mutex
	char    character.Character
	skills  []character.Skill
	history []record.HistoryEntry

	failUpdate  func(skillID string, u character.SkillUpdate) error
	failHistory error
	updates     int
}

func newMemStore(c character.Character, skills ...character.Skill) *memStore {
	return &memStore{char: c, skills: skills}
}

func (m *memStore) Character(_ context.Context, id string) (character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != m.char.ID {
		return character.Character{}, errNotFound
	}
	return m.char, nil
}

func (m *memStore) Skills(_ context.Context, characterID string) ([]character.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]character.Skill, len(m.skills))
	copy(out, m.skills)
	return out, nil
}

func (m *memStore) UpdateSkill(_ context.Context, _, skillID string, u character.SkillUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		if err := m.failUpdate(skillID, u); err != nil {
			return err
		}
	}
	for i, s := range m.skills {
		if s.ID == skillID {
			m.skills[i] = u.Apply(s)
			m.updates++
			return nil
		}
	}
	return errNotFound
}

func (m *memStore) SetWeakness(_ context.Context, _, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.char.Weakness = text
	return nil
}

func (m *memStore) AppendHistory(_ context.Context, p record.Payload) (record.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failHistory != nil {
		return record.HistoryEntry{}, m.failHistory
	}
	e := record.HistoryEntry{SessionNumber: len(m.history) + 1, Payload: p}
	m.history = append(m.history, e)
	return e, nil
}

func (m *memStore) skill(id string) character.Skill {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, _ := character.Find(m.skills, id)
	return s
}

func (m *memStore) setSkill(s character.Skill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.skills {
		if m.skills[i].ID == s.ID {
			m.skills[i] = s
		}
	}
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads []record.Payload
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, p record.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, p)
	return nil
}
