// Package bus is an in-process message channel between participants of a
// game. Each member has one inbox drained by one goroutine, so a member's
// handler never runs concurrently with itself.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Kind identifies what an envelope carries.
type Kind string

const (
	// KindOpenWizard asks the owner of a character to open the wizard.
	KindOpenWizard Kind = "open-wizard"

	// KindSessionPayload carries a finished session for the record writer.
	KindSessionPayload Kind = "session-payload"
)

// Role decides which members may write durable records.
type Role string

const (
	RoleAuthority   Role = "authority"
	RoleParticipant Role = "participant"
)

var (
	ErrClosed          = errors.New("bus closed")
	ErrUnknownMember   = errors.New("unknown member")
	ErrDuplicateMember = errors.New("member already joined")
)

// inboxSize bounds how far a sender can run ahead of a slow member.
const inboxSize = 64

// Envelope is one message on the bus.
type Envelope struct {
	Kind        Kind            `json:"kind"`
	Sender      string          `json:"sender"`
	CharacterID string          `json:"characterId,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
	SentAt      time.Time       `json:"sentAt"`
}

// Handler consumes envelopes delivered to a member.
type Handler interface {
	Handle(ctx context.Context, env Envelope) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, env Envelope) error

func (f HandlerFunc) Handle(ctx context.Context, env Envelope) error { return f(ctx, env) }

// Bus connects members.
type Bus struct {
	mu      sync.RWMutex
	members map[string]*Member
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
	now    func() time.Time
}

// New creates an empty bus. A nil logger uses slog.Default.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		members: make(map[string]*Member),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		now:     time.Now,
	}
}

// Join registers a member and starts its inbox loop.
func (b *Bus) Join(id string, role Role, h Handler) (*Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	if _, ok := b.members[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMember, id)
	}
	if h == nil {
		h = HandlerFunc(func(context.Context, Envelope) error { return nil })
	}

	m := &Member{
		id:      id,
		role:    role,
		bus:     b,
		handler: h,
		inbox:   make(chan Envelope, inboxSize),
		done:    make(chan struct{}),
	}
	b.members[id] = m
	b.wg.Add(1)
	go m.loop()
	b.logger.Debug("member joined", "member", id, "role", role)
	return m, nil
}

// Members returns the ids of joined members in sorted order.
func (b *Bus) Members() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.members))
	for id := range b.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops accepting messages, lets every member drain its inbox, and
// waits for the loops to exit.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	members := make([]*Member, 0, len(b.members))
	for _, m := range b.members {
		members = append(members, m)
	}
	b.members = map[string]*Member{}
	b.mu.Unlock()

	for _, m := range members {
		m.shut()
	}
	b.wg.Wait()
	b.cancel()
	return nil
}

func (b *Bus) recipients(to string) ([]*Member, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	if to != "" {
		m, ok := b.members[to]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMember, to)
		}
		return []*Member{m}, nil
	}
	out := make([]*Member, 0, len(b.members))
	for _, m := range b.members {
		out = append(out, m)
	}
	return out, nil
}

// Member is one participant on the bus.
type Member struct {
	id      string
	role    Role
	bus     *Bus
	handler Handler

	inbox chan Envelope

	// done is closed when the member leaves; the inbox itself is never
	// closed so senders cannot panic on it.
	done     chan struct{}
	shutOnce sync.Once
}

// ID returns the member id.
func (m *Member) ID() string { return m.id }

// Role returns the member role.
func (m *Member) Role() Role { return m.role }

// Broadcast delivers a message to every member, the sender included.
func (m *Member) Broadcast(ctx context.Context, kind Kind, characterID string, body []byte) error {
	return m.post(ctx, "", kind, characterID, body)
}

// Send delivers a message to one member.
func (m *Member) Send(ctx context.Context, to string, kind Kind, characterID string, body []byte) error {
	if to == "" {
		return fmt.Errorf("%w: empty recipient", ErrUnknownMember)
	}
	return m.post(ctx, to, kind, characterID, body)
}

func (m *Member) post(ctx context.Context, to string, kind Kind, characterID string, body []byte) error {
	rcpts, err := m.bus.recipients(to)
	if err != nil {
		return err
	}
	env := Envelope{
		Kind:        kind,
		Sender:      m.id,
		CharacterID: characterID,
		Body:        json.RawMessage(body),
		SentAt:      m.bus.now().UTC(),
	}
	for _, r := range rcpts {
		if r == m {
			r.deliverSelf(env)
			continue
		}
		if err := r.deliver(ctx, env); err != nil {
			return fmt.Errorf("deliver %s to %s: %w", kind, r.id, err)
		}
	}
	return nil
}

// deliver queues env, waiting while the inbox is full. Messages for a
// member that already left are dropped.
func (m *Member) deliver(ctx context.Context, env Envelope) error {
	select {
	case <-m.done:
		return nil
	default:
	}
	select {
	case m.inbox <- env:
		return nil
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deliverSelf queues a message a member addressed to itself. It never
// blocks: the sender may be the member's own handler, and only that
// goroutine drains the inbox. A full inbox hands the message to a
// goroutine that waits for room, so it may land after later messages.
func (m *Member) deliverSelf(env Envelope) {
	select {
	case <-m.done:
		return
	case m.inbox <- env:
		return
	default:
	}
	go func() {
		select {
		case m.inbox <- env:
		case <-m.done:
		}
	}()
}

// Leave removes the member from the bus. Queued messages are still handled.
func (m *Member) Leave() {
	m.bus.mu.Lock()
	if cur, ok := m.bus.members[m.id]; ok && cur == m {
		delete(m.bus.members, m.id)
	}
	m.bus.mu.Unlock()
	m.shut()
}

func (m *Member) shut() {
	m.shutOnce.Do(func() { close(m.done) })
}

// loop handles messages until the member leaves, then drains what is
// already queued.
func (m *Member) loop() {
	defer m.bus.wg.Done()
	for {
		select {
		case env := <-m.inbox:
			m.handle(env)
		case <-m.done:
			for {
				select {
				case env := <-m.inbox:
					m.handle(env)
				default:
					m.bus.logger.Debug("member left", "member", m.id)
					return
				}
			}
		}
	}
}

func (m *Member) handle(env Envelope) {
	if err := m.handler.Handle(m.bus.ctx, env); err != nil {
		m.bus.logger.Error("handle message", "member", m.id, "kind", env.Kind, "sender", env.Sender, "error", err)
	}
}
