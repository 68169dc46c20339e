// Package journal writes finished sessions to the shared advancement log.
// Only the authority member writes; every other member ignores payloads.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/bus"
	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/record"
	"github.com/abhisek/advancer/internal/summary"
)

// Keeper is the bus handler that appends session payloads to the log.
type Keeper struct {
	Role    bus.Role
	Docs    DocumentStore
	Printer *message.Printer
	Logger  *slog.Logger

	// Folder defaults to config.DefaultJournalFolder.
	Folder string

	mu sync.Mutex
}

var _ bus.Handler = (*Keeper)(nil)

// Handle implements bus.Handler.
func (k *Keeper) Handle(ctx context.Context, env bus.Envelope) error {
	if env.Kind != bus.KindSessionPayload {
		return nil
	}
	logger := k.logger()
	if k.Role != bus.RoleAuthority {
		logger.Debug("ignoring payload, not the authority", "sender", env.Sender, "character", env.CharacterID)
		return nil
	}

	p, err := record.Decode(env.Body)
	if err != nil {
		return fmt.Errorf("decode payload from %s: %w", env.Sender, err)
	}
	applied, err := k.Append(ctx, p)
	if err != nil {
		return err
	}
	if applied {
		logger.Info("journal entry written", "character", p.CharacterName, "payload", p.ID)
	} else {
		logger.Debug("journal entry already present", "character", p.CharacterName, "payload", p.ID)
	}
	return nil
}

// Append locates or creates the character's document and prepends the
// entry for p. It reports false when p was already recorded.
func (k *Keeper) Append(ctx context.Context, p record.Payload) (bool, error) {
	entry, err := summary.EntryHTML(k.Printer, p)
	if err != nil {
		return false, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	folder, err := k.Docs.EnsureFolder(ctx, k.folder())
	if err != nil {
		return false, fmt.Errorf("journal folder: %w", err)
	}
	doc, err := k.Docs.EnsureDocument(ctx, folder.ID, p.CharacterID, p.CharacterName)
	if err != nil {
		return false, fmt.Errorf("journal document for %s: %w", p.CharacterName, err)
	}
	applied, err := k.Docs.PrependEntry(ctx, doc.ID, p.ID, entry)
	if err != nil {
		return false, fmt.Errorf("journal entry for %s: %w", p.CharacterName, err)
	}
	return applied, nil
}

func (k *Keeper) folder() string {
	if k.Folder == "" {
		return config.DefaultJournalFolder
	}
	return k.Folder
}

func (k *Keeper) logger() *slog.Logger {
	if k.Logger == nil {
		return slog.Default()
	}
	return k.Logger
}

// Broadcaster posts an envelope to every bus member.
type Broadcaster interface {
	Broadcast(ctx context.Context, kind bus.Kind, characterID string, body []byte) error
}

// Publisher hands finished sessions to the bus so the authority's keeper
// can record them.
type Publisher struct {
	Member Broadcaster
}

// Publish encodes p and broadcasts it.
func (pub Publisher) Publish(ctx context.Context, p record.Payload) error {
	body, err := record.Encode(p)
	if err != nil {
		return err
	}
	if err := pub.Member.Broadcast(ctx, bus.KindSessionPayload, p.CharacterID, body); err != nil {
		return fmt.Errorf("publish session %s: %w", p.ID, err)
	}
	return nil
}
