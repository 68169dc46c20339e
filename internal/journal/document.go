package journal

import (
	"context"
	"time"
)

// PageName is the title of the single page in every character log.
const PageName = "Log"

// Folder groups advancement logs.
type Folder struct {
	ID   string
	Name string
}

// Document is one character's advancement log.
type Document struct {
	ID          string
	FolderID    string
	CharacterID string
	Name        string
}

// Page holds the concatenated entries of a document, newest first.
type Page struct {
	ID         string
	DocumentID string
	Name       string
	Content    string
	UpdatedAt  time.Time
}

// DocumentStore is the shared document store the keeper writes to.
//
// EnsureFolder and EnsureDocument are compare-and-create: concurrent
// callers asking for the same key get the same row. PrependEntry is
// idempotent per payload id and reports whether it wrote anything.
type DocumentStore interface {
	EnsureFolder(ctx context.Context, name string) (Folder, error)
	EnsureDocument(ctx context.Context, folderID, characterID, name string) (Document, error)
	PrependEntry(ctx context.Context, documentID, payloadID, entry string) (bool, error)
}
