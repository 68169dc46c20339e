package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/advancer/internal/journal"
)

// EnsureFolder returns the folder named name, creating it if needed.
func (s *Store) EnsureFolder(ctx context.Context, name string) (journal.Folder, error) {
	var f journal.Folder
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ins, args := builder().Insert(JournalFoldersTable.Name).
			Columns("id", "name").
			Values(uuid.NewString(), name).
			OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
			Query()
		if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
			return fmt.Errorf("insert folder: %w", err)
		}

		sel, args := builder().Select("id", "name").
			From(entsql.Table(JournalFoldersTable.Name)).
			Where(entsql.EQ("name", name)).
			Query()
		return tx.QueryRowContext(ctx, sel, args...).Scan(&f.ID, &f.Name)
	})
	if err != nil {
		return journal.Folder{}, fmt.Errorf("ensure folder %s: %w", name, err)
	}
	return f, nil
}

// EnsureDocument returns the character's document in a folder,
// creating it if needed.
func (s *Store) EnsureDocument(ctx context.Context, folderID, characterID, name string) (journal.Document, error) {
	var d journal.Document
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ins, args := builder().Insert(JournalDocumentsTable.Name).
			Columns("id", "folder_id", "character_id", "name").
			Values(uuid.NewString(), folderID, characterID, name).
			OnConflict(entsql.ConflictColumns("folder_id", "character_id"), entsql.DoNothing()).
			Query()
		if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}

		sel, args := builder().Select("id", "folder_id", "character_id", "name").
			From(entsql.Table(JournalDocumentsTable.Name)).
			Where(entsql.And(
				entsql.EQ("folder_id", folderID),
				entsql.EQ("character_id", characterID),
			)).
			Query()
		return tx.QueryRowContext(ctx, sel, args...).Scan(&d.ID, &d.FolderID, &d.CharacterID, &d.Name)
	})
	if err != nil {
		return journal.Document{}, fmt.Errorf("ensure document %s: %w", name, err)
	}
	return d, nil
}

// PrependEntry puts entry at the top of the document's page, creating the
// page on first use. A payload id already applied is skipped.
func (s *Store) PrependEntry(ctx context.Context, documentID, payloadID, entry string) (bool, error) {
	applied := false
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UnixMilli()

		mark, args := builder().Insert(JournalAppliedTable.Name).
			Columns("payload_id", "document_id", "applied_at").
			Values(payloadID, documentID, now).
			OnConflict(entsql.ConflictColumns("payload_id"), entsql.DoNothing()).
			Query()
		res, err := tx.ExecContext(ctx, mark, args...)
		if err != nil {
			return fmt.Errorf("record payload: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}

		page, found, err := pageByDocument(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if !found {
			ins, args := builder().Insert(JournalPagesTable.Name).
				Columns("id", "document_id", "name", "content", "updated_at").
				Values(uuid.NewString(), documentID, journal.PageName, entry, now).
				Query()
			if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
				return fmt.Errorf("create page: %w", err)
			}
		} else {
			upd, args := builder().Update(JournalPagesTable.Name).
				Set("content", entry+page.Content).
				Set("updated_at", now).
				Where(entsql.EQ("id", page.ID)).
				Query()
			if _, err := tx.ExecContext(ctx, upd, args...); err != nil {
				return fmt.Errorf("update page: %w", err)
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("prepend entry to %s: %w", documentID, err)
	}
	return applied, nil
}

// Page returns the single page of a document.
func (s *Store) Page(ctx context.Context, documentID string) (journal.Page, error) {
	p, found, err := pageByDocument(ctx, s.db, documentID)
	if err != nil {
		return journal.Page{}, err
	}
	if !found {
		return journal.Page{}, fmt.Errorf("page for %s: %w", documentID, ErrNotFound)
	}
	return p, nil
}

// Documents lists the documents of the named folder ordered by name.
func (s *Store) Documents(ctx context.Context, folderName string) ([]journal.Document, error) {
	d := builder().Table(JournalDocumentsTable.Name).As("d")
	f := builder().Table(JournalFoldersTable.Name).As("f")
	query, args := builder().Select(d.C("id"), d.C("folder_id"), d.C("character_id"), d.C("name")).
		From(d).
		Join(f).On(d.C("folder_id"), f.C("id")).
		Where(entsql.EQ(f.C("name"), folderName)).
		OrderBy(d.C("name")).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []journal.Document
	for rows.Next() {
		var d journal.Document
		if err := rows.Scan(&d.ID, &d.FolderID, &d.CharacterID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func pageByDocument(ctx context.Context, q querier, documentID string) (journal.Page, bool, error) {
	query, args := builder().Select("id", "document_id", "name", "content", "updated_at").
		From(entsql.Table(JournalPagesTable.Name)).
		Where(entsql.EQ("document_id", documentID)).
		Query()

	var (
		p      journal.Page
		millis int64
	)
	err := q.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.DocumentID, &p.Name, &p.Content, &millis)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Page{}, false, nil
	}
	if err != nil {
		return journal.Page{}, false, fmt.Errorf("query page: %w", err)
	}
	p.UpdatedAt = time.UnixMilli(millis)
	return p, true, nil
}
