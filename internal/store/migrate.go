package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// CharactersColumns holds the columns for the "characters" table.
	CharactersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "owner", Type: field.TypeString, Default: ""},
		{Name: "weakness", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// CharactersTable holds the schema information for the "characters" table.
	CharactersTable = &schema.Table{
		Name:       "characters",
		Columns:    CharactersColumns,
		PrimaryKey: []*schema.Column{CharactersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "character_name", Unique: true, Columns: []*schema.Column{CharactersColumns[1]}},
		},
	}

	// SkillsColumns holds the columns for the "skills" table.
	SkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "character_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "level", Type: field.TypeInt, Default: 0},
		{Name: "marked", Type: field.TypeBool, Default: false},
		{Name: "taught", Type: field.TypeBool, Default: false},
		{Name: "position", Type: field.TypeInt, Default: 0},
	}
	// SkillsTable holds the schema information for the "skills" table.
	SkillsTable = &schema.Table{
		Name:       "skills",
		Columns:    SkillsColumns,
		PrimaryKey: []*schema.Column{SkillsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "skills_characters_skills",
				Columns:    []*schema.Column{SkillsColumns[1]},
				RefColumns: []*schema.Column{CharactersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "skill_character_id_name", Unique: true, Columns: []*schema.Column{SkillsColumns[1], SkillsColumns[2]}},
		},
	}

	// SessionHistoryColumns holds the columns for the "session_history" table.
	SessionHistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "character_id", Type: field.TypeString},
		{Name: "session_number", Type: field.TypeInt},
		{Name: "payload_id", Type: field.TypeString},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
		{Name: "recorded_at", Type: field.TypeInt64},
	}
	// SessionHistoryTable holds the schema information for the "session_history" table.
	SessionHistoryTable = &schema.Table{
		Name:       "session_history",
		Columns:    SessionHistoryColumns,
		PrimaryKey: []*schema.Column{SessionHistoryColumns[0]},
		Indexes: []*schema.Index{
			{Name: "history_character_id_session_number", Unique: true, Columns: []*schema.Column{SessionHistoryColumns[1], SessionHistoryColumns[2]}},
			{Name: "history_payload_id", Unique: true, Columns: []*schema.Column{SessionHistoryColumns[3]}},
		},
	}

	// JournalFoldersColumns holds the columns for the "journal_folders" table.
	JournalFoldersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
	}
	// JournalFoldersTable holds the schema information for the "journal_folders" table.
	JournalFoldersTable = &schema.Table{
		Name:       "journal_folders",
		Columns:    JournalFoldersColumns,
		PrimaryKey: []*schema.Column{JournalFoldersColumns[0]},
	}

	// JournalDocumentsColumns holds the columns for the "journal_documents" table.
	JournalDocumentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "folder_id", Type: field.TypeString},
		{Name: "character_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
	}
	// JournalDocumentsTable holds the schema information for the "journal_documents" table.
	JournalDocumentsTable = &schema.Table{
		Name:       "journal_documents",
		Columns:    JournalDocumentsColumns,
		PrimaryKey: []*schema.Column{JournalDocumentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "journal_documents_journal_folders_documents",
				Columns:    []*schema.Column{JournalDocumentsColumns[1]},
				RefColumns: []*schema.Column{JournalFoldersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "document_folder_id_character_id", Unique: true, Columns: []*schema.Column{JournalDocumentsColumns[1], JournalDocumentsColumns[2]}},
		},
	}

	// JournalPagesColumns holds the columns for the "journal_pages" table.
	JournalPagesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "document_id", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// JournalPagesTable holds the schema information for the "journal_pages" table.
	JournalPagesTable = &schema.Table{
		Name:       "journal_pages",
		Columns:    JournalPagesColumns,
		PrimaryKey: []*schema.Column{JournalPagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "journal_pages_journal_documents_page",
				Columns:    []*schema.Column{JournalPagesColumns[1]},
				RefColumns: []*schema.Column{JournalDocumentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// JournalAppliedColumns holds the columns for the "journal_applied" table.
	JournalAppliedColumns = []*schema.Column{
		{Name: "payload_id", Type: field.TypeString},
		{Name: "document_id", Type: field.TypeString},
		{Name: "applied_at", Type: field.TypeInt64},
	}
	// JournalAppliedTable records which payloads a document already holds.
	JournalAppliedTable = &schema.Table{
		Name:       "journal_applied",
		Columns:    JournalAppliedColumns,
		PrimaryKey: []*schema.Column{JournalAppliedColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CharactersTable,
		SkillsTable,
		SessionHistoryTable,
		JournalFoldersTable,
		JournalDocumentsTable,
		JournalPagesTable,
		JournalAppliedTable,
	}
)

func init() {
	SkillsTable.ForeignKeys[0].RefTable = CharactersTable
	JournalDocumentsTable.ForeignKeys[0].RefTable = JournalFoldersTable
	JournalPagesTable.ForeignKeys[0].RefTable = JournalDocumentsTable
}

// migrate creates or updates every table through ent's schema migrator.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
