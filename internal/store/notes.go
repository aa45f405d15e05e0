package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// ListNotes returns all notes for a prompt ordered by created_at descending.
func (db *DB) ListNotes(ctx context.Context, promptID int64) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, prompt_id, content, created_at, updated_at
		FROM notes
		WHERE prompt_id = ?
		ORDER BY created_at DESC, id DESC
	`, promptID)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.PromptID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	return notes, nil
}

// GetNote returns a single note by id, or apperr.ErrNotFound.
func (db *DB) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	var n models.Note
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, prompt_id, content, created_at, updated_at
		FROM notes
		WHERE id = ?
	`, id).Scan(&n.ID, &n.PromptID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return &n, nil
}

// CreateNote persists a new note for the prompt. A missing prompt surfaces as
// apperr.ErrNotFound via the foreign key constraint.
func (db *DB) CreateNote(ctx context.Context, promptID int64, content string) (*models.Note, error) {
	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (prompt_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, promptID, content, now, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: create note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create note id: %w", err)
	}
	return &models.Note{
		ID:        id,
		PromptID:  promptID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateNote replaces the note content and refreshes updated_at. Returns
// apperr.ErrNotFound when the id does not exist.
func (db *DB) UpdateNote(ctx context.Context, id int64, content string) (*models.Note, error) {
	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE notes SET content = ?, updated_at = ?
		WHERE id = ?
	`, content, now, id)
	if err != nil {
		return nil, fmt.Errorf("store: update note: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("store: update note: %w", err)
	} else if affected == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.GetNote(ctx, id)
}

// DeleteNote removes the note. Returns apperr.ErrNotFound when the id does
// not exist.
func (db *DB) DeleteNote(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	} else if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
