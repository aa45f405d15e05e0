package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// ListPrompts returns all prompts ordered by updated_at descending, with
// their notes attached. When search is non-empty, only prompts whose title,
// content, or any attached note's content contains the term as a
// case-insensitive substring are returned; a prompt with several matching
// notes appears once.
func (db *DB) ListPrompts(ctx context.Context, search string) ([]models.Prompt, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if search == "" {
		rows, err = db.conn.QueryContext(ctx, `
			SELECT id, title, content, created_at, updated_at
			FROM prompts
			ORDER BY updated_at DESC, id DESC
		`)
	} else {
		like := "%" + search + "%"
		rows, err = db.conn.QueryContext(ctx, `
			SELECT DISTINCT p.id, p.title, p.content, p.created_at, p.updated_at
			FROM prompts p
			LEFT JOIN notes n ON n.prompt_id = p.id
			WHERE p.title LIKE ? OR p.content LIKE ? OR n.content LIKE ?
			ORDER BY p.updated_at DESC, p.id DESC
		`, like, like, like)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]models.Prompt, 0)
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan prompt: %w", err)
		}
		p.Notes = []models.Note{}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list prompts: %w", err)
	}

	if err := db.attachNotes(ctx, prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// GetPrompt returns the prompt with its notes eagerly attached, or
// apperr.ErrNotFound.
func (db *DB) GetPrompt(ctx context.Context, id int64) (*models.Prompt, error) {
	var p models.Prompt
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, title, content, created_at, updated_at
		FROM prompts
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get prompt: %w", err)
	}

	notes, err := db.ListNotes(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Notes = notes
	return &p, nil
}

// CreatePrompt persists a new prompt. created_at and updated_at are both set
// to the current time.
func (db *DB) CreatePrompt(ctx context.Context, title, content string) (*models.Prompt, error) {
	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO prompts (title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, title, content, now, now)
	if err != nil {
		return nil, fmt.Errorf("store: create prompt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create prompt id: %w", err)
	}
	return &models.Prompt{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Notes:     []models.Note{},
	}, nil
}

// UpdatePrompt replaces title and content wholesale and refreshes updated_at.
// Returns apperr.ErrNotFound when the id does not exist.
func (db *DB) UpdatePrompt(ctx context.Context, id int64, title, content string) (*models.Prompt, error) {
	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE prompts SET title = ?, content = ?, updated_at = ?
		WHERE id = ?
	`, title, content, now, id)
	if err != nil {
		return nil, fmt.Errorf("store: update prompt: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("store: update prompt: %w", err)
	} else if affected == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.GetPrompt(ctx, id)
}

// DeletePrompt removes the prompt; its notes are removed by the database
// through the cascading foreign key. Returns apperr.ErrNotFound when the id
// does not exist.
func (db *DB) DeletePrompt(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete prompt: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("store: delete prompt: %w", err)
	} else if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ImportPrompt creates a prompt together with its notes in one transaction, so
// a failure on any row leaves no partial record behind.
func (db *DB) ImportPrompt(ctx context.Context, title, content string, noteContents []string) (*models.Prompt, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO prompts (title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, title, content, now, now)
	if err != nil {
		return nil, fmt.Errorf("store: import prompt: %w", err)
	}
	promptID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: import prompt id: %w", err)
	}

	notes := make([]models.Note, len(noteContents))
	if len(noteContents) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO notes (prompt_id, content, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return nil, fmt.Errorf("store: prepare note insert: %w", err)
		}
		defer stmt.Close()
		// The batch shares one timestamp, so listing falls back to id
		// descending. Insert the last document note first so the listed order
		// matches the document order.
		for i := len(noteContents) - 1; i >= 0; i-- {
			res, err := stmt.ExecContext(ctx, promptID, noteContents[i], now, now)
			if err != nil {
				return nil, fmt.Errorf("store: import note: %w", err)
			}
			noteID, err := res.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("store: import note id: %w", err)
			}
			notes[i] = models.Note{
				ID:        noteID,
				PromptID:  promptID,
				Content:   noteContents[i],
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit import: %w", err)
	}

	return &models.Prompt{
		ID:        promptID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Notes:     notes,
	}, nil
}

// attachNotes loads the notes for every listed prompt with a single query.
func (db *DB) attachNotes(ctx context.Context, prompts []models.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}

	ids := make([]any, len(prompts))
	for i, p := range prompts {
		ids[i] = p.ID
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, prompt_id, content, created_at, updated_at
		FROM notes
		WHERE prompt_id IN (`+placeholders+`)
		ORDER BY created_at DESC, id DESC
	`, ids...)
	if err != nil {
		return fmt.Errorf("store: attach notes: %w", err)
	}
	defer rows.Close()

	byPrompt := make(map[int64][]models.Note, len(prompts))
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.PromptID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return fmt.Errorf("store: scan note: %w", err)
		}
		byPrompt[n.PromptID] = append(byPrompt[n.PromptID], n)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: attach notes: %w", err)
	}

	for i := range prompts {
		if notes, ok := byPrompt[prompts[i].ID]; ok {
			prompts[i].Notes = notes
		}
	}
	return nil
}
