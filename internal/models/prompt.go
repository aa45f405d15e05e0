// Package models defines the domain types for Ansuz.
package models

import "time"

// Prompt is a titled block of reusable text. Notes, when loaded, are ordered
// by created_at descending.
type Prompt struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     []Note    `json:"notes"`
}

// Note is a free-form annotation attached to exactly one prompt. Deleting the
// owning prompt deletes its notes.
type Note struct {
	ID        int64     `json:"id"`
	PromptID  int64     `json:"prompt_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
