// Package promptservice implements the application operations on top of the
// store: input validation, prompt and note CRUD, and the portable JSON
// import/export format.
package promptservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/store"
)

// PromptInput carries the user-editable fields of a prompt.
type PromptInput struct {
	Title   string
	Content string
}

// Validate checks the prompt field rules. Failures are wrapped in
// apperr.ErrValidation so the request layer can map them to a client error.
func (in PromptInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.Content, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// NoteInput carries the user-editable fields of a note.
type NoteInput struct {
	Content string
}

// Validate checks the note field rules.
func (in NoteInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Content, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// Service coordinates validation and store access.
type Service struct {
	db *store.DB
}

// NewService creates a new prompt service.
func NewService(db *store.DB) *Service {
	return &Service{db: db}
}

// ListPrompts returns all prompts, most recently updated first. A non-empty
// search term restricts the result to prompts whose title, content, or note
// content contains the term.
func (s *Service) ListPrompts(ctx context.Context, search string) ([]models.Prompt, error) {
	return s.db.ListPrompts(ctx, search)
}

// GetPrompt returns a prompt with its notes attached.
func (s *Service) GetPrompt(ctx context.Context, id int64) (*models.Prompt, error) {
	return s.db.GetPrompt(ctx, id)
}

// CreatePrompt validates the input and persists a new prompt.
func (s *Service) CreatePrompt(ctx context.Context, in PromptInput) (*models.Prompt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.db.CreatePrompt(ctx, in.Title, in.Content)
}

// UpdatePrompt validates the input and replaces the prompt's title and content.
func (s *Service) UpdatePrompt(ctx context.Context, id int64, in PromptInput) (*models.Prompt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.db.UpdatePrompt(ctx, id, in.Title, in.Content)
}

// DeletePrompt removes a prompt and, through the schema cascade, its notes.
func (s *Service) DeletePrompt(ctx context.Context, id int64) error {
	return s.db.DeletePrompt(ctx, id)
}

// GetNote returns a single note.
func (s *Service) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	return s.db.GetNote(ctx, id)
}

// CreateNote validates the input and attaches a new note to the prompt.
func (s *Service) CreateNote(ctx context.Context, promptID int64, in NoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.db.CreateNote(ctx, promptID, in.Content)
}

// UpdateNote validates the input and replaces the note's content.
func (s *Service) UpdateNote(ctx context.Context, id int64, in NoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.db.UpdateNote(ctx, id, in.Content)
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	return s.db.DeleteNote(ctx, id)
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// ExportedNote is the portable form of a note.
type ExportedNote struct {
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ExportedPrompt is the portable form of a prompt with its notes. Timestamps
// are RFC 3339 in UTC.
type ExportedPrompt struct {
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Notes     []ExportedNote `json:"notes"`
}

// Export serializes a prompt and its notes into the portable form.
func (s *Service) Export(ctx context.Context, id int64) (*ExportedPrompt, error) {
	p, err := s.db.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &ExportedPrompt{
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
		Notes:     make([]ExportedNote, len(p.Notes)),
	}
	for i, n := range p.Notes {
		out.Notes[i] = ExportedNote{
			Content:   n.Content,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out, nil
}

// Import parses an exported prompt document and stores it as a new prompt.
// Ids and timestamps in the document are ignored; they are assigned by the
// store. Notes without content are skipped, the rest are created inside the
// same transaction as the prompt.
func (s *Service) Import(ctx context.Context, data []byte) (*models.Prompt, error) {
	var doc ExportedPrompt
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", apperr.ErrValidation, err)
	}
	in := PromptInput{Title: doc.Title, Content: doc.Content}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	contents := make([]string, 0, len(doc.Notes))
	for _, n := range doc.Notes {
		if n.Content == "" {
			continue
		}
		contents = append(contents, n.Content)
	}
	p, err := s.db.ImportPrompt(ctx, doc.Title, doc.Content, contents)
	if err != nil {
		return nil, err
	}
	slog.Info("prompt imported",
		slog.String("import_id", uuid.NewString()),
		slog.Int64("prompt_id", p.ID),
		slog.Int("notes_imported", len(contents)),
		slog.Int("notes_skipped", len(doc.Notes)-len(contents)),
	)
	return p, nil
}
