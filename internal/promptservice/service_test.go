package promptservice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.TestDB(t))
}

func TestCreateAndGetPrompt(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.CreatePrompt(ctx, PromptInput{Title: "Greeting", Content: "Say **hello**"})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if created.ID == 0 {
		t.Error("created prompt has no id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("created_at = %v, updated_at = %v, want equal at creation", created.CreatedAt, created.UpdatedAt)
	}

	got, err := svc.GetPrompt(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if got.Title != "Greeting" || got.Content != "Say **hello**" {
		t.Errorf("got title=%q content=%q", got.Title, got.Content)
	}
	if len(got.Notes) != 0 {
		t.Errorf("new prompt has %d notes, want 0", len(got.Notes))
	}
}

func TestCreatePromptValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   PromptInput
	}{
		{"empty title", PromptInput{Title: "", Content: "body"}},
		{"empty content", PromptInput{Title: "t", Content: ""}},
		{"title too long", PromptInput{Title: strings.Repeat("x", 201), Content: "body"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreatePrompt(ctx, tc.in); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("CreatePrompt(%+v) err = %v, want ErrValidation", tc.in, err)
			}
		})
	}
}

func TestUpdatePromptRefreshesTimestamp(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.CreatePrompt(ctx, PromptInput{Title: "v1", Content: "a"})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	updated, err := svc.UpdatePrompt(ctx, created.ID, PromptInput{Title: "v2", Content: "b"})
	if err != nil {
		t.Fatalf("UpdatePrompt: %v", err)
	}
	if updated.Title != "v2" || updated.Content != "b" {
		t.Errorf("updated title=%q content=%q", updated.Title, updated.Content)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v < %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed on update: %v != %v", updated.CreatedAt, created.CreatedAt)
	}
}

func TestUpdatePrompt_NotFound(t *testing.T) {
	svc := testService(t)

	_, err := svc.UpdatePrompt(context.Background(), 9999, PromptInput{Title: "t", Content: "c"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing prompt err = %v, want ErrNotFound", err)
	}
}

func TestDeletePromptCascades(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, PromptInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	n1, err := svc.CreateNote(ctx, p.ID, NoteInput{Content: "first"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	n2, err := svc.CreateNote(ctx, p.ID, NoteInput{Content: "second"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	if err := svc.DeletePrompt(ctx, p.ID); err != nil {
		t.Fatalf("DeletePrompt: %v", err)
	}

	if _, err := svc.GetPrompt(ctx, p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get deleted prompt err = %v, want ErrNotFound", err)
	}
	for _, id := range []int64{n1.ID, n2.ID} {
		if _, err := svc.GetNote(ctx, id); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("note %d survived cascade, err = %v", id, err)
		}
	}
}

func TestDeletePrompt_NotFound(t *testing.T) {
	svc := testService(t)

	if err := svc.DeletePrompt(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete missing prompt err = %v, want ErrNotFound", err)
	}
}

func TestListPromptsOrdering(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	a, err := svc.CreatePrompt(ctx, PromptInput{Title: "a", Content: "1"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.CreatePrompt(ctx, PromptInput{Title: "b", Content: "2"})
	if err != nil {
		t.Fatal(err)
	}

	// Most recently updated first.
	prompts, err := svc.ListPrompts(ctx, "")
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("len = %d, want 2", len(prompts))
	}
	if prompts[0].ID != b.ID {
		t.Errorf("first prompt = %d, want most recent %d", prompts[0].ID, b.ID)
	}

	// Touching a moves it to the front.
	if _, err := svc.UpdatePrompt(ctx, a.ID, PromptInput{Title: "a", Content: "1+"}); err != nil {
		t.Fatal(err)
	}
	prompts, err = svc.ListPrompts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if prompts[0].ID != a.ID {
		t.Errorf("first prompt after update = %d, want %d", prompts[0].ID, a.ID)
	}
}

func TestSearchMatchesNoteContent(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.CreatePrompt(ctx, PromptInput{Title: "plain", Content: "nothing here"}); err != nil {
		t.Fatal(err)
	}
	p, err := svc.CreatePrompt(ctx, PromptInput{Title: "target", Content: "body"})
	if err != nil {
		t.Fatal(err)
	}
	// Two matching notes must not duplicate the owning prompt.
	for _, c := range []string{"the needle one", "the needle two"} {
		if _, err := svc.CreateNote(ctx, p.ID, NoteInput{Content: c}); err != nil {
			t.Fatal(err)
		}
	}

	results, err := svc.ListPrompts(ctx, "NEEDLE")
	if err != nil {
		t.Fatalf("ListPrompts(search): %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("search results = %d, want 1", len(results))
	}
	if results[0].ID != p.ID {
		t.Errorf("search returned prompt %d, want %d", results[0].ID, p.ID)
	}
}

func TestNoteLifecycle(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, PromptInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatal(err)
	}
	n, err := svc.CreateNote(ctx, p.ID, NoteInput{Content: "v1"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if n.PromptID != p.ID {
		t.Errorf("note prompt_id = %d, want %d", n.PromptID, p.ID)
	}

	updated, err := svc.UpdateNote(ctx, n.ID, NoteInput{Content: "v2"})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Content != "v2" {
		t.Errorf("content = %q, want v2", updated.Content)
	}
	if updated.UpdatedAt.Before(n.UpdatedAt) {
		t.Errorf("note updated_at went backwards")
	}

	if err := svc.DeleteNote(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := svc.GetNote(ctx, n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get deleted note err = %v, want ErrNotFound", err)
	}
}

func TestCreateNote_PromptMissing(t *testing.T) {
	svc := testService(t)

	_, err := svc.CreateNote(context.Background(), 777, NoteInput{Content: "orphan"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("create note for missing prompt err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	svc := testService(t)

	_, err := svc.UpdateNote(context.Background(), 123, NoteInput{Content: "x"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing note err = %v, want ErrNotFound", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, PromptInput{Title: "portable", Content: "take me along"})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []string{"first note", "second note"} {
		if _, err := svc.CreateNote(ctx, p.ID, NoteInput{Content: c}); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := svc.Export(ctx, p.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if doc.Title != "portable" || len(doc.Notes) != 2 {
		t.Fatalf("export title=%q notes=%d", doc.Title, len(doc.Notes))
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	imported, err := svc.Import(ctx, raw)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported.ID == p.ID {
		t.Error("import reused the source prompt id")
	}

	got, err := svc.GetPrompt(ctx, imported.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "portable" || got.Content != "take me along" {
		t.Errorf("imported title=%q content=%q", got.Title, got.Content)
	}
	if len(got.Notes) != 2 {
		t.Fatalf("imported notes = %d, want 2", len(got.Notes))
	}
	// Listing order survives the round trip.
	for i, n := range got.Notes {
		if n.Content != doc.Notes[i].Content {
			t.Errorf("note %d = %q, want %q", i, n.Content, doc.Notes[i].Content)
		}
	}
}

func TestImportExportTimestampFormat(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, PromptInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := svc.Export(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, ts := range []string{doc.CreatedAt, doc.UpdatedAt} {
		if !strings.Contains(ts, "T") || !strings.HasSuffix(ts, "Z") {
			t.Errorf("timestamp %q is not RFC 3339 UTC", ts)
		}
	}
}

func TestImportInvalidJSON(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, []byte("{not json"))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("import bad JSON err = %v, want ErrValidation", err)
	}

	prompts, err := svc.ListPrompts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(prompts) != 0 {
		t.Errorf("bad import created %d prompts, want 0", len(prompts))
	}
}

func TestImportMissingContent(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, []byte(`{"title": "no body", "notes": []}`))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("import without content err = %v, want ErrValidation", err)
	}

	prompts, err := svc.ListPrompts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(prompts) != 0 {
		t.Errorf("invalid import created %d prompts, want 0", len(prompts))
	}
}

func TestImportSkipsNotesWithoutContent(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	doc := []byte(`{"title": "t", "content": "c", "notes": [{"content": ""}, {"content": "kept"}]}`)
	p, err := svc.Import(ctx, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	got, err := svc.GetPrompt(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Notes) != 1 {
		t.Fatalf("imported notes = %d, want 1", len(got.Notes))
	}
	if got.Notes[0].Content != "kept" {
		t.Errorf("note content = %q, want kept", got.Notes[0].Content)
	}
}
