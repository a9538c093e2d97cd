package repository

import (
	"context"
	"testing"
	"time"

	"github.com/linkpocket/linkpocket/internal/model"
	"github.com/linkpocket/linkpocket/internal/storage"
)

func TestRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := New(storage.NewMemory(), "")
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	links := []*model.Link{
		{
			ID:              "id-1",
			OriginalURL:     "https://example.com",
			ShortCode:       "Abc123",
			ShortURL:        "http://localhost:8080/Abc123",
			ValidityMinutes: 30,
			CreatedAt:       created,
			ExpiresAt:       created.Add(30 * time.Minute),
			ClickCount:      2,
			Clicks: []model.Click{
				{ID: "c1", Timestamp: created, Source: model.SourceDirect, Location: model.UnknownLocation()},
				{ID: "c2", Timestamp: created.Add(time.Minute), Source: "example.org", Location: model.Location{Country: "France", City: "Paris", Region: "IDF"}},
			},
		},
		{
			ID:              "id-2",
			OriginalURL:     "https://example.org",
			ShortCode:       "zzz999",
			ShortURL:        "http://localhost:8080/zzz999",
			ValidityMinutes: 1,
			CreatedAt:       created,
			ExpiresAt:       created.Add(time.Minute),
			Clicks:          []model.Click{},
		},
	}

	if err := repo.SaveAll(ctx, links); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadAll returned %d links, want 2", len(got))
	}

	first := got[0]
	if first.ID != "id-1" || first.ShortCode != "Abc123" {
		t.Errorf("first link = %s/%s, want id-1/Abc123", first.ID, first.ShortCode)
	}
	if !first.ExpiresAt.Equal(created.Add(30 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want %v", first.ExpiresAt, created.Add(30*time.Minute))
	}
	if first.ClickCount != 2 || len(first.Clicks) != 2 {
		t.Errorf("clicks = %d/%d, want 2/2", first.ClickCount, len(first.Clicks))
	}
	if first.Clicks[1].Location.City != "Paris" {
		t.Errorf("click location = %+v, want Paris", first.Clicks[1].Location)
	}
}

func TestRepository_LoadAll_MissingKey(t *testing.T) {
	t.Parallel()

	repo := New(storage.NewMemory(), "")

	links, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll on empty backend: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("LoadAll = %d links, want 0", len(links))
	}
}

func TestRepository_LoadAll_CorruptData(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemory()
	ctx := context.Background()
	if err := backend.Put(ctx, DefaultKey, []byte("{not json")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	repo := New(backend, "")
	if _, err := repo.LoadAll(ctx); err == nil {
		t.Fatal("LoadAll on corrupt data should return an error for the caller to handle")
	}
}

func TestRepository_LoadAll_LegacyShape(t *testing.T) {
	t.Parallel()

	// Older persisted records have no clicks array or click count.
	legacy := `[{"id":"id-1","original_url":"https://example.com","short_code":"abc",` +
		`"short_url":"http://localhost:8080/abc","validity_minutes":30,` +
		`"created_at":"2025-06-01T12:00:00Z","expires_at":"2025-06-01T12:30:00Z"}]`

	backend := storage.NewMemory()
	ctx := context.Background()
	if err := backend.Put(ctx, DefaultKey, []byte(legacy)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	repo := New(backend, "")
	links, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("LoadAll = %d links, want 1", len(links))
	}
	if links[0].Clicks == nil || len(links[0].Clicks) != 0 {
		t.Errorf("legacy clicks should default to empty, got %v", links[0].Clicks)
	}
	if links[0].ClickCount != 0 {
		t.Errorf("legacy click count should default to 0, got %d", links[0].ClickCount)
	}
}

func TestRepository_SaveAll_Nil(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemory()
	repo := New(backend, "")
	ctx := context.Background()

	if err := repo.SaveAll(ctx, nil); err != nil {
		t.Fatalf("SaveAll(nil): %v", err)
	}

	data, err := backend.Get(ctx, DefaultKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("nil collection serialized as %s, want []", data)
	}
}
