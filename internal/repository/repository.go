// Package repository persists the link collection.
// The entire collection is serialized as one JSON blob stored at a
// single fixed key, mirroring the original single-slot layout; every
// save rewrites the whole blob (last writer wins).
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linkpocket/linkpocket/internal/model"
	"github.com/linkpocket/linkpocket/internal/storage"
)

// DefaultKey is the storage key for the link collection.
const DefaultKey = "linkpocket:links"

// Repository reads and writes the link collection through a storage
// backend.
type Repository struct {
	backend storage.Backend
	key     string
}

// New creates a Repository over the given backend. An empty key falls
// back to DefaultKey.
func New(backend storage.Backend, key string) *Repository {
	if key == "" {
		key = DefaultKey
	}
	return &Repository{backend: backend, key: key}
}

// LoadAll deserializes the persisted collection. A missing key yields an
// empty collection and no error; corrupt data yields an error the caller
// may treat as empty. Older persisted shapes without a clicks array
// deserialize with an empty click list.
func (r *Repository) LoadAll(ctx context.Context) ([]*model.Link, error) {
	data, err := r.backend.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load collection: %w", err)
	}

	var links []*model.Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	for _, link := range links {
		if link.Clicks == nil {
			link.Clicks = []model.Click{}
		}
	}
	return links, nil
}

// SaveAll serializes the whole collection and writes it in one put.
func (r *Repository) SaveAll(ctx context.Context, links []*model.Link) error {
	if links == nil {
		links = []*model.Link{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := r.backend.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

// Ping checks backend connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.backend.Ping(ctx)
}
