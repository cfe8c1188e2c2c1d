// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package linkstest provides test doubles for the links domain.
package linkstest

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/links"
)

// MemoryRepository is an in-memory links.Repository.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[ulid.ULID]*links.Link

	Err error // returned by every method when set
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[ulid.ULID]*links.Link)}
}

// List retrieves all links ordered by ID.
func (r *MemoryRepository) List(_ context.Context) ([]*links.Link, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*links.Link, 0, len(r.items))
	for _, link := range r.items {
		cp := *link
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Compare(out[j].ID) < 0 })
	return out, nil
}

// GetByID retrieves a link by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id ulid.ULID) (*links.Link, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.items[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

// Create stores a new link.
func (r *MemoryRepository) Create(_ context.Context, link *links.Link) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *link
	r.items[link.ID] = &cp
	return nil
}

// Update replaces a stored link.
func (r *MemoryRepository) Update(_ context.Context, link *links.Link) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[link.ID]; !ok {
		return auth.ErrNotFound
	}
	cp := *link
	r.items[link.ID] = &cp
	return nil
}

// Delete removes a link.
func (r *MemoryRepository) Delete(_ context.Context, id ulid.ULID) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return auth.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
