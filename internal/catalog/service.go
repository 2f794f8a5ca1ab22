package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-depot-pos.git/internal/syncq"
)

var ErrNotFound = errors.New("product not found")

// Remote is the product surface of the remote store.
type Remote interface {
	List(ctx context.Context, activeOnly bool) ([]Product, error)
	Upsert(ctx context.Context, p Product) error
	Update(ctx context.Context, in Patch) error
	SetActive(ctx context.Context, id string, active bool) error
}

// DeletePayload is the queued form of a soft delete.
type DeletePayload struct {
	ID string `json:"id"`
}

// Service applies catalog edits to the local snapshot first and then
// either writes through to the remote store or queues the mutation,
// depending on the connectivity gate.
type Service struct {
	Snap   *Snapshot
	Remote Remote
	Queue  *syncq.Queue
	Gate   *syncq.Gate
}

// Refresh replaces the snapshot with the remote store's active products.
func (s *Service) Refresh(ctx context.Context) error {
	ps, err := s.Remote.List(ctx, true)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	s.Snap.Replace(ps)
	return nil
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Active = true
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.Snap.Put(p)

	if !s.Gate.Online() {
		return p, s.enqueue(syncq.KindProductCreate, p)
	}
	if err := s.Remote.Upsert(ctx, p); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, in Patch) (Product, error) {
	p, ok := s.Snap.Patch(in)
	if !ok {
		return Product{}, ErrNotFound
	}
	if !s.Gate.Online() {
		return p, s.enqueue(syncq.KindProductUpdate, in)
	}
	if err := s.Remote.Update(ctx, in); err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete soft-deletes: the product is flagged inactive, never removed, so
// past sales keep a valid reference. Replaying the delete is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.Snap.SetActive(id, false) {
		return ErrNotFound
	}
	if !s.Gate.Online() {
		return s.enqueue(syncq.KindProductDelete, DeletePayload{ID: id})
	}
	if err := s.Remote.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (s *Service) enqueue(kind syncq.Kind, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := s.Queue.Enqueue(kind, b); err != nil {
		return err
	}
	return nil
}
