package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-depot-pos.git/internal/local"
	"github.com/ariefcatur/go-depot-pos.git/internal/syncq"
)

type fakeRemote struct {
	upserts     []Product
	updates     []Patch
	deactivated []string
}

func (f *fakeRemote) List(context.Context, bool) ([]Product, error) { return nil, nil }
func (f *fakeRemote) Upsert(_ context.Context, p Product) error {
	f.upserts = append(f.upserts, p)
	return nil
}
func (f *fakeRemote) Update(_ context.Context, in Patch) error {
	f.updates = append(f.updates, in)
	return nil
}
func (f *fakeRemote) SetActive(_ context.Context, id string, active bool) error {
	if !active {
		f.deactivated = append(f.deactivated, id)
	}
	return nil
}

func newService(t *testing.T, online bool) (*Service, *fakeRemote, *syncq.Queue) {
	t.Helper()
	db, err := local.Open(local.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	q, err := syncq.OpenQueue(db)
	require.NoError(t, err)
	remote := &fakeRemote{}
	svc := &Service{Snap: NewSnapshot(), Remote: remote, Queue: q, Gate: syncq.NewGate(online)}
	return svc, remote, q
}

func TestCreateOnlineWritesThrough(t *testing.T) {
	svc, remote, q := newService(t, true)

	p, err := svc.Create(context.Background(), Product{Name: "Gas", Price: 300})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.True(t, p.Active)
	require.Len(t, remote.upserts, 1)

	n, err := q.Len()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCreateOfflineQueuesAndUpdatesSnapshot(t *testing.T) {
	svc, remote, q := newService(t, false)

	p, err := svc.Create(context.Background(), Product{Name: "Gas", Price: 300})
	require.NoError(t, err)
	require.Empty(t, remote.upserts)

	_, ok := svc.Snap.Get(p.ID)
	require.True(t, ok)

	ops, err := q.Pending()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, syncq.KindProductCreate, ops[0].Kind)
}

func TestDeleteIsSoft(t *testing.T) {
	svc, remote, _ := newService(t, true)
	svc.Snap.Replace([]Product{{ID: "gas", Name: "Gas", Active: true}})

	require.NoError(t, svc.Delete(context.Background(), "gas"))
	require.Equal(t, []string{"gas"}, remote.deactivated)

	// still present, just inactive
	p, ok := svc.Snap.Get("gas")
	require.True(t, ok)
	require.False(t, p.Active)

	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestUpdateOfflineQueuesPatch(t *testing.T) {
	svc, _, q := newService(t, false)
	svc.Snap.Replace([]Product{{ID: "gas", Name: "Gas", Price: 300, Active: true}})

	price := 320.0
	p, err := svc.Update(context.Background(), Patch{ID: "gas", Price: &price})
	require.NoError(t, err)
	require.Equal(t, 320.0, p.Price)

	ops, err := q.Pending()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, syncq.KindProductUpdate, ops[0].Kind)
}
