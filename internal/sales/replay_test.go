package sales

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
	"github.com/ariefcatur/go-depot-pos.git/internal/syncq"
)

// fakeProducts implements catalog.Remote over a map.
type fakeProducts struct {
	products map[string]*catalog.Product
}

func (f *fakeProducts) List(context.Context, bool) ([]catalog.Product, error) { return nil, nil }
func (f *fakeProducts) Upsert(_ context.Context, p catalog.Product) error {
	f.products[p.ID] = &p
	return nil
}
func (f *fakeProducts) Update(_ context.Context, in catalog.Patch) error {
	if p, ok := f.products[in.ID]; ok {
		p.ApplyPatch(in)
	}
	return nil
}
func (f *fakeProducts) SetActive(_ context.Context, id string, active bool) error {
	if p, ok := f.products[id]; ok {
		p.Active = active
	}
	return nil
}

func newReplayer() (*Replayer, *fakeRemote, *fakeProducts, *History) {
	remote := newFakeRemote()
	products := &fakeProducts{products: map[string]*catalog.Product{}}
	hist := NewHistory()
	r := &Replayer{
		Sales:      remote,
		Products:   products,
		Stock:      remote,
		Audit:      remote,
		Containers: remote,
		History:    hist,
	}
	return r, remote, products, hist
}

func saleOp(t *testing.T, s Sale) syncq.Op {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return syncq.Op{ID: "op-1", Kind: syncq.KindSale, Payload: b}
}

func TestReplaySaleRunsDeferredSideEffects(t *testing.T) {
	r, remote, _, hist := newReplayer()
	remote.stock["gas"] = 20
	remote.empty["gas"] = 5

	s := Sale{
		ID:       "sale-1",
		Total:    600,
		Payment:  PayCash,
		Customer: "ibu sari",
		Cashier:  "ana",
		Origin:   OriginPendingSync,
		Items: []Item{
			{ID: "item-1", SaleID: "sale-1", ProductID: "gas", Name: "Gas", Price: 300, Qty: 2, Subtotal: 600, Mode: cart.ModeDeposit, Deposit: 200},
		},
		CreatedAt: time.Now().UTC(),
	}
	hist.Append(s)

	require.NoError(t, r.Apply(context.Background(), saleOp(t, s)))

	require.Len(t, remote.sales, 1)
	require.Equal(t, OriginConfirmed, remote.sales[0].Origin)
	require.Equal(t, 18, remote.stock["gas"])
	require.Len(t, remote.outstanding, 1)
	require.Equal(t, 400.0, remote.outstanding[0].Deposit)
	require.Len(t, remote.logs, 1)
	require.Equal(t, ReasonDepositSale, remote.logs[0].Reason)

	// the optimistic history entry is now indistinguishable from a
	// normally-created sale
	require.Empty(t, hist.Pending())
	require.Equal(t, OriginConfirmed, hist.List(1)[0].Origin)
}

func TestReplaySaleExchangeMode(t *testing.T) {
	r, remote, _, _ := newReplayer()
	remote.stock["gas"] = 10

	s := Sale{
		ID: "sale-2",
		Items: []Item{
			{ID: "item-2", ProductID: "gas", Qty: 3, Mode: cart.ModeExchange},
		},
	}
	require.NoError(t, r.Apply(context.Background(), saleOp(t, s)))
	require.Equal(t, 7, remote.stock["gas"])
	require.Equal(t, 3, remote.empty["gas"])
	require.Empty(t, remote.outstanding)
}

func TestReplayProductDeleteIsIdempotent(t *testing.T) {
	r, _, products, _ := newReplayer()
	products.products["gas"] = &catalog.Product{ID: "gas", Active: true}

	op := syncq.Op{
		ID:      "op-del",
		Kind:    syncq.KindProductDelete,
		Payload: json.RawMessage(`{"id":"gas"}`),
	}
	require.NoError(t, r.Apply(context.Background(), op))
	require.NoError(t, r.Apply(context.Background(), op))
	require.False(t, products.products["gas"].Active)
}

func TestReplayProductCreateAndUpdate(t *testing.T) {
	r, _, products, _ := newReplayer()

	create := syncq.Op{
		Kind:    syncq.KindProductCreate,
		Payload: json.RawMessage(`{"id":"ice","name":"Ice Block","price":20,"active":true}`),
	}
	require.NoError(t, r.Apply(context.Background(), create))
	require.Equal(t, "Ice Block", products.products["ice"].Name)

	update := syncq.Op{
		Kind:    syncq.KindProductUpdate,
		Payload: json.RawMessage(`{"id":"ice","price":22}`),
	}
	require.NoError(t, r.Apply(context.Background(), update))
	require.Equal(t, 22.0, products.products["ice"].Price)
}

func TestReplayUnknownKindIsDropped(t *testing.T) {
	r, _, _, _ := newReplayer()
	op := syncq.Op{ID: "op-x", Kind: "mystery", Payload: json.RawMessage(`{}`)}
	require.NoError(t, r.Apply(context.Background(), op))
}
