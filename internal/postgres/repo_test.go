package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
	"github.com/ariefcatur/go-depot-pos.git/internal/postgres/testutil"
	"github.com/ariefcatur/go-depot-pos.git/internal/sales"
)

func seedProduct(t *testing.T, r *ProductRepo) catalog.Product {
	t.Helper()
	now := time.Now().UTC()
	p := catalog.Product{
		ID: uuid.NewString(), Name: "Gas Cylinder 12kg", Price: 300, Unit: "cylinder",
		Stock: 20, EmptyStock: 5, LowStockAt: 3, Deposit: 200,
		Returnable: true, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Upsert(context.Background(), p))
	return p
}

func TestProductRepoRoundTrip(t *testing.T) {
	db := testutil.OpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	r := &ProductRepo{DB: db}
	p := seedProduct(t, r)

	// upsert twice converges, not duplicates
	require.NoError(t, r.Upsert(ctx, p))
	out, err := r.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, out, 1)

	price := 320.0
	require.NoError(t, r.Update(ctx, catalog.Patch{ID: p.ID, Price: &price}))

	require.NoError(t, r.AddStock(ctx, p.ID, -50)) // clamped in SQL
	out, err = r.List(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 320.0, out[0].Price)
	require.Equal(t, 0, out[0].Stock)

	// soft delete drops it from the active list only
	require.NoError(t, r.SetActive(ctx, p.ID, false))
	out, err = r.List(ctx, true)
	require.NoError(t, err)
	require.Empty(t, out)
	out, err = r.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestSaleRepoInsertIsIdempotentByID(t *testing.T) {
	db := testutil.OpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	products := &ProductRepo{DB: db}
	p := seedProduct(t, products)

	r := &SaleRepo{DB: db}
	s := &sales.Sale{
		ID: uuid.NewString(), Total: 600, Tendered: 1000, Change: 400,
		Payment: sales.PayCash, Cashier: "ana", CreatedAt: time.Now().UTC(),
	}
	s.Items = []sales.Item{{
		ID: uuid.NewString(), SaleID: s.ID, ProductID: p.ID, Name: p.Name,
		Price: 300, Qty: 2, Subtotal: 600, Mode: cart.ModeDeposit, Deposit: 200,
	}}

	require.NoError(t, r.InsertSale(ctx, s))
	require.NoError(t, r.InsertSale(ctx, s)) // replay

	out, err := r.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Items, 1)
	require.Equal(t, 600.0, out[0].Total)
	require.Equal(t, cart.ModeDeposit, out[0].Items[0].Mode)
}

func TestContainerRepoOnePerItem(t *testing.T) {
	db := testutil.OpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	products := &ProductRepo{DB: db}
	p := seedProduct(t, products)

	saleRepo := &SaleRepo{DB: db}
	s := &sales.Sale{ID: uuid.NewString(), Payment: sales.PayCash, CreatedAt: time.Now().UTC()}
	itemID := uuid.NewString()
	s.Items = []sales.Item{{ID: itemID, SaleID: s.ID, ProductID: p.ID, Qty: 2, Mode: cart.ModeDeposit, Deposit: 200}}
	require.NoError(t, saleRepo.InsertSale(ctx, s))

	r := &ContainerRepo{DB: db}
	o := sales.Outstanding{
		SaleID: s.ID, ItemID: itemID, ProductID: p.ID,
		Qty: 2, Deposit: 400, Status: sales.OutstandingPending,
	}
	require.NoError(t, r.InsertOutstanding(ctx, o))
	require.NoError(t, r.InsertOutstanding(ctx, o)) // replay is a no-op

	var n int
	require.NoError(t, db.QueryRow(ctx,
		`SELECT COUNT(*) FROM outstanding_containers WHERE item_id=$1`, itemID).Scan(&n))
	require.Equal(t, 1, n)
}
