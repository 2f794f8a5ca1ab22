package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutrightPrice(t *testing.T) {
	configured := Product{Price: 25, Deposit: 100, OutrightPrice: 180}
	require.Equal(t, 180.0, OutrightPrice(configured))

	derived := Product{Price: 300, Deposit: 200}
	require.Equal(t, 300+200+OutrightMarkup, OutrightPrice(derived))
}

func TestAddStockClampsAtZero(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace([]Product{{ID: "gas", Stock: 2, Active: true}})

	n, ok := snap.AddStock("gas", -5)
	require.True(t, ok)
	require.Equal(t, 0, n)

	p, _ := snap.Get("gas")
	require.Equal(t, 0, p.Stock)

	_, ok = snap.AddStock("missing", -1)
	require.False(t, ok)
}

func TestAddEmptyStockClampsAtZero(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace([]Product{{ID: "gas", EmptyStock: 1, Active: true}})

	n, _ := snap.AddEmptyStock("gas", -3)
	require.Equal(t, 0, n)
	n, _ = snap.AddEmptyStock("gas", 4)
	require.Equal(t, 4, n)
}

func TestListSkipsInactive(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace([]Product{
		{ID: "a", Name: "B", Active: true},
		{ID: "b", Name: "A", Active: true},
		{ID: "c", Name: "C", Active: false},
	})
	out := snap.List()
	require.Len(t, out, 2)
	require.Equal(t, "A", out[0].Name) // sorted by name
}

func TestLowStock(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace([]Product{
		{ID: "a", Name: "Ice", Stock: 3, LowStockAt: 5, Active: true},
		{ID: "b", Name: "Gas", Stock: 10, LowStockAt: 5, Active: true},
		{ID: "c", Name: "Water", Stock: 0, LowStockAt: 0, Active: true}, // threshold unset
	})
	low := snap.LowStock()
	require.Len(t, low, 1)
	require.Equal(t, "a", low[0].ID)
}

func TestPatchAppliesOnlySetFields(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace([]Product{{ID: "gas", Name: "Gas", Price: 300, Deposit: 200, Active: true}})

	price := 320.0
	p, ok := snap.Patch(Patch{ID: "gas", Price: &price})
	require.True(t, ok)
	require.Equal(t, 320.0, p.Price)
	require.Equal(t, "Gas", p.Name)
	require.Equal(t, 200.0, p.Deposit)

	_, ok = snap.Patch(Patch{ID: "missing"})
	require.False(t, ok)
}
