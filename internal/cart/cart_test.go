package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
)

func testSnapshot() *catalog.Snapshot {
	snap := catalog.NewSnapshot()
	snap.Replace([]catalog.Product{
		{ID: "ice", Name: "Ice Block", Price: 20, Stock: 50, Active: true},
		{ID: "gas", Name: "Gas Cylinder 12kg", Price: 300, Deposit: 200, Stock: 20, Returnable: true, Active: true},
		{ID: "water", Name: "Water Gallon", Price: 25, Deposit: 100, OutrightPrice: 180, Stock: 30, Returnable: true, Active: true},
	})
	return snap
}

func TestAddMergesByProductAndMode(t *testing.T) {
	snap := testSnapshot()
	gas, _ := snap.Get("gas")

	c := New()
	c.Add(gas, 1, ModeExchange)
	c.Add(gas, 2, ModeExchange)
	c.Add(gas, 1, ModeDeposit)

	lines := c.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, Line{ProductID: "gas", Qty: 3, Mode: ModeExchange}, lines[0])
	require.Equal(t, Line{ProductID: "gas", Qty: 1, Mode: ModeDeposit}, lines[1])
}

func TestAddDefaultsReturnableToExchange(t *testing.T) {
	snap := testSnapshot()
	gas, _ := snap.Get("gas")
	ice, _ := snap.Get("ice")

	c := New()
	c.Add(gas, 1, ModeNone)
	c.Add(ice, 1, ModeDeposit) // not returnable, mode is stripped

	lines := c.Lines()
	require.Equal(t, ModeExchange, lines[0].Mode)
	require.Equal(t, ModeNone, lines[1].Mode)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	snap := testSnapshot()
	ice, _ := snap.Get("ice")

	c := New()
	c.Add(ice, 3, ModeNone)
	c.SetQuantity("ice", ModeNone, 0)
	require.True(t, c.Empty())

	c.Add(ice, 3, ModeNone)
	c.SetQuantity("ice", ModeNone, -2)
	require.True(t, c.Empty())
}

func TestSetModeMergesIntoExistingLine(t *testing.T) {
	snap := testSnapshot()
	gas, _ := snap.Get("gas")

	c := New()
	c.Add(gas, 2, ModeExchange)
	c.Add(gas, 1, ModeDeposit)

	c.SetMode("gas", ModeDeposit)
	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].Qty)
	require.Equal(t, ModeDeposit, lines[0].Mode)
}

func TestSetModeSwitchesSingleLine(t *testing.T) {
	snap := testSnapshot()
	gas, _ := snap.Get("gas")

	c := New()
	c.Add(gas, 2, ModeExchange)
	c.SetMode("gas", ModeOutright)

	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, ModeOutright, lines[0].Mode)
}

func TestTotalIceScenario(t *testing.T) {
	// cart = [{ice, qty 3, price 20}] -> total 60
	snap := testSnapshot()
	ice, _ := snap.Get("ice")

	c := New()
	c.Add(ice, 3, ModeNone)
	require.Equal(t, 60.0, Total(snap, c))
	require.Equal(t, 0.0, DepositTotal(snap, c))
}

func TestTotalExcludesDeposit(t *testing.T) {
	// gas qty 2 deposit mode: total 600, deposit collected 400
	snap := testSnapshot()
	gas, _ := snap.Get("gas")

	c := New()
	c.Add(gas, 2, ModeDeposit)
	require.Equal(t, 600.0, Total(snap, c))
	require.Equal(t, 400.0, DepositTotal(snap, c))
}

func TestTotalOutrightUsesConfiguredPrice(t *testing.T) {
	snap := testSnapshot()
	water, _ := snap.Get("water")

	c := New()
	c.Add(water, 2, ModeOutright)
	require.Equal(t, 360.0, Total(snap, c)) // 2 * configured 180
}

func TestTotalOutrightFallsBackToDerivedPrice(t *testing.T) {
	snap := testSnapshot()
	gas, _ := snap.Get("gas")

	c := New()
	c.Add(gas, 1, ModeOutright)
	// price 300 + deposit 200 + markup
	require.Equal(t, 300+200+catalog.OutrightMarkup, Total(snap, c))
}

func TestDepositTotalIgnoresExchangeAndOutright(t *testing.T) {
	snap := testSnapshot()
	gas, _ := snap.Get("gas")
	water, _ := snap.Get("water")

	c := New()
	c.Add(gas, 2, ModeExchange)
	c.Add(water, 1, ModeOutright)
	require.Equal(t, 0.0, DepositTotal(snap, c))
}
