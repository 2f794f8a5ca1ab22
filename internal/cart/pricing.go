package cart

import "github.com/ariefcatur/go-depot-pos.git/internal/catalog"

// UnitPrice is the per-unit charge for a line. Outright lines use the
// resolved outright price; everything else uses the plain unit price.
// Deposits are never part of the unit price.
func UnitPrice(p catalog.Product, mode Mode) float64 {
	if mode == ModeOutright {
		return catalog.OutrightPrice(p)
	}
	return p.Price
}

// Subtotal charges one line against the snapshot. Lines whose product is
// missing from the snapshot contribute nothing.
func Subtotal(snap *catalog.Snapshot, l Line) float64 {
	p, ok := snap.Get(l.ProductID)
	if !ok {
		return 0
	}
	return UnitPrice(p, l.Mode) * float64(l.Qty)
}

// Total sums every line's subtotal. Deposit amounts are excluded.
func Total(snap *catalog.Snapshot, c *Cart) float64 {
	var sum float64
	for _, l := range c.Lines() {
		sum += Subtotal(snap, l)
	}
	return sum
}

// DepositTotal sums deposit * qty over deposit-mode lines only. Presented
// to the cashier as money collected on top of Total.
func DepositTotal(snap *catalog.Snapshot, c *Cart) float64 {
	var sum float64
	for _, l := range c.Lines() {
		if l.Mode != ModeDeposit {
			continue
		}
		if p, ok := snap.Get(l.ProductID); ok {
			sum += p.Deposit * float64(l.Qty)
		}
	}
	return sum
}
