package sales

import (
	"time"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
)

type Payment string

const (
	PayCash     Payment = "cash"
	PayTransfer Payment = "transfer"
	PayCredit   Payment = "credit"
)

func ValidPayment(p Payment) bool {
	switch p {
	case PayCash, PayTransfer, PayCredit:
		return true
	}
	return false
}

// Origin distinguishes a sale the remote store has confirmed from one
// still waiting in the offline queue.
type Origin string

const (
	OriginConfirmed   Origin = "confirmed"
	OriginPendingSync Origin = "pending_sync"
)

type Item struct {
	ID        string    `json:"id"`
	SaleID    string    `json:"sale_id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"` // name snapshot at sale time
	Price     float64   `json:"price"`
	Qty       int       `json:"qty"`
	Subtotal  float64   `json:"subtotal"`
	Mode      cart.Mode `json:"mode,omitempty"`
	Deposit   float64   `json:"deposit"` // per-unit deposit charged, deposit mode only
}

// Sale is immutable once built. Items are part of the same logical unit
// even though the remote store keeps them as separate rows.
type Sale struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	Total     float64   `json:"total"` // after discount, floored at zero
	Tendered  float64   `json:"tendered"`
	Change    float64   `json:"change"`
	Payment   Payment   `json:"payment"`
	Discount  float64   `json:"discount"`
	Customer  string    `json:"customer,omitempty"`
	Cashier   string    `json:"cashier"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// DepositTotal is the refundable amount collected alongside Total.
// Derived from the items, never stored.
func (s *Sale) DepositTotal() float64 {
	var sum float64
	for _, it := range s.Items {
		if it.Mode == cart.ModeDeposit {
			sum += it.Deposit * float64(it.Qty)
		}
	}
	return sum
}

// Outstanding is the liability created when a customer takes a container
// against a deposit. Returned-status completion belongs to a collaborator
// outside this core.
type Outstanding struct {
	SaleID    string  `json:"sale_id"`
	ItemID    string  `json:"item_id"`
	ProductID string  `json:"product_id"`
	Customer  string  `json:"customer,omitempty"`
	Qty       int     `json:"qty"`
	Deposit   float64 `json:"deposit"` // total deposit held for this line
	Status    string  `json:"status"`
}

const (
	OutstandingPending  = "pending"
	OutstandingReturned = "returned"
)

// StockLog is one audit entry per stock mutation, tagged with why it
// happened and who rang it up.
type StockLog struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Change    int       `json:"change"`
	Stock     int       `json:"stock"` // level after the change
	Reason    string    `json:"reason"`
	User      string    `json:"user"`
	SaleID    string    `json:"sale_id,omitempty"`
	At        time.Time `json:"at"`
}

const (
	ReasonSale         = "sale"
	ReasonExchange     = "exchange"
	ReasonOutrightSale = "outright_sale"
	ReasonDepositSale  = "deposit_sale"
)

func auditReason(m cart.Mode) string {
	switch m {
	case cart.ModeExchange:
		return ReasonExchange
	case cart.ModeOutright:
		return ReasonOutrightSale
	case cart.ModeDeposit:
		return ReasonDepositSale
	default:
		return ReasonSale
	}
}
