package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
	"github.com/ariefcatur/go-depot-pos.git/internal/notify"
	"github.com/ariefcatur/go-depot-pos.git/internal/syncq"
)

// Validation failures; no sale is created and nothing is retried.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrUnknownProduct      = errors.New("product not in catalog")
	ErrBadPayment          = errors.New("unknown payment method")
	ErrInsufficientPayment = errors.New("tendered amount below total")
)

// RemoteSales writes the sale header and its items. Inserts must be
// idempotent by id so queue replay can deliver at-least-once safely.
type RemoteSales interface {
	InsertSale(ctx context.Context, s *Sale) error
}

// RemoteStock mutates remote stock levels. Set* writes the value the
// snapshot computed; Add* applies a clamped delta during queue replay.
type RemoteStock interface {
	SetStock(ctx context.Context, id string, n int) error
	SetEmptyStock(ctx context.Context, id string, n int) error
	AddStock(ctx context.Context, id string, delta int) error
	AddEmptyStock(ctx context.Context, id string, delta int) error
}

type RemoteAudit interface {
	InsertStockLog(ctx context.Context, e StockLog) error
}

type RemoteContainers interface {
	InsertOutstanding(ctx context.Context, o Outstanding) error
}

type CheckoutInput struct {
	Payment  Payment `json:"payment"`
	Tendered float64 `json:"tendered"`
	Discount float64 `json:"discount"`
	Customer string  `json:"customer"`
	Cashier  string  `json:"cashier"`
}

// Committer turns the open cart into a settled sale: validate payment,
// persist header+items (direct or queued), then run per-line stock,
// container and audit side effects.
type Committer struct {
	Snap       *catalog.Snapshot
	Cart       *cart.Cart
	CartStore  *cart.Store // optional; persists the cleared cart
	Sales      RemoteSales
	Stock      RemoteStock
	Audit      RemoteAudit
	Containers RemoteContainers
	Queue      *syncq.Queue
	Gate       *syncq.Gate
	Notify     notify.Notifier
	History    *History

	DailyTarget float64

	mu          sync.Mutex
	day         string
	dayTotal    float64
	targetFired bool
}

// Complete runs the checkout state machine. Checkouts are serialized;
// the cart belongs to one register session.
func (c *Committer) Complete(ctx context.Context, in CheckoutInput) (*Sale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	phase := PhaseIdle
	step := func(to Phase) {
		if !CanTransition(phase, to) {
			log.Printf("sales: bad phase transition %s -> %s", phase, to)
		}
		phase = to
	}

	step(PhaseValidating)
	sale, err := c.build(in)
	if err != nil {
		step(PhaseFailed)
		return nil, err
	}

	step(PhasePersisting)
	if !c.Gate.Online() {
		// Queue the whole sale as one op and settle optimistically.
		// Side effects against the remote store happen at replay.
		sale.Origin = OriginPendingSync
		if err := c.enqueue(sale); err != nil {
			step(PhaseFailed)
			return nil, err
		}
		c.applyLocalStock(sale)
		step(PhaseSettled)
		c.settle(ctx, sale)
		return sale, nil
	}

	if err := c.Sales.InsertSale(ctx, sale); err != nil {
		// no side effects after a failed persist; nothing to roll back
		step(PhaseFailed)
		return nil, fmt.Errorf("persist sale: %w", err)
	}
	sale.Origin = OriginConfirmed

	step(PhaseSideEffects)
	c.sideEffects(ctx, sale)

	step(PhaseSettled)
	c.settle(ctx, sale)
	return sale, nil
}

// build freezes prices from the snapshot and validates payment. Returns
// only validation errors; nothing is persisted here.
func (c *Committer) build(in CheckoutInput) (*Sale, error) {
	lines := c.Cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !ValidPayment(in.Payment) {
		return nil, ErrBadPayment
	}

	saleID := uuid.NewString()
	items := make([]Item, 0, len(lines))
	var total float64
	for _, l := range lines {
		p, ok := c.Snap.Get(l.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, l.ProductID)
		}
		it := Item{
			ID:        uuid.NewString(),
			SaleID:    saleID,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     cart.UnitPrice(p, l.Mode),
			Qty:       l.Qty,
			Mode:      l.Mode,
		}
		it.Subtotal = it.Price * float64(it.Qty)
		if l.Mode == cart.ModeDeposit {
			it.Deposit = p.Deposit
		}
		total += it.Subtotal
		items = append(items, it)
	}

	total -= in.Discount
	if total < 0 {
		total = 0
	}

	tendered := in.Tendered
	change := 0.0
	switch in.Payment {
	case PayCash:
		if tendered < total {
			return nil, fmt.Errorf("%w: tendered %.2f, total %.2f", ErrInsufficientPayment, tendered, total)
		}
		change = tendered - total
	default:
		// transfer/credit settle for the exact amount
		tendered = total
	}

	return &Sale{
		ID:        saleID,
		Items:     items,
		Total:     total,
		Tendered:  tendered,
		Change:    change,
		Payment:   in.Payment,
		Discount:  in.Discount,
		Customer:  in.Customer,
		Cashier:   in.Cashier,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (c *Committer) enqueue(s *Sale) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := c.Queue.Enqueue(syncq.KindSale, b); err != nil {
		return fmt.Errorf("queue sale: %w", err)
	}
	return nil
}

// sideEffects runs once per item, in cart order. Each failure is logged
// and skipped: the sale is already durable and money has changed hands,
// so nothing here rolls it back.
func (c *Committer) sideEffects(ctx context.Context, s *Sale) {
	for _, it := range s.Items {
		newStock, ok := c.Snap.AddStock(it.ProductID, -it.Qty)
		if !ok {
			log.Printf("sales: side effect: product %s missing from snapshot", it.ProductID)
			continue
		}
		if err := c.Stock.SetStock(ctx, it.ProductID, newStock); err != nil {
			log.Printf("sales: stock write %s: %v", it.ProductID, err)
		}

		switch it.Mode {
		case cart.ModeExchange:
			newEmpty, _ := c.Snap.AddEmptyStock(it.ProductID, it.Qty)
			if err := c.Stock.SetEmptyStock(ctx, it.ProductID, newEmpty); err != nil {
				log.Printf("sales: empty-stock write %s: %v", it.ProductID, err)
			}
		case cart.ModeDeposit:
			o := Outstanding{
				SaleID:    s.ID,
				ItemID:    it.ID,
				ProductID: it.ProductID,
				Customer:  s.Customer,
				Qty:       it.Qty,
				Deposit:   it.Deposit * float64(it.Qty),
				Status:    OutstandingPending,
			}
			if err := c.Containers.InsertOutstanding(ctx, o); err != nil {
				log.Printf("sales: outstanding container %s: %v", it.ID, err)
			}
		}

		entry := StockLog{
			ID:        uuid.NewString(),
			ProductID: it.ProductID,
			Change:    -it.Qty,
			Stock:     newStock,
			Reason:    auditReason(it.Mode),
			User:      s.Cashier,
			SaleID:    s.ID,
			At:        time.Now().UTC(),
		}
		if err := c.Audit.InsertStockLog(ctx, entry); err != nil {
			log.Printf("sales: stock log %s: %v", it.ProductID, err)
		}
	}
}

// applyLocalStock keeps the snapshot honest while offline; the remote
// side effects run when the queue replays the sale.
func (c *Committer) applyLocalStock(s *Sale) {
	for _, it := range s.Items {
		c.Snap.AddStock(it.ProductID, -it.Qty)
		if it.Mode == cart.ModeExchange {
			c.Snap.AddEmptyStock(it.ProductID, it.Qty)
		}
	}
}

func (c *Committer) settle(ctx context.Context, s *Sale) {
	c.History.Append(*s)
	c.Cart.Clear()
	if c.CartStore != nil {
		if err := c.CartStore.Save(c.Cart); err != nil {
			log.Printf("sales: persist cart: %v", err)
		}
	}
	c.trackTarget(ctx, s)
	if c.Notify == nil {
		return
	}
	// fire-and-forget; never blocks or fails the sale
	items := lowStockItems(c.Snap)
	go c.Notify.StockLow(context.WithoutCancel(ctx), items)
}

func (c *Committer) trackTarget(ctx context.Context, s *Sale) {
	day := s.CreatedAt.Format("2006-01-02")
	if day != c.day {
		c.day = day
		c.dayTotal = 0
		c.targetFired = false
	}
	c.dayTotal += s.Total
	if c.DailyTarget > 0 && !c.targetFired && c.dayTotal >= c.DailyTarget {
		c.targetFired = true
		if c.Notify != nil {
			go c.Notify.TargetReached(context.WithoutCancel(ctx), day, c.dayTotal, c.DailyTarget)
		}
	}
}

func lowStockItems(snap *catalog.Snapshot) []notify.LowStockItem {
	low := snap.LowStock()
	out := make([]notify.LowStockItem, 0, len(low))
	for _, p := range low {
		out = append(out, notify.LowStockItem{ProductID: p.ID, Name: p.Name, Stock: p.Stock, Threshold: p.LowStockAt})
	}
	return out
}
