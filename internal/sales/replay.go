package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
	"github.com/ariefcatur/go-depot-pos.git/internal/syncq"
)

// Replayer delivers queued ops to the remote store. Every write is
// idempotent by id, so a duplicate delivery after a partial drain is a
// harmless no-op.
type Replayer struct {
	Sales      RemoteSales
	Products   catalog.Remote
	Stock      RemoteStock
	Audit      RemoteAudit
	Containers RemoteContainers
	History    *History
}

func (r *Replayer) Apply(ctx context.Context, op syncq.Op) error {
	switch op.Kind {
	case syncq.KindSale:
		return r.applySale(ctx, op)
	case syncq.KindProductCreate:
		var p catalog.Product
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return fmt.Errorf("decode product_create: %w", err)
		}
		return r.Products.Upsert(ctx, p)
	case syncq.KindProductUpdate:
		var in catalog.Patch
		if err := json.Unmarshal(op.Payload, &in); err != nil {
			return fmt.Errorf("decode product_update: %w", err)
		}
		return r.Products.Update(ctx, in)
	case syncq.KindProductDelete:
		var in catalog.DeletePayload
		if err := json.Unmarshal(op.Payload, &in); err != nil {
			return fmt.Errorf("decode product_delete: %w", err)
		}
		return r.Products.SetActive(ctx, in.ID, false)
	default:
		// unknown kinds are acked, not retried forever
		log.Printf("sales: dropping op %s with unknown kind %q", op.ID, op.Kind)
		return nil
	}
}

// applySale inserts the header+items payload, then runs the side effects
// the offline commit deferred. Side-effect failures after a durable
// insert are logged only, same policy as the online path, so a retry of
// this op cannot double-apply stock deltas.
func (r *Replayer) applySale(ctx context.Context, op syncq.Op) error {
	var s Sale
	if err := json.Unmarshal(op.Payload, &s); err != nil {
		return fmt.Errorf("decode sale: %w", err)
	}
	s.Origin = OriginConfirmed
	if err := r.Sales.InsertSale(ctx, &s); err != nil {
		return fmt.Errorf("replay sale %s: %w", s.ID, err)
	}

	for _, it := range s.Items {
		if err := r.Stock.AddStock(ctx, it.ProductID, -it.Qty); err != nil {
			log.Printf("sales: replay stock %s: %v", it.ProductID, err)
		}
		switch it.Mode {
		case cart.ModeExchange:
			if err := r.Stock.AddEmptyStock(ctx, it.ProductID, it.Qty); err != nil {
				log.Printf("sales: replay empty-stock %s: %v", it.ProductID, err)
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
			if err := r.Containers.InsertOutstanding(ctx, o); err != nil {
				log.Printf("sales: replay outstanding %s: %v", it.ID, err)
			}
		}
		entry := StockLog{
			ID:        it.ID, // stable per item, replay-safe
			ProductID: it.ProductID,
			Change:    -it.Qty,
			Reason:    auditReason(it.Mode),
			User:      s.Cashier,
			SaleID:    s.ID,
			At:        time.Now().UTC(),
		}
		if err := r.Audit.InsertStockLog(ctx, entry); err != nil {
			log.Printf("sales: replay stock log %s: %v", it.ProductID, err)
		}
	}

	if r.History != nil {
		r.History.Confirm(s.ID)
	}
	return nil
}
