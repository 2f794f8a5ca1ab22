package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
	"github.com/ariefcatur/go-depot-pos.git/internal/sales"
)

type AuditRepo struct{ DB *pgxpool.Pool }

func (r *AuditRepo) InsertStockLog(ctx context.Context, e sales.StockLog) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO stock_logs(id, product_id, change, stock, reason, acted_by, sale_id, at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.ProductID, e.Change, e.Stock, e.Reason, e.User, e.SaleID, e.At)
	if err != nil {
		return fmt.Errorf("insert stock log: %w", err)
	}
	return nil
}

type ContainerRepo struct{ DB *pgxpool.Pool }

// InsertOutstanding keys on the sale item id, so a replayed sale creates
// exactly one record per deposit line.
func (r *ContainerRepo) InsertOutstanding(ctx context.Context, o sales.Outstanding) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO outstanding_containers(sale_id, item_id, product_id, customer, qty, deposit, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (item_id) DO NOTHING`,
		o.SaleID, o.ItemID, o.ProductID, o.Customer, o.Qty, o.Deposit, o.Status)
	if err != nil {
		return fmt.Errorf("insert outstanding container: %w", err)
	}
	return nil
}

func modeFromString(s string) cart.Mode {
	m := cart.Mode(s)
	if cart.ValidMode(m) {
		return m
	}
	return cart.ModeNone
}
