package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-depot-pos.git/internal/sales"
)

type SaleRepo struct{ DB *pgxpool.Pool }

// InsertSale writes the header, then the items. The two writes are not
// wrapped in one transaction; items reference the header id defensively
// and both inserts are idempotent by id, so a replay after a partial
// failure completes the pair instead of duplicating it.
func (r *SaleRepo) InsertSale(ctx context.Context, s *sales.Sale) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO sales(id, total, tendered, change, payment, discount, customer, cashier, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING`,
		s.ID, s.Total, s.Tendered, s.Change, string(s.Payment), s.Discount, s.Customer, s.Cashier, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale %s: %w", s.ID, err)
	}
	for _, it := range s.Items {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO sale_items(id, sale_id, product_id, name, price, qty, subtotal, mode, deposit)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO NOTHING`,
			it.ID, s.ID, it.ProductID, it.Name, it.Price, it.Qty, it.Subtotal, string(it.Mode), it.Deposit)
		if err != nil {
			return fmt.Errorf("insert sale item %s: %w", it.ID, err)
		}
	}
	return nil
}

// List returns the newest sales first, items joined in.
func (r *SaleRepo) List(ctx context.Context, limit int) ([]sales.Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, total, tendered, change, payment, discount, customer, cashier, created_at
		FROM sales ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sales.Sale
	idx := map[string]int{}
	for rows.Next() {
		var s sales.Sale
		var payment string
		if err := rows.Scan(&s.ID, &s.Total, &s.Tendered, &s.Change, &payment,
			&s.Discount, &s.Customer, &s.Cashier, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Payment = sales.Payment(payment)
		s.Origin = sales.OriginConfirmed
		idx[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.ID)
	}
	irows, err := r.DB.Query(ctx, `
		SELECT id, sale_id, product_id, name, price, qty, subtotal, mode, deposit
		FROM sale_items WHERE sale_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var it sales.Item
		var mode string
		if err := irows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Name, &it.Price,
			&it.Qty, &it.Subtotal, &mode, &it.Deposit); err != nil {
			return nil, err
		}
		it.Mode = modeFromString(mode)
		if i, ok := idx[it.SaleID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, irows.Err()
}
