package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
)

type ProductRepo struct{ DB *pgxpool.Pool }

func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]catalog.Product, error) {
	q := `SELECT id, name, price, unit, stock, empty_stock, low_stock_at,
	             deposit, outright_price, returnable, active, created_at, updated_at
	      FROM products`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY name`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Unit, &p.Stock, &p.EmptyStock,
			&p.LowStockAt, &p.Deposit, &p.OutrightPrice, &p.Returnable, &p.Active,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Upsert is idempotent by id; a queued create replayed twice converges on
// the same row.
func (r *ProductRepo) Upsert(ctx context.Context, p catalog.Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, price, unit, stock, empty_stock, low_stock_at,
		                     deposit, outright_price, returnable, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, price=EXCLUDED.price, unit=EXCLUDED.unit,
			stock=EXCLUDED.stock, empty_stock=EXCLUDED.empty_stock,
			low_stock_at=EXCLUDED.low_stock_at, deposit=EXCLUDED.deposit,
			outright_price=EXCLUDED.outright_price, returnable=EXCLUDED.returnable,
			active=EXCLUDED.active, updated_at=EXCLUDED.updated_at`,
		p.ID, p.Name, p.Price, p.Unit, p.Stock, p.EmptyStock, p.LowStockAt,
		p.Deposit, p.OutrightPrice, p.Returnable, p.Active, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update writes only the fields the patch carries.
func (r *ProductRepo) Update(ctx context.Context, in catalog.Patch) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE products SET
			name           = COALESCE($2, name),
			price          = COALESCE($3, price),
			unit           = COALESCE($4, unit),
			stock          = COALESCE($5, stock),
			empty_stock    = COALESCE($6, empty_stock),
			low_stock_at   = COALESCE($7, low_stock_at),
			deposit        = COALESCE($8, deposit),
			outright_price = COALESCE($9, outright_price),
			returnable     = COALESCE($10, returnable),
			updated_at     = now()
		WHERE id = $1`,
		in.ID, in.Name, in.Price, in.Unit, in.Stock, in.EmptyStock,
		in.LowStockAt, in.Deposit, in.OutrightPrice, in.Returnable)
	if err != nil {
		return fmt.Errorf("update product %s: %w", in.ID, err)
	}
	return nil
}

// SetActive is the soft delete; rows are never physically removed so sale
// history keeps valid references.
func (r *ProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.DB.Exec(ctx, `UPDATE products SET active=$2, updated_at=now() WHERE id=$1`, id, active)
	return err
}

func (r *ProductRepo) SetStock(ctx context.Context, id string, n int) error {
	_, err := r.DB.Exec(ctx, `UPDATE products SET stock=$2, updated_at=now() WHERE id=$1`, id, n)
	return err
}

func (r *ProductRepo) SetEmptyStock(ctx context.Context, id string, n int) error {
	_, err := r.DB.Exec(ctx, `UPDATE products SET empty_stock=$2, updated_at=now() WHERE id=$1`, id, n)
	return err
}

// AddStock applies a delta clamped at zero, for queue replay where the
// remote level may have moved since the sale was taken.
func (r *ProductRepo) AddStock(ctx context.Context, id string, delta int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE products SET stock=GREATEST(stock + $2, 0), updated_at=now() WHERE id=$1`, id, delta)
	return err
}

func (r *ProductRepo) AddEmptyStock(ctx context.Context, id string, delta int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE products SET empty_stock=GREATEST(empty_stock + $2, 0), updated_at=now() WHERE id=$1`, id, delta)
	return err
}
