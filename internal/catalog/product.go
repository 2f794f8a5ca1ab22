package catalog

import "time"

// OutrightMarkup is added on top of price+deposit when a returnable product
// has no configured outright price.
const OutrightMarkup = 50.0

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Unit          string    `json:"unit"` // e.g. "cylinder", "block", "gallon"
	Stock         int       `json:"stock"`
	EmptyStock    int       `json:"empty_stock"` // empties on hand; meaningful only when Returnable
	LowStockAt    int       `json:"low_stock_at"`
	Deposit       float64   `json:"deposit"`
	OutrightPrice float64   `json:"outright_price"` // 0 = derive from price+deposit+markup
	Returnable    bool      `json:"returnable"`     // sold in a returnable container
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OutrightPrice resolves the price for selling the container outright.
// Derived, never persisted, so a later deposit change can't drift it.
func OutrightPrice(p Product) float64 {
	if p.OutrightPrice > 0 {
		return p.OutrightPrice
	}
	return p.Price + p.Deposit + OutrightMarkup
}

// Patch is a partial product update; nil fields are left untouched.
type Patch struct {
	ID            string   `json:"id"`
	Name          *string  `json:"name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	EmptyStock    *int     `json:"empty_stock,omitempty"`
	LowStockAt    *int     `json:"low_stock_at,omitempty"`
	Deposit       *float64 `json:"deposit,omitempty"`
	OutrightPrice *float64 `json:"outright_price,omitempty"`
	Returnable    *bool    `json:"returnable,omitempty"`
}

func (p *Product) ApplyPatch(in Patch) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.EmptyStock != nil {
		p.EmptyStock = *in.EmptyStock
	}
	if in.LowStockAt != nil {
		p.LowStockAt = *in.LowStockAt
	}
	if in.Deposit != nil {
		p.Deposit = *in.Deposit
	}
	if in.OutrightPrice != nil {
		p.OutrightPrice = *in.OutrightPrice
	}
	if in.Returnable != nil {
		p.Returnable = *in.Returnable
	}
	p.UpdatedAt = time.Now().UTC()
}
