package cart

import (
	"sync"

	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
)

// Mode is how a returnable container changes hands at the point of sale.
// Empty means the product is a plain unit with no container involved.
type Mode string

const (
	ModeNone     Mode = ""
	ModeExchange Mode = "exchange" // empty surrendered, no deposit
	ModeDeposit  Mode = "deposit"  // deposit paid, container pending return
	ModeOutright Mode = "outright" // container bought permanently
)

func ValidMode(m Mode) bool {
	switch m {
	case ModeNone, ModeExchange, ModeDeposit, ModeOutright:
		return true
	}
	return false
}

// Line is one cart entry. The same product under two different modes is
// two distinct lines; (ProductID, Mode) is the merge key.
type Line struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Mode      Mode   `json:"mode"`
}

// Cart is the register session's working order. Purely local and
// synchronous; nothing here talks to the remote store.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart { return &Cart{} }

// Add merges qty into the line keyed by (product id, mode), appending a
// new line otherwise. Returnable products with no mode given default to
// exchange; non-returnable products always carry no mode.
func (c *Cart) Add(p catalog.Product, qty int, mode Mode) {
	if qty < 1 {
		qty = 1
	}
	if p.Returnable {
		if mode == ModeNone {
			mode = ModeExchange
		}
	} else {
		mode = ModeNone
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID && c.lines[i].Mode == mode {
			c.lines[i].Qty += qty
			return
		}
	}
	c.lines = append(c.lines, Line{ProductID: p.ID, Qty: qty, Mode: mode})
}

func (c *Cart) Remove(productID string, mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID, mode)
}

func (c *Cart) removeLocked(productID string, mode Mode) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID && c.lines[i].Mode == mode {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the line's quantity; qty <= 0 removes the line so a
// zero-quantity line never survives.
func (c *Cart) SetQuantity(productID string, mode Mode, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if qty <= 0 {
		c.removeLocked(productID, mode)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID && c.lines[i].Mode == mode {
			c.lines[i].Qty = qty
			return
		}
	}
}

// SetMode switches the first line of the product to a new mode. If a line
// with the target mode already exists the quantities merge into it.
func (c *Cart) SetMode(productID string, newMode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := -1
	dst := -1
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if c.lines[i].Mode == newMode {
			dst = i
		} else if src == -1 {
			src = i
		}
	}
	if src == -1 {
		return
	}
	if dst == -1 {
		c.lines[src].Mode = newMode
		return
	}
	c.lines[dst].Qty += c.lines[src].Qty
	c.lines = append(c.lines[:src], c.lines[src+1:]...)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Restore replaces the cart contents, used when reloading persisted state.
func (c *Cart) Restore(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append([]Line(nil), lines...)
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}
