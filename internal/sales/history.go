package sales

import "sync"

// History is the session's newest-first view of completed sales. It is a
// re-fetchable cache, not durable state; pending-sync entries get flipped
// to confirmed when the queue delivers them.
type History struct {
	mu    sync.Mutex
	sales []Sale
}

func NewHistory() *History { return &History{} }

func (h *History) Append(s Sale) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sales = append([]Sale{s}, h.sales...)
}

func (h *History) List(limit int) []Sale {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.sales)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Sale, n)
	copy(out, h.sales[:n])
	return out
}

// Confirm flips a pending-sync sale to confirmed after replay succeeds.
func (h *History) Confirm(saleID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.sales {
		if h.sales[i].ID == saleID {
			h.sales[i].Origin = OriginConfirmed
			return
		}
	}
}

// Pending returns sales still waiting on the queue, newest first.
func (h *History) Pending() []Sale {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Sale
	for _, s := range h.sales {
		if s.Origin == OriginPendingSync {
			out = append(out, s)
		}
	}
	return out
}
