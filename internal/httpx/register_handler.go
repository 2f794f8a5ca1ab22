package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
	"github.com/ariefcatur/go-depot-pos.git/internal/sales"
	"github.com/ariefcatur/go-depot-pos.git/internal/syncq"
)

// SaleLister is the read side of the remote sale store.
type SaleLister interface {
	List(ctx context.Context, limit int) ([]sales.Sale, error)
}

// RegisterHandler is the HTTP surface of one register session.
type RegisterHandler struct {
	Catalog   *catalog.Service
	Snap      *catalog.Snapshot
	Cart      *cart.Cart
	CartStore *cart.Store
	Committer *sales.Committer
	SaleList  SaleLister
	History   *sales.History
	Queue     *syncq.Queue
	Gate      *syncq.Gate
	Drainer   *syncq.Drainer
	Cashier   string // default acting user
}

func (h *RegisterHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)

	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addCartItem)
	r.Patch("/cart/items", h.setCartQuantity)
	r.Post("/cart/mode", h.setCartMode)
	r.Delete("/cart/items", h.removeCartItem)
	r.Delete("/cart", h.clearCart)

	r.Post("/checkout", h.checkout)
	r.Get("/sales", h.listSales)

	r.Get("/sync/status", h.syncStatus)
	r.Post("/connectivity", h.setConnectivity)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// ---- products ----

func (h *RegisterHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Snap.List())
}

func (h *RegisterHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if p.Name == "" || p.Price < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	out, err := h.Catalog.Create(ctx, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *RegisterHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	in.ID = chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	out, err := h.Catalog.Update(ctx, in)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RegisterHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	err := h.Catalog.Delete(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- cart ----

type cartItemReq struct {
	ProductID string    `json:"product_id"`
	Qty       int       `json:"qty"`
	Mode      cart.Mode `json:"mode"`
}

type cartView struct {
	Lines        []cart.Line `json:"lines"`
	Total        float64     `json:"total"`
	DepositTotal float64     `json:"deposit_total"`
}

func (h *RegisterHandler) view() cartView {
	return cartView{
		Lines:        h.Cart.Lines(),
		Total:        cart.Total(h.Snap, h.Cart),
		DepositTotal: cart.DepositTotal(h.Snap, h.Cart),
	}
}

func (h *RegisterHandler) persistCart() {
	if h.CartStore == nil {
		return
	}
	if err := h.CartStore.Save(h.Cart); err != nil {
		log.Printf("httpx: persist cart: %v", err)
	}
}

func (h *RegisterHandler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

func (h *RegisterHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !cart.ValidMode(req.Mode) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown sale mode"})
		return
	}
	p, ok := h.Snap.Get(req.ProductID)
	if !ok || !p.Active {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	h.Cart.Add(p, req.Qty, req.Mode)
	h.persistCart()
	writeJSON(w, http.StatusOK, h.view())
}

func (h *RegisterHandler) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	h.Cart.SetQuantity(req.ProductID, req.Mode, req.Qty)
	h.persistCart()
	writeJSON(w, http.StatusOK, h.view())
}

func (h *RegisterHandler) setCartMode(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !cart.ValidMode(req.Mode) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown sale mode"})
		return
	}
	h.Cart.SetMode(req.ProductID, req.Mode)
	h.persistCart()
	writeJSON(w, http.StatusOK, h.view())
}

func (h *RegisterHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	h.Cart.Remove(r.URL.Query().Get("product_id"), cart.Mode(r.URL.Query().Get("mode")))
	h.persistCart()
	writeJSON(w, http.StatusOK, h.view())
}

func (h *RegisterHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Cart.Clear()
	h.persistCart()
	writeJSON(w, http.StatusOK, h.view())
}

// ---- checkout & sales ----

func (h *RegisterHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var in sales.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if in.Cashier == "" {
		in.Cashier = h.Cashier
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	sale, err := h.Committer.Complete(ctx, in)
	switch {
	case errors.Is(err, sales.ErrEmptyCart),
		errors.Is(err, sales.ErrBadPayment),
		errors.Is(err, sales.ErrInsufficientPayment),
		errors.Is(err, sales.ErrUnknownProduct):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *RegisterHandler) listSales(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if !h.Gate.Online() {
		writeJSON(w, http.StatusOK, h.History.List(limit))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	out, err := h.SaleList.List(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// sales still waiting in the queue are not remote yet; surface them
	out = append(h.History.Pending(), out...)
	writeJSON(w, http.StatusOK, out)
}

// ---- sync ----

func (h *RegisterHandler) syncStatus(w http.ResponseWriter, r *http.Request) {
	queued, err := h.Queue.Len()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"online":   h.Gate.Online(),
		"queued":   queued,
		"draining": h.Drainer.Draining(),
		"last":     h.Drainer.Last(),
	})
}

func (h *RegisterHandler) setConnectivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Online bool `json:"online"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	h.Gate.SetOnline(req.Online)
	writeJSON(w, http.StatusOK, map[string]bool{"online": h.Gate.Online()})
}
