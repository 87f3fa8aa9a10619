package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"tableside/internal/domain"
	"tableside/internal/service"
)

type OrdersHandler struct {
	ledger service.OrderLedgerServiceInterface
}

func NewOrdersHandler(ledger service.OrderLedgerServiceInterface) *OrdersHandler {
	return &OrdersHandler{ledger: ledger}
}

// POST /order/new
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, fmt.Errorf("%w: bad json", domain.ErrInvalidInput))
		return
	}
	orderID, err := h.ledger.CreateOrder(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.CreateOrderResponse{Success: true, OrderID: orderID})
}

// GET /order/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, fmt.Errorf("%w: bad order id", domain.ErrInvalidInput))
		return
	}
	order, items, err := h.ledger.GetOrder(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true, "order": order, "items": items,
	})
}

// GET /order/list
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.ListOrders(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GET /order/history/{table_no}?session=
func (h *OrdersHandler) History(w http.ResponseWriter, r *http.Request) {
	tableNo := r.PathValue("table_no")
	var sessionID *int64
	if raw := r.URL.Query().Get("session"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeErr(w, fmt.Errorf("%w: bad session", domain.ErrInvalidInput))
			return
		}
		sessionID = &n
	}
	orders, err := h.ledger.History(r.Context(), tableNo, sessionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// PUT /order/item/{id}
func (h *OrdersHandler) UpdateItemQty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, fmt.Errorf("%w: bad item id", domain.ErrInvalidInput))
		return
	}
	var body struct {
		Qty int `json:"qty"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, fmt.Errorf("%w: bad json", domain.ErrInvalidInput))
		return
	}
	upd, err := h.ledger.UpdateItemQty(r.Context(), id, body.Qty)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true, "subtotal": upd.Subtotal, "order_total": upd.OrderTotal,
	})
}

// DELETE /order/item/{id}
func (h *OrdersHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, fmt.Errorf("%w: bad item id", domain.ErrInvalidInput))
		return
	}
	del, err := h.ledger.DeleteItem(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	resp := map[string]any{"success": true, "order_deleted": del.OrderDeleted}
	if del.OrderTotal != nil {
		resp["order_total"] = *del.OrderTotal
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /order/{id}/status
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, fmt.Errorf("%w: bad order id", domain.ErrInvalidInput))
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, fmt.Errorf("%w: bad json", domain.ErrInvalidInput))
		return
	}
	if err := h.ledger.UpdateStatus(r.Context(), id, body.Status); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
