package handlers

import (
	"fmt"
	"net/http"

	"tableside/internal/domain"
	"tableside/internal/service"
)

type TablesHandler struct {
	registry service.TableRegistryServiceInterface
	ledger   service.OrderLedgerServiceInterface
	closer   service.SessionCloserServiceInterface
}

func NewTablesHandler(
	registry service.TableRegistryServiceInterface,
	ledger service.OrderLedgerServiceInterface,
	closer service.SessionCloserServiceInterface,
) *TablesHandler {
	return &TablesHandler{registry: registry, ledger: ledger, closer: closer}
}

// GET /tables
func (h *TablesHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.registry.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// GET /tables/{table_no}/status
func (h *TablesHandler) Status(w http.ResponseWriter, r *http.Request) {
	t, err := h.registry.GetStatus(r.Context(), r.PathValue("table_no"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active": t.IsActive, "session_id": t.SessionID,
	})
}

// PUT /tables/{table_no}/state
func (h *TablesHandler) SetState(w http.ResponseWriter, r *http.Request) {
	var body struct {
		State int `json:"state"`
	}
	if err := decode(r, &body); err != nil {
		writeErr(w, fmt.Errorf("%w: bad json", domain.ErrInvalidInput))
		return
	}
	if err := h.registry.SetState(r.Context(), r.PathValue("table_no"), body.State); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GET /tables/{table_no}/items
func (h *TablesHandler) Items(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.TableItems(r.Context(), r.PathValue("table_no"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"items":       items.Items,
		"total_items": items.TotalItems,
		"total_price": items.TotalPrice,
	})
}

// POST /tables/{table_no}/close
func (h *TablesHandler) Close(w http.ResponseWriter, r *http.Request) {
	rcpt, err := h.closer.CloseSession(r.Context(), r.PathValue("table_no"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"table_no":    rcpt.TableNo,
		"session_id":  rcpt.SessionID,
		"items":       rcpt.Items,
		"total_items": rcpt.TotalItems,
		"total_price": rcpt.TotalPrice,
		"created_at":  rcpt.CreatedAt,
	})
}
