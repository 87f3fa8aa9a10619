package handlers

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tableside/internal/service"
)

type Handler struct {
	Tables *TablesHandler
	Orders *OrdersHandler
}

func New(svc *service.Service) *Handler {
	return &Handler{
		Tables: NewTablesHandler(svc.Tables, svc.Ledger, svc.Closer),
		Orders: NewOrdersHandler(svc.Ledger),
	}
}

// Router wires the JSON boundary. Needs Go 1.22+ ServeMux patterns. The ping
// functions come from the Postgres pool and the RabbitMQ client; /healthz
// reports degraded if either backend is gone.
func Router(h *Handler, dbPing func(context.Context) error, mqPing func() error) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /order/new", h.Orders.Create)
	mux.HandleFunc("GET /order/list", h.Orders.List)
	mux.HandleFunc("GET /order/history/{table_no}", h.Orders.History)
	mux.HandleFunc("GET /order/{id}", h.Orders.Get)
	// POST, not PUT: a PUT pattern here would collide with /order/item/{id}
	// in the mux's conflict rules.
	mux.HandleFunc("POST /order/{id}/status", h.Orders.UpdateStatus)
	mux.HandleFunc("PUT /order/item/{id}", h.Orders.UpdateItemQty)
	mux.HandleFunc("DELETE /order/item/{id}", h.Orders.DeleteItem)

	mux.HandleFunc("GET /tables", h.Tables.List)
	mux.HandleFunc("GET /tables/{table_no}/status", h.Tables.Status)
	mux.HandleFunc("GET /tables/{table_no}/items", h.Tables.Items)
	mux.HandleFunc("PUT /tables/{table_no}/state", h.Tables.SetState)
	mux.HandleFunc("POST /tables/{table_no}/close", h.Tables.Close)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbPing(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable,
				map[string]any{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := mqPing(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable,
				map[string]any{"status": "degraded", "rabbitmq": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	return mux
}
