package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cafe-tab/internal/domain"
	"cafe-tab/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Commands service.CommandService
	Queues   service.QueryService
	QR       service.QRGenerator
}

func NewHandler(commands service.CommandService, queues service.QueryService, qr service.QRGenerator) *Handler {
	return &Handler{Commands: commands, Queues: queues, QR: qr}
}

func (h *Handler) RegisterCommandRoutes(r *mux.Router) {
	r.HandleFunc("/api/tabs", h.openTab).Methods("POST")
	r.HandleFunc("/api/tabs/{tabId}", h.getTab).Methods("GET")
	r.HandleFunc("/api/tabs/{tabId}/events", h.getEvents).Methods("GET")
	r.HandleFunc("/api/tabs/{tabId}/orders", h.placeOrder).Methods("POST")
	r.HandleFunc("/api/tabs/{tabId}/food/prepared", h.markFoodPrepared).Methods("POST")
	r.HandleFunc("/api/tabs/{tabId}/food/served", h.markFoodServed).Methods("POST")
	r.HandleFunc("/api/tabs/{tabId}/drinks/served", h.markDrinksServed).Methods("POST")
	r.HandleFunc("/api/tabs/{tabId}/close", h.closeTab).Methods("POST")
	r.HandleFunc("/api/tabs/{tabId}/replay", h.replay).Methods("POST")
	r.HandleFunc("/api/tabs/{tabId}/qrcode", h.qrCode).Methods("GET")
}

func (h *Handler) RegisterQueryRoutes(r *mux.Router) {
	r.HandleFunc("/api/kitchen/queue", h.kitchenQueue).Methods("GET")
	r.HandleFunc("/api/kitchen/queue/{tabId}", h.kitchenTab).Methods("GET")
	r.HandleFunc("/api/waiter/queue", h.waiterQueue).Methods("GET")
	r.HandleFunc("/api/waiter/queue/{tabId}", h.waiterTab).Methods("GET")
	r.HandleFunc("/api/waiters/{waiterId}/queue", h.waiterTodo).Methods("GET")
	r.HandleFunc("/api/tables", h.activeTables).Methods("GET")
	r.HandleFunc("/api/tables/{table}/invoice", h.tableInvoice).Methods("GET")
}

type commandResponse struct {
	TabID  domain.TabID      `json:"tab_id"`
	Events []domain.Envelope `json:"events"`
}

func (h *Handler) openTab(w http.ResponseWriter, r *http.Request) {
	var req openTabRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd, err := req.command()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, envs, err := h.Commands.Execute(r.Context(), domain.TabID{}, cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commandResponse{TabID: id, Events: envs})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	h.execute(w, r, &req)
}

func (h *Handler) markFoodPrepared(w http.ResponseWriter, r *http.Request) {
	req := menuNumbersRequest{build: func(n []int) domain.Command { return domain.MarkFoodPrepared{MenuNumbers: n} }}
	h.execute(w, r, &req)
}

func (h *Handler) markFoodServed(w http.ResponseWriter, r *http.Request) {
	req := menuNumbersRequest{build: func(n []int) domain.Command { return domain.MarkFoodServed{MenuNumbers: n} }}
	h.execute(w, r, &req)
}

func (h *Handler) markDrinksServed(w http.ResponseWriter, r *http.Request) {
	req := menuNumbersRequest{build: func(n []int) domain.Command { return domain.MarkDrinksServed{MenuNumbers: n} }}
	h.execute(w, r, &req)
}

func (h *Handler) closeTab(w http.ResponseWriter, r *http.Request) {
	var req closeTabRequest
	h.execute(w, r, &req)
}

// execute decodes a command body and runs it against the tab in the path.
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, req commandRequest) {
	id, err := tabIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := decode(r, req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd, err := req.command()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, envs, err := h.Commands.Execute(r.Context(), id, cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	if envs == nil {
		envs = []domain.Envelope{}
	}
	writeJSON(w, http.StatusOK, commandResponse{TabID: id, Events: envs})
}

func (h *Handler) getTab(w http.ResponseWriter, r *http.Request) {
	id, err := tabIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state, err := h.Commands.State(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) getEvents(w http.ResponseWriter, r *http.Request) {
	id, err := tabIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	envs, err := h.Commands.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envs)
}

func (h *Handler) replay(w http.ResponseWriter, r *http.Request) {
	id, err := tabIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n, err := h.Commands.Redeliver(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tab_id": id, "redelivered": n})
}

func (h *Handler) qrCode(w http.ResponseWriter, r *http.Request) {
	id, err := tabIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.Commands.State(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	png, err := h.QR.Generate(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) kitchenQueue(w http.ResponseWriter, r *http.Request) {
	tabs, err := h.Queues.KitchenQueue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tabs)
}

func (h *Handler) kitchenTab(w http.ResponseWriter, r *http.Request) {
	id, err := tabIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tab, err := h.Queues.KitchenTab(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tab)
}

func (h *Handler) waiterQueue(w http.ResponseWriter, r *http.Request) {
	tabs, err := h.Queues.WaiterQueue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tabs)
}

func (h *Handler) waiterTab(w http.ResponseWriter, r *http.Request) {
	id, err := tabIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tab, err := h.Queues.WaiterTab(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tab)
}

func (h *Handler) waiterTodo(w http.ResponseWriter, r *http.Request) {
	waiterID, err := domain.ParseWaiterID(mux.Vars(r)["waiterId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tabs, err := h.Queues.WaiterTodo(r.Context(), waiterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tabs)
}

func (h *Handler) activeTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Queues.ActiveTables(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

func (h *Handler) tableInvoice(w http.ResponseWriter, r *http.Request) {
	table, err := strconv.Atoi(mux.Vars(r)["table"])
	if err != nil || table <= 0 {
		http.Error(w, "invalid table number", http.StatusBadRequest)
		return
	}
	invoice, err := h.Queues.InvoiceForTable(r.Context(), table)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceResponse{TabInvoice: invoice, Total: invoice.Total()})
}

func tabIDFromPath(r *http.Request) (domain.TabID, error) {
	return domain.ParseTabID(mux.Vars(r)["tabId"])
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid payload: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
