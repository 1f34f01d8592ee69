package handler

import (
	"encoding/json"
	"net/http"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", "Welcome", nil)
}

func (h *Handler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "service_info", "Service information", nil)
}

func (h *Handler) Auction(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auction", "Auction", nil)
}

func (h *Handler) Rentals(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "rentals", "Rentals", nil)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, "ok"
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Warn("HTTP handler: database ping failed",
			"error", err.Error())
		status, body = http.StatusServiceUnavailable, "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": body})
}
