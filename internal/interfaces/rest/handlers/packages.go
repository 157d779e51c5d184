package handlers

import (
	"net/http"

	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest"
)

func (h *Handlers) HandlePackages(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.catalog)
}
