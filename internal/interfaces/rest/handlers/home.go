package handlers

import (
	"net/http"

	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest"
)

type HomeResponse struct {
	Message string `json:"message"`
}

func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, HomeResponse{Message: "backend running fine"})
}
