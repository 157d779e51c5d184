package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest"
)

type IdentifyRequest struct {
	DeviceID string `json:"deviceId"`
}

type IdentifyResponse struct {
	Success  bool   `json:"success"`
	DeviceID string `json:"deviceId"`
}

// HandleIdentifyDevice echoes the client-chosen device ID back. Nothing
// is persisted; the ID only correlates later transaction lookups.
func (h *Handlers) HandleIdentifyDevice(w http.ResponseWriter, r *http.Request) {
	var req IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	h.logger.Info("received device id", "device_id", req.DeviceID)

	rest.WriteJSON(w, http.StatusOK, IdentifyResponse{
		Success:  true,
		DeviceID: req.DeviceID,
	})
}
