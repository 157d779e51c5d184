package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/application/services"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest"
)

type InitiateRequest struct {
	Phone       string `json:"phone"`
	MSISDN      string `json:"msisdn"`
	Amount      int64  `json:"amount" validate:"omitempty,gt=0"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	Description string `json:"description"`
	DeviceID    string `json:"device_id"`
}

type InitiateResponse struct {
	Success       bool           `json:"success"`
	Data          map[string]any `json:"data"`
	Reference     string         `json:"reference"`
	TransactionID string         `json:"transaction_id,omitempty"`
}

type StatusResponse struct {
	Success bool           `json:"success"`
	Status  string         `json:"status"`
	Relworx map[string]any `json:"relworx"`
	Data    map[string]any `json:"data"`
}

type TransactionResponse struct {
	Success     bool             `json:"success"`
	Transaction rest.Transaction `json:"transaction"`
}

type TransactionListResponse struct {
	Success      bool               `json:"success"`
	Transactions []rest.Transaction `json:"transactions"`
	Count        int                `json:"count"`
}

func (h *Handlers) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var req InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	result, err := h.initiateService.Initiate(r.Context(), services.InitiateCommand{
		Phone:       req.Phone,
		MSISDN:      req.MSISDN,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		DeviceID:    req.DeviceID,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, InitiateResponse{
		Success:       true,
		Data:          result.Provider.Raw,
		Reference:     result.Reference,
		TransactionID: result.TransactionID,
	})
}

func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")
	live, _ := strconv.ParseBool(r.URL.Query().Get("live"))

	result, err := h.statusService.Check(r.Context(), reference, live)
	if err != nil {
		statusCode, response := rest.BuildErrorResponse(err)
		response.Status = string(domain.StatusFailed)
		rest.WriteJSON(w, statusCode, response)
		return
	}

	data := result.Provider.Raw
	relworx := map[string]any{"status": "pending"}
	for k, v := range data {
		relworx[k] = v
	}
	if result.Provider.Status != "" {
		relworx["status"] = result.Provider.Status
	}

	rest.WriteJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Status:  string(result.Status),
		Relworx: relworx,
		Data:    data,
	})
}

func (h *Handlers) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")

	tx, err := h.queryService.GetByReference(r.Context(), reference)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, TransactionResponse{
		Success:     true,
		Transaction: rest.ToAPITransaction(tx),
	})
}

func (h *Handlers) HandleDeviceTransactions(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("device_id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	txs, err := h.queryService.GetByDevice(r.Context(), deviceID, limit)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	transactions := rest.ToAPITransactions(txs)
	rest.WriteJSON(w, http.StatusOK, TransactionListResponse{
		Success:      true,
		Transactions: transactions,
		Count:        len(transactions),
	})
}
