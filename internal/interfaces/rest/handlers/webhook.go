package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/application/services"
	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Webhook-Signature"

type WebhookRequest struct {
	Reference     string `json:"reference"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

type WebhookResponse struct {
	Success     bool             `json:"success"`
	Transaction rest.Transaction `json:"transaction"`
}

func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" {
		rest.WriteError(w, application.NewUnauthorizedError("Webhook secret is not set"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	if !verifySignature(body, r.Header.Get(SignatureHeader), h.webhookSecret) {
		h.logger.Warn("webhook signature verification failed", "remote_addr", r.RemoteAddr)
		rest.WriteError(w, application.NewForbiddenError("Invalid webhook signature"))
		return
	}

	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	tx, err := h.webhookService.Process(r.Context(), services.WebhookCommand{
		Reference:     req.Reference,
		Status:        req.Status,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, WebhookResponse{
		Success:     true,
		Transaction: rest.ToAPITransaction(tx),
	})
}

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
