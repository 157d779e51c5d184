package relworx

import (
	"encoding/json"
	"fmt"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
)

type paymentRequestBody struct {
	AccountNo   string `json:"account_no"`
	Reference   string `json:"reference"`
	MSISDN      string `json:"msisdn"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type errorResponseBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// decodeProviderResponse lifts the fields business logic reads out of the
// provider body while keeping the full decoded payload in Raw.
func decodeProviderResponse(body []byte) (*application.ProviderResponse, error) {
	raw := map[string]any{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	resp := &application.ProviderResponse{Raw: raw}
	if v, ok := raw["success"].(bool); ok {
		resp.Success = v
	}
	if v, ok := raw["status"].(string); ok {
		resp.Status = v
	}
	if v, ok := raw["message"].(string); ok {
		resp.Message = v
	}
	if v, ok := raw["internal_reference"].(string); ok {
		resp.InternalReference = v
	}

	return resp, nil
}
