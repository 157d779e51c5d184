package relworx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
	"github.com/ugconnect/wifi-voucher-gateway/internal/config"
)

// acceptHeader is the versioned vendor media type Relworx requires.
const acceptHeader = "application/vnd.relworx.v2"

type Client struct {
	baseURL    string
	apiKey     string
	accountNo  string
	httpClient *http.Client
}

func NewClient(cfg config.RelworxConfig) application.PaymentProvider {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		accountNo: cfg.AccountNo,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

// RequestPayment issues the "initiate mobile-money charge" call. The
// provider pulls money from the customer's wallet asynchronously; the
// returned status is almost always pending.
func (c *Client) RequestPayment(ctx context.Context, req application.PaymentRequest) (*application.ProviderResponse, error) {
	payload := paymentRequestBody{
		AccountNo:   c.accountNo,
		Reference:   req.Reference,
		MSISDN:      req.MSISDN,
		Currency:    req.Currency,
		Amount:      req.Amount,
		Description: req.Description,
	}

	endpoint := fmt.Sprintf("%s/mobile-money/request-payment", c.baseURL)
	return c.sendRequest(ctx, http.MethodPost, endpoint, &payload)
}

// CheckRequestStatus queries the charge keyed by the gateway reference.
func (c *Client) CheckRequestStatus(ctx context.Context, reference string) (*application.ProviderResponse, error) {
	q := url.Values{}
	q.Set("internal_reference", reference)
	q.Set("account_no", c.accountNo)

	endpoint := fmt.Sprintf("%s/mobile-money/check-request-status?%s", c.baseURL, q.Encode())
	return c.sendRequest(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) sendRequest(ctx context.Context, method, endpoint string, reqBody *paymentRequestBody) (*application.ProviderResponse, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", acceptHeader)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponseBody
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
			return nil, &ProviderError{
				StatusCode: resp.StatusCode,
				Message:    string(body),
			}
		}
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Message,
		}
	}

	return decodeProviderResponse(body)
}
