package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"doc-check.backend/internal/domain/repositories"
)

// AccessTokenHeader carries the Asaas API key on outbound calls.
const AccessTokenHeader = "access_token"

// AsaasClient calls the Asaas payment gateway.
type AsaasClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAsaasClient creates a new gateway client with a bounded request timeout.
func NewAsaasClient(baseURL, apiKey string, timeout time.Duration) *AsaasClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AsaasClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Refund asks the gateway to refund a payment. A 2xx answer reports success,
// a 4xx answer is a rejection (success=false, no error); transport failures
// and 5xx answers return an error so the caller can treat the gateway as down.
func (c *AsaasClient) Refund(ctx context.Context, paymentID string) (*repositories.RefundResult, error) {
	url := fmt.Sprintf("%s/v3/payments/%s/refund", c.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(AccessTokenHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asaas refund request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("asaas refund returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &repositories.RefundResult{Success: false}, nil
	}

	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("asaas refund response: %w", err)
	}
	return &repositories.RefundResult{Success: true, RefundID: body.ID}, nil
}
