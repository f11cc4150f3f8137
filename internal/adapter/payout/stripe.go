// Package payout submits electronic payouts to Stripe.
package payout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"echeck-gateway/config"
	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	paymentIntentsPath = "/v1/payment_intents"
	maxResponseBytes   = 1 << 20
)

// StripeClient implements ports.PayoutProvider with Stripe PaymentIntents
// over ACH (us_bank_account). Each call is a single attempt.
type StripeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

type paymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func NewStripeClient(cfg config.StripeConfig, log zerolog.Logger) *StripeClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StripeClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Execute creates and confirms a PaymentIntent. Failures come back as
// Success=false with a readable reason; Execute never panics or retries.
func (c *StripeClient) Execute(ctx context.Context, req ports.PayoutRequest) ports.PayoutResult {
	form := paymentIntentForm(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+paymentIntentsPath, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.PayoutResult{Error: fmt.Sprintf("build request: %v", err)}
	}
	httpReq.SetBasicAuth(c.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Msg("stripe request failed")
		return ports.PayoutResult{Error: "payout provider unreachable"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ports.PayoutResult{Error: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr stripeError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			c.log.Info().Int("status", resp.StatusCode).Str("code", apiErr.Error.Code).Msg("stripe rejected payout")
			return ports.PayoutResult{Error: apiErr.Error.Message}
		}
		return ports.PayoutResult{Error: fmt.Sprintf("stripe error (%d)", resp.StatusCode)}
	}

	var pi paymentIntent
	if err := json.Unmarshal(body, &pi); err != nil {
		return ports.PayoutResult{Error: fmt.Sprintf("decode response: %v", err)}
	}
	switch pi.Status {
	case "succeeded", "processing":
		return ports.PayoutResult{Success: true, ID: pi.ID}
	default:
		return ports.PayoutResult{ID: pi.ID, Error: "payment intent " + pi.Status}
	}
}

func paymentIntentForm(req ports.PayoutRequest) url.Values {
	currency := req.Currency
	if currency == "" {
		currency = domain.CurrencyUSD
	}
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("confirm", "true")
	form.Set("description", req.Description)
	form.Set("payment_method_types[]", "us_bank_account")
	form.Set("payment_method_data[type]", "us_bank_account")
	form.Set("payment_method_data[billing_details][name]", req.RecipientName)
	form.Set("payment_method_data[us_bank_account][account_holder_type]", "company")
	form.Set("payment_method_data[us_bank_account][routing_number]", req.RecipientRoutingNumber)
	form.Set("payment_method_data[us_bank_account][account_number]", req.RecipientAccountNumber)
	form.Set("mandate_data[customer_acceptance][type]", "offline")
	form.Set("metadata[payer_routing_number]", req.PayerRoutingNumber)
	form.Set("metadata[payer_account_last4]", domain.LastFour(req.PayerAccountNumber))
	return form
}
