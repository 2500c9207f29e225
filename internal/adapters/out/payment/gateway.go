// Package payment calls the payout provider's HTTP API.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

const adapterName = "payment-gateway"

type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration // per attempt
	MaxAttempts uint64
}

type payoutRequest struct {
	Reference string          `json:"reference"`
	FarmerID  string          `json:"farmerId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
}

type payoutResponse struct {
	TransactionReference string `json:"transactionReference"`
}

// HTTPGateway posts payouts to {BaseURL}/payouts. The payout reference doubles as
// the idempotency key, so a retried attempt cannot pay twice.
type HTTPGateway struct {
	cfg    Config
	client *http.Client
}

func NewHTTPGateway(cfg Config, client *http.Client) *HTTPGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPGateway{cfg: cfg, client: client}
}

func (g *HTTPGateway) Pay(ctx context.Context, instruction ports.PayoutInstruction) (string, error) {
	body, err := json.Marshal(payoutRequest{
		Reference: instruction.Reference,
		FarmerID:  instruction.FarmerID.String(),
		Amount:    instruction.Amount,
		Method:    instruction.Method.String(),
	})
	if err != nil {
		return "", errs.NewAdapterFailureError(adapterName, err)
	}

	var (
		txRef    string
		timedOut bool
	)
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.cfg.MaxAttempts-1),
		ctx,
	)
	err = backoff.Retry(func() error {
		ref, attemptErr := g.attempt(ctx, instruction.Reference, body)
		timedOut = errors.Is(attemptErr, context.DeadlineExceeded)
		if attemptErr == nil {
			txRef = ref
		}
		return attemptErr
	}, policy)
	if err == nil {
		return txRef, nil
	}
	if timedOut {
		return "", errs.NewAdapterTimeoutError(adapterName, err)
	}
	return "", errs.NewAdapterFailureError(adapterName, err)
}

func (g *HTTPGateway) attempt(ctx context.Context, reference string, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/payouts", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", reference)
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("provider answered %d", resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return "", backoff.Permanent(fmt.Errorf("provider rejected payout: %d", resp.StatusCode))
	}

	var out payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode provider response: %w", err))
	}
	if out.TransactionReference == "" {
		return "", backoff.Permanent(errors.New("provider returned no transaction reference"))
	}
	return out.TransactionReference, nil
}
