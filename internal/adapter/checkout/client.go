package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
)

// Gateway opens and verifies hosted checkouts.
type Gateway interface {
	Initialize(ctx context.Context, charge model.Charge) (*model.Checkout, error)
	Verify(ctx context.Context, reference string) (*model.CheckoutResult, error)
	Banks(ctx context.Context) ([]model.Bank, error)
}

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPClient talks to a Paystack compatible provider.
type HTTPClient struct {
	baseURL    *url.URL
	publicKey  string
	secretKey  string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewHTTPClient creates a checkout client authenticated with secretKey.
func NewHTTPClient(baseURL, publicKey, secretKey string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse checkout url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("checkout url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    parsed,
		publicKey:  publicKey,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		logger:     logger,
	}, nil
}

type initializeRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
	Currency  string `json:"currency"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		AuthorizationURL string `json:"authorization_url" validate:"required"`
		AccessCode       string `json:"access_code" validate:"required"`
		Reference        string `json:"reference" validate:"required"`
	} `json:"data" validate:"required"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		Status          string `json:"status" validate:"required"`
		Reference       string `json:"reference" validate:"required"`
		Amount          int64  `json:"amount"`
		GatewayResponse string `json:"gateway_response"`
	} `json:"data" validate:"required"`
}

type banksResponse struct {
	Status bool `json:"status"`
	Data   []struct {
		Name   string `json:"name" validate:"required"`
		Code   string `json:"code" validate:"required"`
		Active bool   `json:"active"`
	} `json:"data" validate:"dive"`
}

// Initialize opens a checkout for charge.
func (c *HTTPClient) Initialize(ctx context.Context, charge model.Charge) (*model.Checkout, error) {
	req := initializeRequest{
		Email:     charge.Email,
		Amount:    charge.Amount,
		Reference: charge.Reference,
		Currency:  charge.Currency,
	}
	var resp initializeResponse
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", req, &resp); err != nil {
		return nil, err
	}
	return &model.Checkout{
		Reference:        resp.Data.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		PublicKey:        c.publicKey,
		Email:            charge.Email,
		Amount:           charge.Amount,
	}, nil
}

// Verify reports how the checkout identified by reference ended.
func (c *HTTPClient) Verify(ctx context.Context, reference string) (*model.CheckoutResult, error) {
	var resp verifyResponse
	endpoint := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &model.CheckoutResult{
		Reference: resp.Data.Reference,
		Outcome:   outcomeFor(resp.Data.Status),
		Amount:    resp.Data.Amount,
		Message:   resp.Data.GatewayResponse,
	}, nil
}

// Banks lists the active banks payouts can be sent to.
func (c *HTTPClient) Banks(ctx context.Context) ([]model.Bank, error) {
	var resp banksResponse
	if err := c.call(ctx, http.MethodGet, "/bank?country=nigeria", nil, &resp); err != nil {
		return nil, err
	}
	banks := make([]model.Bank, 0, len(resp.Data))
	for _, b := range resp.Data {
		if !b.Active {
			continue
		}
		banks = append(banks, model.Bank{Code: b.Code, Name: b.Name})
	}
	return banks, nil
}

func outcomeFor(status string) model.CheckoutOutcome {
	switch status {
	case "success":
		return model.OutcomeSuccess
	case "abandoned":
		return model.OutcomeCancelled
	default:
		return model.OutcomeFailed
	}
}

func (c *HTTPClient) call(ctx context.Context, method, endpoint string, payload, out any) error {
	target, err := c.resolve(endpoint)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("checkout provider unreachable", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		return fmt.Errorf("%s %s: %w", method, endpoint, domainErrors.ErrBackendUnreachable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, domainErrors.ErrBackendUnreachable)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("checkout request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &envelope)
		return &domainErrors.ProviderError{Status: resp.StatusCode, Message: envelope.Message}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &domainErrors.MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		return &domainErrors.MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func (c *HTTPClient) resolve(endpoint string) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %s: %w", endpoint, err)
	}
	target := *c.baseURL
	target.Path = path.Join(target.Path, ref.Path)
	target.RawQuery = ref.RawQuery
	return target.String(), nil
}
