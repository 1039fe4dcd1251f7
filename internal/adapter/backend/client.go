package backend

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
	"github.com/shopspring/decimal"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
)

// Client exposes the REST backend operations consumed by the wallet.
type Client interface {
	GetUser(ctx context.Context, token string) (*model.User, error)
	Deposit(ctx context.Context, token, userID string, coins int64) error
	ResolveAccount(ctx context.Context, token, bankCode, accountNumber string) (string, error)
	Withdraw(ctx context.Context, token string, req model.WithdrawalRequest) (decimal.Decimal, error)
	MarketClient
}

// MarketClient covers the marketplace reads and mutations.
type MarketClient interface {
	Punters(ctx context.Context, token string) ([]model.Punter, error)
	Daily(ctx context.Context, token string) ([]model.Tip, error)
	Feed(ctx context.Context, token string) ([]model.Tip, error)
	BuyTip(ctx context.Context, token, tipID string) (*model.Tip, error)
	CreateTip(ctx context.Context, token string, tip model.Tip) (*model.Tip, error)
	CreateSignal(ctx context.Context, token string, tip model.Tip) (*model.Tip, error)
	Comment(ctx context.Context, token, tipID, body string) (*model.Comment, error)
	SendMessage(ctx context.Context, token, conversationID, body string) (*model.Message, error)
	CreateMessage(ctx context.Context, token, recipientID, body string) (*model.Conversation, error)
	EditProfile(ctx context.Context, token string, update model.ProfileUpdate) (*model.User, error)
	UpdatePricing(ctx context.Context, token string, pricing model.SubscriptionPricing) error
	ChangeRole(ctx context.Context, token string, role model.Role) error
}

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPClient implements Client over JSON/HTTPS.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewHTTPClient creates backend client with the given request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("backend url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		logger:     logger,
	}, nil
}

// call sends payload as JSON and decodes a validated response into out.
// A nil out discards the body.
func (c *HTTPClient) call(ctx context.Context, method, endpoint, token string, payload, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("backend unreachable", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		return fmt.Errorf("%s %s: %w", method, endpoint, domainErrors.ErrBackendUnreachable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, domainErrors.ErrBackendUnreachable)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("backend request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return &domainErrors.BackendError{Status: resp.StatusCode, Message: extractMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domainErrors.MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		return &domainErrors.MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// extractMessage reads the conventional {message|error} error body.
func extractMessage(raw []byte) string {
	var body struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, v := range []any{body.Message, body.Error} {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}
