package accountclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"loan-portal/internal/config"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/pkg/apperrors"
)

var _ onboarding.AccountCreator = (*Client)(nil)

// Client posts new-account requests to the account registry endpoint. Any
// transport failure or non-2xx answer is reported as
// apperrors.ErrAccountCreationFailed; requests are not retried.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

func New(cfg config.AccountConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger.With("component", "AccountClient"),
	}
}

func (c *Client) CreateAccount(ctx context.Context, req onboarding.AccountRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: encode request: %w", apperrors.ErrAccountCreationFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", apperrors.ErrAccountCreationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "Account endpoint unreachable", slog.String("endpoint", c.endpoint), slog.Any("error", err))
		return fmt.Errorf("%w: %w", apperrors.ErrAccountCreationFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "Account endpoint rejected request", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: endpoint answered %d", apperrors.ErrAccountCreationFailed, resp.StatusCode)
	}
	return nil
}
