package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// HTTPBankService calls the external banking collaborator over HTTP. Every
// call carries a deadline; a timeout is reported as a failed transfer, which
// callers resolve to the pending-payment path.
type HTTPBankService struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

type transferRequest struct {
	FromAccount string       `json:"from_account"`
	AuthCode    string       `json:"auth_code"`
	ToAccount   string       `json:"to_account"`
	Amount      domain.Money `json:"amount"`
}

type transferResponse struct {
	TransferID string `json:"transfer_id"`
	Error      string `json:"error,omitempty"`
}

func NewHTTPBankService(baseURL string, timeout time.Duration, log logger.Logger) *HTTPBankService {
	return &HTTPBankService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (b *HTTPBankService) Transfer(ctx context.Context, fromAccount, fromAuthCode, toAccount string, amount domain.Money) error {
	body, err := json.Marshal(transferRequest{
		FromAccount: fromAccount,
		AuthCode:    fromAuthCode,
		ToAccount:   toAccount,
		Amount:      amount,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/api/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.log.Error("Transfer request failed", "to_account", toAccount, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result transferResponse
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			json.Unmarshal(data, &result)
		}
		b.log.Warn("Transfer rejected", "to_account", toAccount,
			"status_code", resp.StatusCode, "reason", result.Error)
		return fmt.Errorf("transfer rejected: status %d: %s", resp.StatusCode, result.Error)
	}

	return nil
}
