package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Dispatcher envia notificações aos canais externos (push/WhatsApp).
// O envio é fire-and-forget: falha é logada e nunca interrompe a operação de negócio.
type Dispatcher interface {
	Send(ctx context.Context, userID int64, message string) error
}

// FunctionDispatcher despacha via a função serverless send-notification
type FunctionDispatcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewFunctionDispatcher(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *FunctionDispatcher {
	return &FunctionDispatcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (d *FunctionDispatcher) Send(ctx context.Context, userID int64, message string) error {
	payload, err := json.Marshal(map[string]any{
		"user_id": userID,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	url := fmt.Sprintf("%s/functions/v1/send-notification", d.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to dispatch notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification dispatch returned status %d", resp.StatusCode)
	}
	return nil
}
