// Package notify dispatches buyer-facing email notifications through an
// outbound webhook. Delivery is best effort: callers run it detached and
// only log failures.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"marketplace-shipping-api/config"
	"marketplace-shipping-api/internal/shipping"
)

type WebhookNotifier struct {
	webhookURL string
	baseURL    string
	client     *http.Client
}

func NewWebhookNotifier(cfg config.NotifyConfig, appCfg config.AppConfig) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: cfg.WebhookURL,
		baseURL:    appCfg.BaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Template    string `json:"template"`
	To          string `json:"to"`
	Name        string `json:"name"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	TrackingURL string `json:"trackingURL"`
}

// StatusChanged posts the notification payload to the webhook. A non-2xx
// response counts as failure.
func (n *WebhookNotifier) StatusChanged(ctx context.Context, sn shipping.StatusNotification) error {
	if n.webhookURL == "" {
		return fmt.Errorf("notification webhook URL is not configured")
	}

	payload := webhookPayload{
		Template:    sn.Template,
		To:          sn.Email,
		Name:        sn.Name,
		OrderNumber: sn.OrderNumber,
		Status:      sn.Status,
		TrackingURL: fmt.Sprintf("%s/track?orderNumber=%s", n.baseURL, url.QueryEscape(sn.OrderNumber)),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notification webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}
	return nil
}
