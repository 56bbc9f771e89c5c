package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"teamup-project/microservices/governance-service/models"

	"github.com/sony/gobreaker"
)

// Notification is the payload posted to the notifications service.
type Notification struct {
	UserID  string `json:"userId"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NotificationClient dispatches notifications to the external notifications
// service through a circuit breaker. Dispatch is best-effort: a failed send
// never rolls back the governance mutation that triggered it.
type NotificationClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationClient(baseURL string, client *http.Client, breaker *gobreaker.CircuitBreaker) *NotificationClient {
	return &NotificationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: breaker,
	}
}

func (c *NotificationClient) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return &models.TransportError{Op: "notification dispatch", Err: err}
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notifications", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return &models.TransportError{Op: "notification dispatch", Err: err}
	}
	return nil
}
