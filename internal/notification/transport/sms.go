package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMSSender abstrai o provedor de SMS. Send devolve o identificador
// de entrega do provedor; Status reconsulta esse identificador.
type SMSSender interface {
	Send(ctx context.Context, to string, body string) (string, error)
	Status(ctx context.Context, providerID string) (string, error)
}

// WebhookSender fala com o gateway de SMS via webhook JSON.
type WebhookSender struct {
	url   string
	token string
	http  *http.Client
}

func NewWebhookSender(url string, token string) *WebhookSender {
	return &WebhookSender{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (s *WebhookSender) Send(ctx context.Context, to string, body string) (string, error) {
	if s.url == "" {
		return "", errors.New("sms webhook url not configured")
	}

	raw, err := json.Marshal(map[string]string{
		"to":   to,
		"body": body,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms webhook returned %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("sms webhook returned empty delivery id")
	}
	return out.ID, nil
}

func (s *WebhookSender) Status(ctx context.Context, providerID string) (string, error) {
	if s.url == "" {
		return "", errors.New("sms webhook url not configured")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		strings.TrimRight(s.url, "/")+"/"+providerID,
		nil,
	)
	if err != nil {
		return "", err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms webhook returned %d", resp.StatusCode)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// NoopSMSSender aceita tudo. Usado em dev quando não há gateway.
type NoopSMSSender struct{}

func (NoopSMSSender) Send(_ context.Context, _ string, _ string) (string, error) {
	return "noop-" + uuid.NewString(), nil
}

func (NoopSMSSender) Status(_ context.Context, _ string) (string, error) {
	return "delivered", nil
}
