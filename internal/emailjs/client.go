package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Params are the template variables every order template expects.
type Params struct {
	ToEmail      string `json:"to_email"`
	Name         string `json:"name"`
	Total        string `json:"total"`
	OrderDetails string `json:"order_details"`
}

// Message is one transactional send: a service/template/key triple plus
// the template parameters.
type Message struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Params     Params
}

type sendRequest struct {
	ServiceID      string `json:"service_id"`
	TemplateID     string `json:"template_id"`
	UserID         string `json:"user_id"`
	TemplateParams Params `json:"template_params"`
}

// Client calls the EmailJS REST endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts one message. A non-2xx response is returned as an error
// carrying the response body text.
func (c *Client) Send(ctx context.Context, m Message) error {
	body, err := json.Marshal(sendRequest{
		ServiceID:      m.ServiceID,
		TemplateID:     m.TemplateID,
		UserID:         m.PublicKey,
		TemplateParams: m.Params,
	})
	if err != nil {
		return fmt.Errorf("emailjs: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("emailjs: send failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(text))
	}
	return nil
}
