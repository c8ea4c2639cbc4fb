package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sony/gobreaker"

	"carelink/internal/config"
)

// Client posts templated messages to the transactional mail provider.
// Sends are advisory; callers log failures and move on.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	baseURL    string
	apiKey     string
	sender     string
}

// NewFromEnv builds a mail client from environment variables.
func NewFromEnv() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    config.NewCircuitBreaker("Mail"),
		baseURL:    os.Getenv("MAIL_API_URL"),
		apiKey:     os.Getenv("MAIL_API_KEY"),
		sender:     os.Getenv("MAIL_SENDER"),
	}
}

// Send delivers one templated message. The template and variables are
// rendered provider-side.
func (c *Client) Send(to, templateID string, vars map[string]string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.send(to, templateID, vars)
	})
	return err
}

func (c *Client) send(to, templateID string, vars map[string]string) error {
	payload := map[string]interface{}{
		"from":        c.sender,
		"to":          to,
		"template_id": templateID,
		"variables":   vars,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned %d", resp.StatusCode)
	}
	return nil
}
