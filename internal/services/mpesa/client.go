package mpesa

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/sony/gobreaker"

	"carelink/internal/config"
)

// Client talks to the Daraja STK push API. All calls go through a circuit
// breaker so a flapping gateway cannot pile up submission requests.
type Client struct {
	httpClient     *http.Client
	breaker        *gobreaker.CircuitBreaker
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string
}

// STKPushResult is the subset of the Daraja response the workflow needs.
type STKPushResult struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResponseCode      string `json:"ResponseCode"`
	ResponseDesc      string `json:"ResponseDescription"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// NewFromEnv builds a client from environment variables. Sandbox defaults
// keep local development working without a .env file.
func NewFromEnv() *Client {
	base := os.Getenv("MPESA_BASE_URL")
	if base == "" {
		base = "https://sandbox.safaricom.co.ke"
	}
	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		breaker:        config.NewCircuitBreaker("MPesa"),
		baseURL:        base,
		consumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		consumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		shortcode:      os.Getenv("MPESA_SHORTCODE"),
		passkey:        os.Getenv("MPESA_PASSKEY"),
		callbackURL:    os.Getenv("MPESA_CALLBACK_URL"),
	}
}

// STKPush requests a mobile-money charge and returns the gateway's
// CheckoutRequestID, which the callback later echoes for reconciliation.
func (c *Client) STKPush(phoneNumber string, amount float64, reference, narrative string) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.stkPush(phoneNumber, amount, reference, narrative)
	})
	if err != nil {
		return "", err
	}
	return result.(*STKPushResult).CheckoutRequestID, nil
}

func (c *Client) stkPush(phoneNumber string, amount float64, reference, narrative string) (*STKPushResult, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, fmt.Errorf("mpesa auth: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.shortcode + c.passkey + timestamp))

	payload := map[string]interface{}{
		"BusinessShortCode": c.shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int(math.Ceil(amount)), // Daraja takes whole shillings
		"PartyA":            phoneNumber,
		"PartyB":            c.shortcode,
		"PhoneNumber":       phoneNumber,
		"CallBackURL":       c.callbackURL,
		"AccountReference":  reference,
		"TransactionDesc":   narrative,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mpesa stkpush: gateway returned %d", resp.StatusCode)
	}

	var result STKPushResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.ResponseCode != "0" {
		return nil, fmt.Errorf("mpesa stkpush rejected: %s", result.ResponseDesc)
	}
	return &result, nil
}

func (c *Client) accessToken() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errors.New("empty access token")
	}
	return tr.AccessToken, nil
}
