package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bookingbot/backend/internal/models"
)

// PaymentProvider is the payment collaborator: create an order and receive a
// redirect target, capture it once the customer approves.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, booking *models.Booking, returnURL, cancelURL string) (orderID, approvalURL string, err error)
	CaptureOrder(ctx context.Context, orderID string) (status string, err error)
	GetOrder(ctx context.Context, orderID string) (status string, err error)
}

// PayPalClient implements PaymentProvider against the PayPal Orders v2 API.
type PayPalClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalClient creates a client from the environment. PAYPAL_MODE
// "live" selects the production endpoint; anything else uses sandbox.
func NewPayPalClient() (*PayPalClient, error) {
	clientID := os.Getenv("PAYPAL_CLIENT_ID")
	clientSecret := os.Getenv("PAYPAL_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("missing PayPal credentials in environment variables")
	}

	baseURL := "https://api-m.sandbox.paypal.com"
	if os.Getenv("PAYPAL_MODE") == "live" {
		baseURL = "https://api-m.paypal.com"
	}

	return &PayPalClient{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// token returns a cached OAuth access token, refreshing when expired.
func (p *PayPalClient) token(ctx context.Context) (string, error) {
	p.tokenMu.Lock()
	defer p.tokenMu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(p.clientID + ":" + p.clientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("invalid token response: %w", err)
	}

	p.accessToken = body.AccessToken
	// Refresh a minute early so a token never expires mid-request.
	p.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn-60) * time.Second)
	return p.accessToken, nil
}

// CreateOrder creates a PayPal order for the booking total and returns the
// approval URL the customer must be redirected to.
func (p *PayPalClient) CreateOrder(ctx context.Context, booking *models.Booking, returnURL, cancelURL string) (string, string, error) {
	order := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"reference_id": booking.BookingReference,
			"description": fmt.Sprintf("Flight %s → %s on %s",
				booking.Origin, booking.Destination, booking.DepartureDate),
			"amount": map[string]string{
				"currency_code": booking.Currency,
				"value":         fmt.Sprintf("%.2f", booking.TotalPrice),
			},
		}},
		"application_context": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
			"brand_name": "Flight Booking Bot",
		},
	}

	var body struct {
		ID    string `json:"id"`
		Links []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := p.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", order, &body); err != nil {
		return "", "", err
	}

	for _, link := range body.Links {
		if link.Rel == "approve" {
			return body.ID, link.Href, nil
		}
	}
	return "", "", fmt.Errorf("paypal order %s has no approval link", body.ID)
}

// CaptureOrder captures an approved order and returns its final status.
func (p *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	var body struct {
		Status string `json:"status"`
	}
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID)
	if err := p.doJSON(ctx, http.MethodPost, path, struct{}{}, &body); err != nil {
		return "", err
	}
	log.Printf("💳 PayPal order %s captured: %s", orderID, body.Status)
	return body.Status, nil
}

// GetOrder fetches the current status of an order.
func (p *PayPalClient) GetOrder(ctx context.Context, orderID string) (string, error) {
	var body struct {
		Status string `json:"status"`
	}
	if err := p.doJSON(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

func (p *PayPalClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
